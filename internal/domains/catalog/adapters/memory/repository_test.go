package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
)

func seed(t *testing.T, repo *Repository, stock int64) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(0, "SSD", 12000, stock, []string{"https://img.example/ssd.png"})
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestSave_AssignsIDAndClones(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, 5)
	require.NotZero(t, saved.ID)

	// Mutating the returned copy must not leak into the store.
	saved.Stock = 9999
	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fetched.Stock)
}

func TestGetByID_Missing(t *testing.T) {
	repo := NewRepository()
	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReserve_InsufficientStock(t *testing.T) {
	repo := NewRepository()
	product := seed(t, repo, 1)

	err := repo.Reserve(context.Background(), product.ID, 2)
	var insufficient *ports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Requested)
	assert.Equal(t, int64(1), insufficient.Available)

	// A failed reservation leaves stock untouched.
	fetched, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fetched.Stock)
}

func TestReserve_ConcurrentNeverGoesNegative(t *testing.T) {
	repo := NewRepository()
	product := seed(t, repo, 10)

	const workers = 25
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.Reserve(context.Background(), product.ID, 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 10, succeeded)

	fetched, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fetched.Stock)
}

func TestRelease_RestoresStock(t *testing.T) {
	repo := NewRepository()
	product := seed(t, repo, 3)

	require.NoError(t, repo.Reserve(context.Background(), product.ID, 3))
	require.NoError(t, repo.Release(context.Background(), product.ID, 2))

	fetched, err := repo.GetByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.Stock)

	assert.ErrorIs(t, repo.Release(context.Background(), 404, 1), ports.ErrNotFound)
}
