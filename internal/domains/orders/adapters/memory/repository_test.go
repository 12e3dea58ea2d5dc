package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

func newOrder(t *testing.T, userID int64) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(userID, []domain.LineItem{
		{ProductID: 1, Name: "Headphones", PriceCents: 4500, Quantity: 2},
	}, domain.DefaultStatus)
	require.NoError(t, err)
	return order
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	repo := NewRepository()
	first, err := repo.Create(context.Background(), newOrder(t, 1))
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), newOrder(t, 1))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestGetByID_ReturnsClone(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Create(context.Background(), newOrder(t, 1))
	require.NoError(t, err)

	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	fetched.Status = domain.StatusDelivered
	fetched.Items[0].Quantity = 99

	again, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultStatus, again.Status)
	assert.Equal(t, int64(2), again.Items[0].Quantity)

	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListByUser_FiltersAndSortsNewestFirst(t *testing.T) {
	repo := NewRepository()
	old := newOrder(t, 1)
	old.CreatedAt = time.Now().Add(-time.Hour)
	_, err := repo.Create(context.Background(), old)
	require.NoError(t, err)
	recent, err := repo.Create(context.Background(), newOrder(t, 1))
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), newOrder(t, 2))
	require.NoError(t, err)

	mine, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, recent.ID, mine[0].ID)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateStatusFrom_Guard(t *testing.T) {
	repo := NewRepository()
	saved, err := repo.Create(context.Background(), newOrder(t, 1))
	require.NoError(t, err)

	applied, err := repo.UpdateStatusFrom(context.Background(), saved.ID, domain.CancellableStatuses(), domain.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, applied)

	// The guard no longer matches, so a retry is a no-op, not an error.
	applied, err = repo.UpdateStatusFrom(context.Background(), saved.ID, domain.CancellableStatuses(), domain.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, applied)

	fetched, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, fetched.Status)

	_, err = repo.UpdateStatusFrom(context.Background(), 404, domain.CancellableStatuses(), domain.StatusCancelled)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	store := NewIdempotencyStore()

	_, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)

	record := ports.IdempotencyRecord{Key: "k1", RequestHash: "abc", OrderID: 7}
	stored, err := store.Save(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.OrderID)

	// Replaying the same fingerprint returns the original record.
	replay, err := store.Save(context.Background(), ports.IdempotencyRecord{Key: "k1", RequestHash: "abc", OrderID: 8})
	require.NoError(t, err)
	assert.Equal(t, int64(7), replay.OrderID)

	// A different fingerprint under the same key is a conflict.
	conflict, err := store.Save(context.Background(), ports.IdempotencyRecord{Key: "k1", RequestHash: "zzz", OrderID: 9})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, conflict)
	assert.Equal(t, int64(7), conflict.OrderID)
}
