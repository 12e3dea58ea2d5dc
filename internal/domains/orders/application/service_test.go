package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/domain"
	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	ordersmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/memory"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

func seedProduct(t *testing.T, catalog *catalogmemory.Repository, name string, priceCents, stock int64) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct(0, name, priceCents, stock, nil)
	require.NoError(t, err)
	saved, err := catalog.Save(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func stockOf(t *testing.T, catalog *catalogmemory.Repository, productID int64) int64 {
	t.Helper()
	product, err := catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return product.Stock
}

func newTestService(catalog *catalogmemory.Repository, opts ...Option) (*Service, *ordersmemory.Repository) {
	repo := ordersmemory.NewRepository()
	return NewService(repo, catalog, catalog, opts...), repo
}

func TestCreate_RecomputesTotalFromCatalog(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	charger := seedProduct(t, catalog, "Charger", 100, 10)
	cable := seedProduct(t, catalog, "Cable", 50, 10)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{
			{ProductID: charger.ID, Quantity: 2},
			{ProductID: cable.ID, Quantity: 1},
		},
		ClientTotalCents: 9999,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250), order.TotalCents)
	assert.Equal(t, domain.StatusProcessing, order.Status)
	assert.Equal(t, "Charger", order.Items[0].Name)
	assert.Equal(t, int64(8), stockOf(t, catalog, charger.ID))
	assert.Equal(t, int64(9), stockOf(t, catalog, cable.ID))
}

func TestCreate_RejectsInvalidItems(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Mouse", 1500, 5)
	svc, _ := newTestService(catalog)

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidItems)

	_, err = svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidItems)

	_, err = svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: -4, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidItems)

	assert.Equal(t, int64(5), stockOf(t, catalog, product.ID))
}

func TestCreate_UnknownProduct(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	svc, _ := newTestService(catalog)

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: 42, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreate_InsufficientStockRollsBackReservations(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	plentiful := seedProduct(t, catalog, "Keyboard", 8000, 10)
	scarce := seedProduct(t, catalog, "Monitor", 30000, 1)
	svc, _ := newTestService(catalog)

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{
			{ProductID: plentiful.ID, Quantity: 3},
			{ProductID: scarce.ID, Quantity: 2},
		},
	})
	var insufficient *catalogports.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, scarce.ID, insufficient.ProductID)
	assert.Equal(t, int64(2), insufficient.Requested)
	assert.Equal(t, int64(1), insufficient.Available)

	// The keyboard reservation was compensated.
	assert.Equal(t, int64(10), stockOf(t, catalog, plentiful.ID))
	assert.Equal(t, int64(1), stockOf(t, catalog, scarce.ID))
}

func TestCreate_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Console", 40000, 3)
	svc, repo := newTestService(catalog)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Create(context.Background(), ports.CreateOrderInput{
				Actor: ports.Actor{UserID: int64(i + 1)},
				Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 2}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			var insufficient *catalogports.InsufficientStockError
			assert.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), stockOf(t, catalog, product.ID))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

type failingOrderRepo struct {
	ports.Repository
}

func (failingOrderRepo) Create(context.Context, *domain.Order) (*domain.Order, error) {
	return nil, errors.New("storage offline")
}

func TestCreate_ReleasesStockWhenPersistenceFails(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Webcam", 6000, 4)
	svc := NewService(failingOrderRepo{ordersmemory.NewRepository()}, catalog, catalog)

	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.Error(t, err)
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))
}

func TestCreate_IdempotentReplay(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Speaker", 12000, 6)
	svc, _ := newTestService(catalog, WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))

	input := ports.CreateOrderInput{
		Actor:          ports.Actor{UserID: 1},
		Items:          []ports.ItemInput{{ProductID: product.ID, Quantity: 2}},
		IdempotencyKey: "checkout-77",
	}
	first, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	replay, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	// Stock deducted once, not twice.
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))

	// Same key with a different payload is a conflict.
	conflicting := input
	conflicting.Items = []ports.ItemInput{{ProductID: product.ID, Quantity: 1}}
	_, err = svc.Create(context.Background(), conflicting)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))
}

// raceThroughStore hides existing records from Get so an identical retry
// reaches Save, where the store hands back the winner's record with no error.
type raceThroughStore struct {
	ports.IdempotencyStore
}

func (raceThroughStore) Get(context.Context, string) (*ports.IdempotencyRecord, error) {
	return nil, nil
}

func TestCreate_IdempotentRaceConvergesOnWinner(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Speaker", 12000, 6)
	store := raceThroughStore{ordersmemory.NewIdempotencyStore()}
	svc, repo := newTestService(catalog, WithIdempotencyStore(store))

	input := ports.CreateOrderInput{
		Actor:          ports.Actor{UserID: 1},
		Items:          []ports.ItemInput{{ProductID: product.ID, Quantity: 2}},
		IdempotencyKey: "checkout-88",
	}
	first, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	// One logical checkout deducts stock once even when both attempts
	// reserved before the key was claimed.
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))

	// The losing attempt's order is cancelled with its stock returned.
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, order := range all {
		if order.ID != first.ID {
			assert.Equal(t, domain.StatusCancelled, order.Status)
		}
	}
}

func TestCancel_ReleasesStockExactlyOnce(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Tablet", 25000, 5)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), stockOf(t, catalog, product.ID))

	require.NoError(t, svc.Cancel(context.Background(), ports.Actor{UserID: 1}, order.ID))
	assert.Equal(t, int64(5), stockOf(t, catalog, product.ID))

	// Second cancel loses the status guard and must not re-release stock.
	err = svc.Cancel(context.Background(), ports.Actor{UserID: 1}, order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, int64(5), stockOf(t, catalog, product.ID))
}

func TestCancel_Authorization(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Router", 9000, 5)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), ports.Actor{UserID: 2}, order.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))

	// Admins may cancel anyone's order.
	require.NoError(t, svc.Cancel(context.Background(), ports.Actor{UserID: 99, Admin: true}, order.ID))
	assert.Equal(t, int64(5), stockOf(t, catalog, product.ID))
}

func TestCancel_AfterShipmentKeepsStock(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Printer", 15000, 5)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), ports.Actor{UserID: 1}, order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))

	fetched, err := svc.GetByID(context.Background(), ports.Actor{UserID: 1}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, fetched.Status)
}

func TestUpdateStatus_FollowsMachine(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Camera", 32000, 5)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	shipped, err := svc.UpdateStatus(context.Background(), order.ID, domain.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, shipped.Status)

	delivered, err := svc.UpdateStatus(context.Background(), order.ID, domain.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, delivered.Status)

	// Delivered is terminal.
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "dispatched")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), 4040, domain.StatusShipped)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// Status transitions never touch stock.
	assert.Equal(t, int64(4), stockOf(t, catalog, product.ID))
}

func TestGetByID_OwnerScoped(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Drone", 55000, 5)
	svc, _ := newTestService(catalog)

	order, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 1},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// A stranger's order reads as not found, not forbidden.
	_, err = svc.GetByID(context.Background(), ports.Actor{UserID: 2}, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	fetched, err := svc.GetByID(context.Background(), ports.Actor{UserID: 99, Admin: true}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestListByOwner_NewestFirst(t *testing.T) {
	catalog := catalogmemory.NewRepository()
	product := seedProduct(t, catalog, "Lamp", 2000, 20)
	svc, _ := newTestService(catalog)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), ports.CreateOrderInput{
			Actor: ports.Actor{UserID: 1},
			Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), ports.CreateOrderInput{
		Actor: ports.Actor{UserID: 2},
		Items: []ports.ItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	mine, err := svc.ListByOwner(context.Background(), ports.Actor{UserID: 1})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	for i := 1; i < len(mine); i++ {
		assert.GreaterOrEqual(t, mine[i-1].ID, mine[i].ID)
	}

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
