//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Shreejal-khatri/ElectronicStore/test/pact"

	catalogmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/domain"
	ordersmemory "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/application"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	usersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/application"
	userdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/domain"
	userports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/ports"
	"github.com/Shreejal-khatri/ElectronicStore/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp serves the order routes from rebuildable in-memory
// state so each provider state starts from a clean slate.
type contractProviderApp struct {
	mu      sync.RWMutex
	router  http.Handler
	service orderports.Service
	server  *httptest.Server
}

type staticUserService struct {
	byToken map[string]*userdomain.User
}

var _ userports.Service = (*staticUserService)(nil)

func (s *staticUserService) Register(_ context.Context, user *userdomain.User) (*userdomain.User, error) {
	return user, nil
}

func (s *staticUserService) GetByUsername(context.Context, string) (*userdomain.User, error) {
	return nil, userports.ErrNotFound
}

func (s *staticUserService) Login(context.Context, string, string) (string, error) {
	return "", usersapp.ErrAuthentication
}

func (s *staticUserService) Logout(context.Context, string) {}

func (s *staticUserService) VerifyToken(_ context.Context, token string) (*userdomain.User, error) {
	user, ok := s.byToken[token]
	if !ok {
		return nil, usersapp.ErrInvalidToken
	}
	return user, nil
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	app := &contractProviderApp{}
	app.reset(t)

	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)

	return app
}

// reset rebuilds repositories, services, and the router from scratch and
// seeds the catalog product the contract shops for.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()

	catalog := catalogmemory.NewRepository()
	name, priceCents, stock, imageURL := pacttest.ExampleProduct()
	product, err := catalogdomain.NewProduct(pacttest.SeededProductID, name, priceCents, stock, []string{imageURL})
	require.NoError(t, err)
	_, err = catalog.Save(context.Background(), product)
	require.NoError(t, err)

	service := ordersobs.New(ordersapp.NewService(
		ordersmemory.NewRepository(), catalog, catalog,
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()),
	))
	users := &staticUserService{byToken: map[string]*userdomain.User{
		pacttest.CustomerToken: {ID: 1, Username: "pact-customer", Role: userdomain.RoleCustomer},
		pacttest.AdminToken:    {ID: 2, Username: "pact-admin", Role: userdomain.RoleAdmin},
	}}
	router := httpapi.NewRouter(httpapi.RouterDeps{Orders: service, Users: users})

	a.mu.Lock()
	a.router = router
	a.service = service
	a.mu.Unlock()
}

// seedOrder places the contract's existing order. With fresh repositories the
// first order is assigned id 1.
func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()

	a.mu.RLock()
	service := a.service
	a.mu.RUnlock()

	order, err := service.Create(context.Background(), orderports.CreateOrderInput{
		Actor: orderports.Actor{UserID: 1},
		Items: []orderports.ItemInput{{ProductID: pacttest.SeededProductID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingOrderID, order.ID)
}
