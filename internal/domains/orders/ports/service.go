package ports

import (
	"context"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
)

// Actor identifies the authenticated caller and its capability. Admin grants
// cross-order read and status-transition rights; cancellation stays a
// distinct operation because of its inventory effect.
type Actor struct {
	UserID int64
	Admin  bool
}

// ItemInput is the untrusted (productId, quantity) pair submitted at checkout.
type ItemInput struct {
	ProductID int64
	Quantity  int64
}

// CreateOrderInput carries everything needed to place an order. The
// client-submitted total is advisory only; the service recomputes it from
// catalog prices.
type CreateOrderInput struct {
	Actor            Actor
	Items            []ItemInput
	ClientTotalCents int64
	IdempotencyKey   string
}

// Service defines the order use cases exposed to adapters (inbound port).
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	// GetByID is owner-scoped: a stranger's order reads as not found.
	GetByID(ctx context.Context, actor Actor, orderID int64) (*domain.Order, error)
	ListByOwner(ctx context.Context, actor Actor) ([]*domain.Order, error)
	// Cancel releases reserved stock exactly once and soft-cancels the order.
	Cancel(ctx context.Context, actor Actor, orderID int64) error
	// ListAll returns every order; admin only, enforced by the gateway.
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus applies an admin-driven status transition. It never
	// touches stock.
	UpdateStatus(ctx context.Context, orderID int64, status domain.Status) (*domain.Order, error)
}
