package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName reserves stock and persists the order aggregate.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the order service into the Temporal activities bundle.
// The service must be configured with an idempotency store so retried
// attempts replay instead of reserving stock again.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the checkout use case and returns the persisted order.
func (a *Activities) PlaceOrder(ctx context.Context, input orderports.CreateOrderInput) (*orderdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "userId", input.Actor.UserID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "userId", input.Actor.UserID, "items", len(input.Items))
	order, err := a.service.Create(ctx, input)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", input.Actor.UserID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}
