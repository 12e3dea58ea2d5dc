package ports

import (
	"context"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
)

// WorkflowOrchestrator abstracts how order creation is executed: inline
// against the service, or durably through Temporal.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
