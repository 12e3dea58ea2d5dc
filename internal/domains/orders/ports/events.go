package ports

import (
	"context"
	"time"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
)

// Event types published over the order lifecycle.
const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the message emitted after an order state change commits.
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	OrderID    int64         `json:"orderId"`
	UserID     int64         `json:"userId"`
	Status     domain.Status `json:"status"`
	TotalCents int64         `json:"totalCents"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// EventPublisher emits order lifecycle events. Publication is best-effort;
// the order operation has already committed when Publish runs.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher is a safe default when no broker is configured.
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ Event) error { return nil }
