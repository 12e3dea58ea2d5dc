package domain

import (
	"errors"
	"time"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// DefaultStatus is applied when an order carries no explicit status. The
// storefront has always treated unset as "processing", and changing the
// default would change which orders are cancellable.
const DefaultStatus = StatusProcessing

var (
	ErrNoItems          = errors.New("order must have at least one item")
	ErrInvalidProductID = errors.New("item product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("item quantity must be greater than zero")
	ErrInvalidStatus    = errors.New("order status is invalid")
	ErrInvalidOwner     = errors.New("order owner is required")
)

// validNext lists the legal status edges. Delivered and cancelled are
// terminal. Cancellation through the order service additionally releases
// stock; these edges only describe the status field itself.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal status edge.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancellable reports whether an order in this status may still be cancelled
// by its owner.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}

// CancellableStatuses returns the statuses from which cancellation is legal.
func CancellableStatuses() []Status {
	return []Status{StatusPending, StatusProcessing}
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// LineItem is a denormalized snapshot of a product at order time. Name,
// price, and image are captured from the catalog, never from the client.
type LineItem struct {
	ProductID  int64
	Name       string
	PriceCents int64
	Quantity   int64
	ImageURL   string
}

// Order models a customer purchase aggregate.
type Order struct {
	ID         int64
	UserID     int64
	Items      []LineItem
	TotalCents int64
	Status     Status
	CreatedAt  time.Time
}

// NewOrder validates the items and constructs an order whose total is
// computed from its line items.
func NewOrder(userID int64, items []LineItem, status Status) (*Order, error) {
	order := &Order{
		UserID: userID,
		Items:  append([]LineItem{}, items...),
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, err
	}
	order.TotalCents = order.Total()
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Total computes the order total from its line items.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.PriceCents * item.Quantity
	}
	return total
}

// Validate enforces invariants on the aggregate, including that the stored
// total matches the line items.
func (o *Order) Validate() error {
	if o.UserID <= 0 {
		return ErrInvalidOwner
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.TotalCents != o.Total() {
		return errors.New("order total does not match line items")
	}
	return nil
}

// UpdateStatus accepts only known statuses and defaults empty to processing.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = DefaultStatus
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}
