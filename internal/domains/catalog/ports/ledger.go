package ports

import (
	"context"
	"fmt"
)

// InsufficientStockError reports the product that could not cover a
// reservation together with the quantity still available.
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Ledger is the only code path allowed to change product stock. Reserve must
// be a single conditional write so two concurrent checkouts can never drive
// stock negative.
type Ledger interface {
	// Reserve atomically decrements stock by quantity when at least that many
	// units remain; otherwise it fails with *InsufficientStockError without
	// changing anything. Missing products fail with ErrNotFound.
	Reserve(ctx context.Context, productID, quantity int64) error
	// Release returns previously reserved units to stock unconditionally.
	// Callers own the exactly-once guarantee per reserved unit.
	Release(ctx context.Context, productID, quantity int64) error
}
