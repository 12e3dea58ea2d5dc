package ports

import (
	"context"
	"errors"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists order aggregates.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatusFrom sets the status to `to` only while the order still has
	// one of the `from` statuses, as a single conditional write. It reports
	// whether the update applied; a lost race returns (false, nil) and a
	// missing order returns ErrNotFound.
	UpdateStatusFrom(ctx context.Context, id int64, from []domain.Status, to domain.Status) (bool, error)
}
