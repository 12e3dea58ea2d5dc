package ports

import (
	"context"
	"errors"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository persists catalog products. Stock is read-only through this port;
// mutations go through Ledger.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}
