package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/domain"
	"github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
)

var (
	_ ports.Repository = (*Repository)(nil)
	_ ports.Ledger     = (*Repository)(nil)
)

// Repository is an in-memory product store that doubles as the inventory
// ledger. All stock checks and writes happen under one lock, which gives the
// same serialization the conditional SQL update provides in Postgres.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := cloneProduct(product)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.products[clone.ID] = clone
	return cloneProduct(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		list = append(list, cloneProduct(product))
	}
	return list, nil
}

// Reserve decrements stock only while enough units remain.
func (r *Repository) Reserve(_ context.Context, productID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	if product.Stock < quantity {
		return &ports.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: product.Stock,
		}
	}
	product.Stock -= quantity
	return nil
}

// Release returns units to stock unconditionally.
func (r *Repository) Release(_ context.Context, productID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[productID]
	if !ok {
		return ports.ErrNotFound
	}
	product.Stock += quantity
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.ImageURLs = append([]string{}, p.ImageURLs...)
	return &clone
}
