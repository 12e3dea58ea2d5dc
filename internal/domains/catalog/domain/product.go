package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrInvalidPrice  = errors.New("product price must be greater than zero")
	ErrNegativeStock = errors.New("product stock must not be negative")
)

// Product models a catalog item with its available stock. Stock is mutated
// only through the inventory ledger, never by direct read-modify-write.
type Product struct {
	ID         int64
	Name       string
	PriceCents int64
	Stock      int64
	ImageURLs  []string
}

// NewProduct validates and constructs a Product.
func NewProduct(id int64, name string, priceCents, stock int64, imageURLs []string) (*Product, error) {
	product := &Product{
		ID:         id,
		Name:       name,
		PriceCents: priceCents,
		Stock:      stock,
		ImageURLs:  append([]string{}, imageURLs...),
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the entity.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.PriceCents <= 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// PrimaryImageURL returns the first image URL, or empty when none is set.
func (p *Product) PrimaryImageURL() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
