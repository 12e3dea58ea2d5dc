package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
)

var (
	// ErrInvalidItems signals an empty cart or a non-positive quantity.
	ErrInvalidItems = errors.New("order must have at least one item with a positive quantity")
	// ErrProductNotFound signals a line item referencing an unknown product.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnauthorized signals the requester is neither the owner nor an admin.
	ErrUnauthorized = errors.New("not allowed to act on this order")
	// ErrInvalidTransition signals an illegal status change, including
	// cancelling an order that already shipped.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

func mapProductError(err error, productID int64) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return err
}
