package httpapi

import (
	"errors"

	catalogports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/catalog/ports"
	ordersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/application"
	orderdomain "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/domain"
	orderports "github.com/Shreejal-khatri/ElectronicStore/internal/domains/orders/ports"
	usersapp "github.com/Shreejal-khatri/ElectronicStore/internal/domains/users/application"
	apierrors "github.com/Shreejal-khatri/ElectronicStore/internal/shared/errors"
)

// orderErrorMapper translates order use case failures into the envelope codes
// the storefront expects.
func orderErrorMapper(err error) (apierrors.APIError, bool) {
	var insufficient *catalogports.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return apierrors.ErrBadRequest.WithMessage(
			"insufficient stock for product %d: requested %d, available %d",
			insufficient.ProductID, insufficient.Requested, insufficient.Available), true
	case errors.Is(err, ordersapp.ErrInvalidItems):
		return apierrors.ErrBadRequest.WithMessage("order items must each have a product id and a positive quantity"), true
	case errors.Is(err, ordersapp.ErrProductNotFound):
		return apierrors.ErrNotFound.WithMessage("%s", err.Error()), true
	case errors.Is(err, ordersapp.ErrUnauthorized):
		return apierrors.ErrForbidden.WithMessage("you are not allowed to act on this order"), true
	case errors.Is(err, ordersapp.ErrInvalidTransition):
		return apierrors.ErrBadRequest.WithMessage("%s", err.Error()), true
	case errors.Is(err, orderdomain.ErrInvalidStatus):
		return apierrors.ErrBadRequest.WithMessage("unknown order status"), true
	case errors.Is(err, orderdomain.ErrNoItems),
		errors.Is(err, orderdomain.ErrInvalidProductID),
		errors.Is(err, orderdomain.ErrInvalidQuantity):
		return apierrors.ErrBadRequest.WithMessage("%s", err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return apierrors.ErrNotFound.WithMessage("order not found"), true
	case errors.Is(err, orderports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithMessage("idempotency key already used with a different request"), true
	}
	return apierrors.APIError{}, false
}

// authErrorMapper translates authentication failures.
func authErrorMapper(err error) (apierrors.APIError, bool) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidToken):
		return apierrors.ErrUnauthorized.WithMessage("invalid or expired token"), true
	case errors.Is(err, usersapp.ErrAuthentication):
		return apierrors.ErrUnauthorized, true
	}
	return apierrors.APIError{}, false
}
