// Package errors provides the typed API error and JSON envelope used by the
// storefront HTTP surface.
package errors

import (
	"fmt"
	"net/http"
)

// APIError is an HTTP-mappable error carried through the gateways. The client
// sees only Status and Message; internal causes stay server-side.
type APIError struct {
	// Status is the HTTP status code for this occurrence.
	Status int `json:"-"`
	// Message is the human-readable explanation returned to the client.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// WithMessage returns a copy carrying the given client-facing message.
func (e APIError) WithMessage(format string, args ...any) APIError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Pre-defined templates for common outcomes.
var (
	// ErrBadRequest indicates the request violated a validation or business rule.
	ErrBadRequest = APIError{
		Status:  http.StatusBadRequest,
		Message: "bad request",
	}

	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = APIError{
		Status:  http.StatusUnauthorized,
		Message: "authentication required",
	}

	// ErrForbidden indicates the authenticated user lacks the required capability.
	ErrForbidden = APIError{
		Status:  http.StatusForbidden,
		Message: "not allowed",
	}

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = APIError{
		Status:  http.StatusNotFound,
		Message: "resource not found",
	}

	// ErrConflict indicates the request conflicts with previously stored state.
	ErrConflict = APIError{
		Status:  http.StatusConflict,
		Message: "conflict with existing state",
	}

	// ErrInternal indicates an unexpected server error. The default message is
	// deliberately generic so storage details never leak.
	ErrInternal = APIError{
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
	}
)

// NewNotFound creates a not-found error for a specific resource.
func NewNotFound(resourceType string, identifier any) APIError {
	return ErrNotFound.WithMessage("%s with identifier '%v' not found", resourceType, identifier)
}
