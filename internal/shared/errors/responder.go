package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response wrapper the storefront frontend expects on every
// endpoint: {"success": ..., "message": ...} plus operation-specific fields.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Respond sends an APIError as the failure envelope.
func Respond(c *gin.Context, apiErr APIError) {
	c.JSON(apiErr.Status, Envelope{Success: false, Message: apiErr.Message})
}

// RespondError converts any error to the failure envelope. Errors that are not
// already an APIError are reported as an opaque internal error.
func RespondError(c *gin.Context, err error) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		Respond(c, apiErr)
		return
	}
	Respond(c, ErrInternal)
}

// ErrorMapper translates domain/application errors to an APIError.
type ErrorMapper func(err error) (APIError, bool)

// Responder fans an error through registered mappers before falling back to
// the default handling.
type Responder struct {
	mappers []ErrorMapper
}

// NewResponder creates a responder with the given error mappers.
func NewResponder(mappers ...ErrorMapper) *Responder {
	return &Responder{mappers: mappers}
}

// AddMapper appends an error mapper to the chain.
func (r *Responder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

// RespondError tries each mapper in order before the default conversion.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if apiErr, ok := mapper(err); ok {
			Respond(c, apiErr)
			return
		}
	}
	RespondError(c, err)
}

// HTTPStatusFromError extracts the HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
