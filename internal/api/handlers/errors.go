package handlers

import (
	"net/http"

	"github.com/eshaffer321/shopee-orders/internal/api/dto"
)

// ErrorHandler answers requests the router cannot dispatch.
type ErrorHandler struct {
	Base
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// NotFound handles unknown routes.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteError(w, http.StatusNotFound, dto.NotFoundError("route "+r.URL.Path))
}

// MethodNotAllowed handles known routes requested with an unsupported method.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.WriteError(w, http.StatusMethodNotAllowed,
		dto.NewAPIError(dto.ErrCodeMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path))
}
