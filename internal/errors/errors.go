// Package errors provides structured API error types and RFC 7807
// problem responses for the HTTP layer.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"-"`
	ErrorCode  string      `json:"error"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Render implements the render.Renderer interface for chi
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// Predefined errors used across handlers
var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_REQUEST",
		Message:    "The request is invalid",
	}

	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "NOT_FOUND",
		Message:    "The requested resource was not found",
	}

	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_ERROR",
		Message:    "An internal error occurred",
	}

	ErrCatalogNotLoaded = &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "CATALOG_NOT_LOADED",
		Message:    "No catalog has been uploaded yet",
	}

	ErrProviderUnavailable = &APIError{
		StatusCode: http.StatusBadGateway,
		ErrorCode:  "PROVIDER_UNAVAILABLE",
		Message:    "The AI provider could not be reached",
	}

	ErrRateLimited = &APIError{
		StatusCode: http.StatusTooManyRequests,
		ErrorCode:  "RATE_LIMITED",
		Message:    "Too many requests, please slow down",
	}
)

// NewAPIError creates a new API error with the given parameters
func NewAPIError(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// ErrValidation creates a validation error with field details
func ErrValidation(message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "VALIDATION_ERROR",
		Message:    message,
		Details:    details,
	}
}

// NotFoundError creates a not found error for a specific resource
func NotFoundError(resource string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

// InvalidRequestError creates an invalid request error with a custom message
func InvalidRequestError(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  "INVALID_REQUEST",
		Message:    message,
	}
}

// InternalError creates an internal error wrapping the cause message
func InternalError(err error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_ERROR",
		Message:    "An internal error occurred",
		Details:    err.Error(),
	}
}

// WithTraceID returns a copy of the error carrying the given trace ID
func (e *APIError) WithTraceID(traceID string) *APIError {
	clone := *e
	clone.TraceID = traceID
	return &clone
}
