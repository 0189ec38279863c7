package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"catalogcli/internal/infrastructure"
)

// Problem type URIs for RFC 7807 responses
const (
	TypeValidation = "/errors/validation"
	TypeNotFound   = "/errors/not-found"
	TypeInternal   = "/errors/internal"
	TypeUpload     = "/errors/upload/invalid"
	TypeCatalog    = "/errors/catalog/not-loaded"
	TypeWorkflow   = "/errors/workflow/not-found"
	TypeProvider   = "/errors/provider/unavailable"
	TypeRateLimit  = "/errors/rate-limit"
)

// ProblemDetails represents an RFC 7807 problem details response
type ProblemDetails struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Status     int                    `json:"status"`
	Detail     string                 `json:"detail,omitempty"`
	Instance   string                 `json:"instance,omitempty"`
	Extensions map[string]interface{} `json:"-"`
}

// WithExtension adds an extension member to the problem details
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Extensions == nil {
		p.Extensions = make(map[string]interface{})
	}
	p.Extensions[key] = value
	return p
}

// MarshalJSON flattens the extension members into the top-level object
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	base := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		base["detail"] = p.Detail
	}
	if p.Instance != "" {
		base["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		base[k] = v
	}
	return json.Marshal(base)
}

// NewProblemDetails creates a problem details response
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// ErrorHandler provides centralized error handling for HTTP handlers
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError writes an error response in RFC 7807 format
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err)
	problem.Instance = r.URL.Path

	if problem.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	} else {
		h.logger.WarnContext(r.Context(), "request rejected",
			slog.String("path", r.URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	}

	writeProblem(w, problem)
}

// ErrorToProblem converts any error to RFC 7807 problem details
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error) *ProblemDetails {
	var problem *ProblemDetails

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		problem = apiErrorToProblem(apiErr)
	} else {
		problem = NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred",
			"",
		)
	}

	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	return problem
}

// apiErrorToProblem maps a structured APIError to problem details
func apiErrorToProblem(apiErr *APIError) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_ERROR":
		problemType = TypeValidation
	case "INVALID_REQUEST":
		problemType = TypeUpload
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "CATALOG_NOT_LOADED":
		problemType = TypeCatalog
	case "WORKFLOW_NOT_FOUND":
		problemType = TypeWorkflow
	case "PROVIDER_UNAVAILABLE":
		problemType = TypeProvider
	case "RATE_LIMITED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		"",
	)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic recovers from panics and writes a 500 problem response
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.String("path", r.URL.Path),
		slog.Any("panic", recovered),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	writeProblem(w, problem)
}

// writeProblem writes a problem details response with the proper content type
func writeProblem(w http.ResponseWriter, problem *ProblemDetails) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		fmt.Fprintf(w, `{"type":%q,"title":"Internal Server Error","status":500}`, TypeInternal)
	}
}
