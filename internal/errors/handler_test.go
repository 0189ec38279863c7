package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/infrastructure"
)

func TestHandleError_APIError(t *testing.T) {
	handler := NewErrorHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/enhance", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, ErrCatalogNotLoaded)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeCatalog, body["type"])
	assert.Equal(t, "No catalog has been uploaded yet", body["detail"])
	assert.Equal(t, "/api/catalog/enhance", body["instance"])
	assert.Equal(t, "trace-1", body["trace_id"])
}

func TestHandleError_GenericError(t *testing.T) {
	handler := NewErrorHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HandleError(rec, req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	// Internal details are not leaked to clients.
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}

func TestErrorToProblem_TypeMapping(t *testing.T) {
	handler := NewErrorHandler(nil)

	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"validation", ErrValidation("bad", nil), TypeValidation},
		{"not found", ErrNotFound, TypeNotFound},
		{"provider", ErrProviderUnavailable, TypeProvider},
		{"rate limit", ErrRateLimited, TypeRateLimit},
		{"workflow", NewAPIError(http.StatusNotFound, "WORKFLOW_NOT_FOUND", "no such run", nil), TypeWorkflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := handler.ErrorToProblem(context.Background(), tt.err)
			assert.Equal(t, tt.want, problem.Type)
			assert.Equal(t, tt.err.StatusCode, problem.Status)
		})
	}
}

func TestHandlePanic(t *testing.T) {
	handler := NewErrorHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/workflow/abc", nil)
	rec := httptest.NewRecorder()

	handler.HandlePanic(rec, req, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/api/workflow/abc", body["instance"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestProblemDetails_MarshalExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "invalid field", "/api/upload")
	problem.WithExtension("details", map[string]string{"field": "sku"})

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "invalid field", body["detail"])
	assert.Equal(t, map[string]interface{}{"field": "sku"}, body["details"])
}
