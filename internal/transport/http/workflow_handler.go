package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "catalogcli/internal/errors"
	"catalogcli/internal/services"
)

// WorkflowHandler runs the full pipeline and reports operation status
type WorkflowHandler struct {
	service        *services.CatalogService
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewWorkflowHandler creates a workflow handler
func NewWorkflowHandler(service *services.CatalogService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *WorkflowHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &WorkflowHandler{
		service:        service,
		logger:         logger.With(slog.String("handler", "workflow")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the workflow routes
func (h *WorkflowHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Start)
	r.Get("/{id}", h.Status)

	return r
}

// Start handles POST /api/workflow. It stores the multipart upload and
// launches the five-step pipeline in the background.
func (h *WorkflowHandler) Start(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestError("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestError("missing file field"))
		return
	}
	defer file.Close()

	upload, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestError(err.Error()))
		return
	}

	state := h.service.StartWorkflow(upload.Path)
	snap := state.Snapshot()

	h.logger.InfoContext(r.Context(), "workflow started",
		"operation_id", snap.ID,
		"records", len(upload.Records),
	)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"success":      true,
		"operation_id": snap.ID,
		"steps":        snap.Steps,
	})
}

// Status handles GET /api/workflow/{id}
func (h *WorkflowHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, ok := h.service.Workflow(id)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NewAPIError(
			http.StatusNotFound, "WORKFLOW_NOT_FOUND", "workflow operation not found", id))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success":   true,
		"operation": snap,
	})
}
