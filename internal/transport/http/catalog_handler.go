// Package http contains the chi HTTP handlers for the catalog API.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"catalogcli/internal/catalog"
	apierrors "catalogcli/internal/errors"
	"catalogcli/internal/services"
)

// CatalogHandler handles catalog upload, enhancement and export requests
type CatalogHandler struct {
	service        *services.CatalogService
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(service *services.CatalogService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &CatalogHandler{
		service:        service,
		logger:         logger.With(slog.String("handler", "catalog")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the catalog routes
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)
	r.Post("/enhance", h.Enhance)
	r.Post("/images", h.ResolveImages)
	r.Post("/brand-pages", h.BrandPages)
	r.Post("/export", h.Export)
	r.Post("/site-bundle", h.SiteBundle)
	r.Get("/site-bundle/{file}", h.DownloadSiteBundle)

	return r
}

// recordsRequest is the shared JSON body for batch endpoints
type recordsRequest struct {
	Products []catalog.Record `json:"products" validate:"required,min=1"`
}

// exportRequest adds the dialect selector
type exportRequest struct {
	Products []catalog.Record `json:"products" validate:"required,min=1"`
	Format   string           `json:"format"`
}

// Upload handles POST /api/catalog/upload (multipart file field "file")
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	render.JSON(w, r, map[string]interface{}{
		"success":  true,
		"message":  fmt.Sprintf("loaded %d products", len(upload.Records)),
		"filename": upload.Filename,
		"columns":  upload.Columns,
		"products": upload.Records,
	})
}

// Enhance handles POST /api/catalog/enhance
func (h *CatalogHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if !h.decode(w, r, &req) {
		return
	}

	results := h.service.Enhance(r.Context(), req.Products)

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// ResolveImages handles POST /api/catalog/images
func (h *CatalogHandler) ResolveImages(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if !h.decode(w, r, &req) {
		return
	}

	results := h.service.ResolveImages(r.Context(), req.Products)

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

// BrandPages handles POST /api/catalog/brand-pages
func (h *CatalogHandler) BrandPages(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if !h.decode(w, r, &req) {
		return
	}

	brandPages := h.service.BrandPages(r.Context(), req.Products)

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"pages":   brandPages,
	})
}

// Export handles POST /api/catalog/export and responds with the
// generated file as a download.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !h.decode(w, r, &req) {
		return
	}

	file, err := h.service.Export(r.Context(), req.Products, req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestError(err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	http.ServeFile(w, r, file.Path)
}

// SiteBundle handles POST /api/catalog/site-bundle
func (h *CatalogHandler) SiteBundle(w http.ResponseWriter, r *http.Request) {
	var req recordsRequest
	if !h.decode(w, r, &req) {
		return
	}

	files, err := h.service.SiteBundle(r.Context(), req.Products)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InternalError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"files":   files,
	})
}

// DownloadSiteBundle handles GET /api/catalog/site-bundle/{file}
func (h *CatalogHandler) DownloadSiteBundle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")

	path, err := h.service.SiteBundleFile(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("site bundle file"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// decode reads and validates a JSON request body
func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := render.DecodeJSON(r.Body, req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestError("invalid JSON body"))
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("request validation failed", err.Error()))
		return false
	}
	return true
}
