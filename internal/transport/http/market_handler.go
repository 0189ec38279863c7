package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"catalogcli/internal/services"
)

// MarketHandler serves competitor market intelligence
type MarketHandler struct {
	service *services.CatalogService
	logger  *slog.Logger
}

// NewMarketHandler creates a market intelligence handler
func NewMarketHandler(service *services.CatalogService, logger *slog.Logger) *MarketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "market")),
	}
}

// Routes returns the market intelligence routes
func (h *MarketHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Intelligence)
	return r
}

// Intelligence handles GET /api/market-intelligence. Scrapes run on
// demand; per-site failures are reported inside the payload.
func (h *MarketHandler) Intelligence(w http.ResponseWriter, r *http.Request) {
	intel := h.service.MarketIntelligence(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"success":      true,
		"intelligence": intel,
	})
}
