// Package app wires the application together: configuration, logging,
// metrics, the AI client, the pipeline components and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"catalogcli/internal/ai"
	"catalogcli/internal/config"
	"catalogcli/internal/enhance"
	"catalogcli/internal/errors"
	"catalogcli/internal/exporter"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/market"
	custommw "catalogcli/internal/middleware"
	"catalogcli/internal/operations"
	"catalogcli/internal/pages"
	"catalogcli/internal/services"
	handlers "catalogcli/internal/transport/http"
	ws "catalogcli/internal/websocket"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Application is the dependency container for the catalog server
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Router  *chi.Mux
	Server  *http.Server

	Hub            *ws.Hub
	Manager        *operations.Manager
	CatalogService *services.CatalogService
	HealthService  *services.HealthService
}

// NewApplication builds the application from a loaded configuration
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics := infrastructure.NewMetrics()

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline components and services
func (a *Application) initializeServices() {
	aiClient := ai.NewClient(a.Config.AI, a.Logger, a.Metrics)

	enhancer := enhance.NewEnhancer(aiClient, a.Logger)
	resolver := enhance.NewImageResolver(aiClient, a.Logger)
	generator := pages.NewGenerator(aiClient, a.Logger)
	writer := exporter.NewWriter(a.Config.Paths, a.Logger, a.Metrics)
	scraper := market.NewScraper(a.Config.Market, a.Logger)

	a.Hub = ws.NewHub(a.Logger, a.Metrics)

	a.Manager = operations.NewManager(a.Logger, a.Metrics, a.Config.Server.WorkflowTimeout)
	a.Manager.SetNotifier(a.Hub.BroadcastOperation)

	a.CatalogService = services.NewCatalogService(a.Config, a.Logger, a.Metrics,
		enhancer, resolver, generator, writer, scraper, a.Manager)
	a.HealthService = services.NewHealthService(a.Config, Version)
}

// setupRouter configures the HTTP router with middleware and routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware that does not wrap the ResponseWriter, so the
	// websocket upgrade keeps working.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StripSlashes)

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(a.Hub, w, req)
	})

	// Prometheus scrapes bypass the full middleware stack
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.Metrics(a.Metrics))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(custommw.CORSConfig{
				AllowedOrigins:   a.Config.Security.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
				AllowCredentials: true,
				MaxAge:           300,
				Logger:           a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes mounts the API handlers
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger)
	maxUpload := a.Config.Server.MaxUploadBytes

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			r.Mount("/health", handlers.NewHealthHandler(a.HealthService).Routes())
		})

		// Enhancement batches round-trip every record through the AI
		// provider, so they share the workflow timeout budget.
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.WorkflowTimeout, a.Logger))

			r.Mount("/catalog", handlers.NewCatalogHandler(a.CatalogService, a.Logger, errorHandler, maxUpload).Routes())
			r.Mount("/workflow", handlers.NewWorkflowHandler(a.CatalogService, a.Logger, errorHandler, maxUpload).Routes())
			r.Mount("/market-intelligence", handlers.NewMarketHandler(a.CatalogService, a.Logger).Routes())
		})
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the websocket hub and the HTTP listener
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "application starting",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("log_level", a.Config.Logging.Level),
	)

	go a.Hub.Run()

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
}

// Stop gracefully shuts the application down
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
