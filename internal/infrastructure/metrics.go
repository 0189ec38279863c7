package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors. One instance is
// created at startup and shared through the service container.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	AICalls           *prometheus.CounterVec
	AICallDuration    *prometheus.HistogramVec
	WorkflowRuns      *prometheus.CounterVec
	RecordsProcessed  *prometheus.CounterVec
	ExportsGenerated  *prometheus.CounterVec
	WebSocketClients  prometheus.Gauge
}

// NewMetrics creates a metrics set backed by a private registry so tests
// can create instances without collector name collisions.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AICalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_ai_calls_total",
			Help: "Outbound AI provider calls by capability and outcome",
		}, []string{"capability", "outcome"}),
		AICallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_ai_call_duration_seconds",
			Help:    "Outbound AI provider call latency by capability",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"capability"}),
		WorkflowRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_workflow_runs_total",
			Help: "Workflow executions by outcome",
		}, []string{"outcome"}),
		RecordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_records_processed_total",
			Help: "Catalog records processed by stage and outcome",
		}, []string{"stage", "outcome"}),
		ExportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_exports_generated_total",
			Help: "Export files generated by dialect",
		}, []string{"dialect"}),
		WebSocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_websocket_clients",
			Help: "Currently connected websocket clients",
		}),
	}
}

// Handler returns the HTTP handler exposing this metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
