package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 5 * time.Second
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Server.WorkflowTimeout = time.Minute
	cfg.Server.MaxUploadBytes = 1 << 20
	cfg.Paths = config.PathsConfig{
		BaseDir:    t.TempDir(),
		UploadsDir: "uploads",
		OutputDir:  "output",
	}
	cfg.AI.BaseURL = "http://127.0.0.1:1"
	cfg.AI.RequestTimeout = time.Second
	cfg.Market.FetchTimeout = time.Second
	return cfg
}

func TestNewApplication_Wiring(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Hub)
	assert.NotNil(t, app.CatalogService)
	assert.Equal(t, ":8080", app.Server.Addr)
}

func TestRouter_Health(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	app, err := NewApplication(testConfig(t))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
