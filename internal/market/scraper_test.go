package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
)

const storefrontHTML = `<html>
<head><title>Asal Banoo Shop</title></head>
<body>
  <h2 class="product-title">Vitamin C Serum</h2>
  <h3>Night Repair Cream</h3>
  <h3></h3>
  <h3>Night Repair Cream</h3>
</body>
</html>`

func TestScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(storefrontHTML))
	}))
	defer server.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer broken.Close()

	scraper := NewScraper(config.MarketConfig{
		CompetitorURLs: []string{server.URL, broken.URL, "http://127.0.0.1:1"},
		FetchTimeout:   2 * time.Second,
	}, nil)

	intel := scraper.Scrape(context.Background())

	// One entry per configured URL, in order, regardless of failures.
	require.Len(t, intel.Sites, 3)
	assert.False(t, intel.GeneratedAt.IsZero())

	ok := intel.Sites[0]
	assert.Equal(t, "Asal Banoo Shop", ok.Title)
	assert.Equal(t, []string{"Vitamin C Serum", "Night Repair Cream"}, ok.ProductHints)
	assert.Empty(t, ok.Error)

	assert.Contains(t, intel.Sites[1].Error, "404")
	assert.NotEmpty(t, intel.Sites[2].Error)
}

func TestScrape_NoURLs(t *testing.T) {
	scraper := NewScraper(config.MarketConfig{FetchTimeout: time.Second}, nil)
	intel := scraper.Scrape(context.Background())
	assert.Empty(t, intel.Sites)
}
