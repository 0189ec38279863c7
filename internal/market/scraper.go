// Package market collects lightweight market intelligence by scraping
// configured competitor storefronts.
package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"catalogcli/internal/config"
)

// maxProductHints caps extracted product names per site
const maxProductHints = 10

// SiteReport is the scrape outcome for one competitor site. A fetch or
// parse failure is recorded here instead of failing the whole request.
type SiteReport struct {
	URL          string   `json:"url"`
	Title        string   `json:"title,omitempty"`
	ProductHints []string `json:"product_hints,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Intelligence aggregates all competitor reports
type Intelligence struct {
	Sites       []SiteReport `json:"sites"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Scraper fetches competitor pages concurrently
type Scraper struct {
	cfg        config.MarketConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewScraper creates a competitor scraper
func NewScraper(cfg config.MarketConfig, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		logger:     logger,
	}
}

// Scrape fetches every configured competitor URL concurrently. The
// report always has one entry per URL, in configuration order.
func (s *Scraper) Scrape(ctx context.Context) *Intelligence {
	reports := make([]SiteReport, len(s.cfg.CompetitorURLs))

	var g errgroup.Group
	for i, url := range s.cfg.CompetitorURLs {
		g.Go(func() error {
			report := s.scrapeSite(ctx, url)
			reports[i] = report
			return nil
		})
	}
	g.Wait()

	return &Intelligence{
		Sites:       reports,
		GeneratedAt: time.Now().UTC(),
	}
}

// scrapeSite fetches one page and extracts the title and product hints
func (s *Scraper) scrapeSite(ctx context.Context, url string) SiteReport {
	report := SiteReport{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "competitor fetch failed", "url", url, "error", err)
		report.Error = err.Error()
		return report
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		report.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return report
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.Title = strings.TrimSpace(doc.Find("title").First().Text())
	report.ProductHints = extractProductHints(doc)
	return report
}

// extractProductHints pulls likely product names from common storefront
// markup.
func extractProductHints(doc *goquery.Document) []string {
	var hints []string
	seen := make(map[string]bool)

	doc.Find(".product-title, .product-name, h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" || len(text) > 120 || seen[text] {
			return true
		}
		seen[text] = true
		hints = append(hints, text)
		return len(hints) < maxProductHints
	})

	return hints
}
