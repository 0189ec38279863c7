// Package services implements the application services behind the HTTP
// handlers: catalog upload, enhancement batches, page generation,
// exports and the full workflow.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalogcli/internal/catalog"
	"catalogcli/internal/config"
	"catalogcli/internal/enhance"
	"catalogcli/internal/exporter"
	"catalogcli/internal/infrastructure"
	"catalogcli/internal/market"
	"catalogcli/internal/operations"
	"catalogcli/internal/pages"
)

// allowed upload extensions
var uploadExtensions = map[string]bool{".csv": true, ".xlsx": true}

// Upload is the stored result of one catalog upload
type Upload struct {
	Filename string           `json:"filename"`
	Path     string           `json:"-"`
	Columns  []string         `json:"columns"`
	Records  []catalog.Record `json:"records"`
}

// CatalogService ties the pipeline components together for the handlers
type CatalogService struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *infrastructure.Metrics
	enhancer  operations.Enhancer
	resolver  operations.ImageResolver
	generator operations.PageGenerator
	writer    *exporter.Writer
	scraper   *market.Scraper
	manager   *operations.Manager
}

// NewCatalogService creates the catalog service
func NewCatalogService(
	cfg *config.Config,
	logger *slog.Logger,
	metrics *infrastructure.Metrics,
	enhancer operations.Enhancer,
	resolver operations.ImageResolver,
	generator operations.PageGenerator,
	writer *exporter.Writer,
	scraper *market.Scraper,
	manager *operations.Manager,
) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "catalog-service")),
		metrics:   metrics,
		enhancer:  enhancer,
		resolver:  resolver,
		generator: generator,
		writer:    writer,
		scraper:   scraper,
		manager:   manager,
	}
}

// Upload stores the uploaded file under the uploads directory and
// parses it. The stored copy is what workflow runs read back.
func (s *CatalogService) Upload(ctx context.Context, filename string, r io.Reader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !uploadExtensions[ext] {
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", ext)
	}

	stored := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(filename))
	path := s.cfg.Paths.UploadsPath(stored)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored upload: %w", err)
	}
	defer in.Close()

	var cat *catalog.Catalog
	if ext == ".xlsx" {
		cat, err = catalog.ParseWorkbook(in)
	} else {
		cat, err = catalog.Parse(in)
	}
	if err != nil {
		return nil, err
	}

	s.recordBatch("upload", len(cat.Records), 0)
	s.logger.InfoContext(ctx, "catalog uploaded",
		"filename", stored,
		"records", len(cat.Records),
	)

	return &Upload{
		Filename: stored,
		Path:     path,
		Columns:  cat.Columns,
		Records:  cat.Records,
	}, nil
}

// Enhance runs the content enhancer over a record batch
func (s *CatalogService) Enhance(ctx context.Context, records []catalog.Record) []enhance.Result {
	results := s.enhancer.EnhanceAll(ctx, records)
	s.recordBatch("enhance", len(results), countFailed(results, func(r enhance.Result) bool { return r.EnhancementFailed }))
	return results
}

// ResolveImages resolves images for a record batch
func (s *CatalogService) ResolveImages(ctx context.Context, records []catalog.Record) []enhance.Result {
	results := make([]enhance.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, enhance.Result{Record: rec, EnhancedAt: time.Now().UTC()})
	}
	results = s.resolver.ResolveAll(ctx, results)
	s.recordBatch("images", len(results), countFailed(results, func(r enhance.Result) bool { return r.ImageFailed }))
	return results
}

// BrandPages builds the brand page tree for a record batch
func (s *CatalogService) BrandPages(ctx context.Context, records []catalog.Record) []pages.BrandPage {
	return s.generator.GenerateAll(ctx, records)
}

// Export serializes records into a downloadable file in the dialect
func (s *CatalogService) Export(ctx context.Context, records []catalog.Record, dialectName string) (*exporter.ExportFile, error) {
	dialect, err := catalog.ParseDialect(dialectName)
	if err != nil {
		return nil, err
	}
	return s.writer.WriteCSV(records, dialect)
}

// SiteBundle generates brand pages and writes the static site JSON
// files, returning the file names written.
func (s *CatalogService) SiteBundle(ctx context.Context, records []catalog.Record) ([]string, error) {
	brandPages := s.generator.GenerateAll(ctx, records)
	bundle := pages.BuildSiteBundle(brandPages)
	return bundle.Write(s.cfg.Paths.SiteBundlePath(""))
}

// SiteBundleFile resolves a previously generated site bundle file
func (s *CatalogService) SiteBundleFile(name string) (string, error) {
	name = filepath.Base(name)
	path := s.cfg.Paths.SiteBundlePath(name)
	if !config.FileExists(path) {
		return "", fmt.Errorf("site bundle file %s not found", name)
	}
	return path, nil
}

// StartWorkflow launches the full pipeline against a stored upload and
// returns the pending operation.
func (s *CatalogService) StartWorkflow(path string) *operations.OperationState {
	return s.manager.Start(s.pipelineSteps(path))
}

// RunWorkflow executes the full pipeline synchronously
func (s *CatalogService) RunWorkflow(ctx context.Context, path string) (*operations.OperationState, error) {
	return s.manager.Run(ctx, s.pipelineSteps(path))
}

// Workflow returns the status snapshot of a tracked operation
func (s *CatalogService) Workflow(id string) (operations.Snapshot, bool) {
	state, ok := s.manager.Get(id)
	if !ok {
		return operations.Snapshot{}, false
	}
	return state.Snapshot(), true
}

// MarketIntelligence scrapes the configured competitor sites
func (s *CatalogService) MarketIntelligence(ctx context.Context) *market.Intelligence {
	return s.scraper.Scrape(ctx)
}

func (s *CatalogService) pipelineSteps(path string) []operations.Step {
	return []operations.Step{
		&operations.ParseStep{Path: path},
		&operations.EnhanceStep{Enhancer: s.enhancer},
		&operations.ImagesStep{Resolver: s.resolver},
		&operations.PagesStep{Generator: s.generator},
		&operations.ExportStep{Writer: s.writer},
	}
}

func (s *CatalogService) recordBatch(stage string, total, failed int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordsProcessed.WithLabelValues(stage, "success").Add(float64(total - failed))
	if failed > 0 {
		s.metrics.RecordsProcessed.WithLabelValues(stage, "failed").Add(float64(failed))
	}
}

func countFailed(results []enhance.Result, failed func(enhance.Result) bool) int {
	n := 0
	for _, r := range results {
		if failed(r) {
			n++
		}
	}
	return n
}
