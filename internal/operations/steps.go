package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalogcli/internal/catalog"
	"catalogcli/internal/enhance"
	"catalogcli/internal/exporter"
	"catalogcli/internal/pages"
)

// Step IDs in execution order
const (
	StepParse   = "parse"
	StepEnhance = "enhance"
	StepImages  = "images"
	StepPages   = "pages"
	StepExport  = "export"
)

// Enhancer generates SEO and description copy for a record batch
type Enhancer interface {
	EnhanceAll(ctx context.Context, records []catalog.Record) []enhance.Result
}

// ImageResolver fills image references on a result batch
type ImageResolver interface {
	ResolveAll(ctx context.Context, results []enhance.Result) []enhance.Result
}

// PageGenerator builds the brand page tree for a record batch
type PageGenerator interface {
	GenerateAll(ctx context.Context, records []catalog.Record) []pages.BrandPage
}

// ExportWriter writes the final export files
type ExportWriter interface {
	WriteAll(records []catalog.Record) ([]*exporter.ExportFile, error)
}

// ParseStep reads and parses the uploaded catalog file
type ParseStep struct {
	Path string
}

func (s *ParseStep) ID() string   { return StepParse }
func (s *ParseStep) Name() string { return "Parse catalog" }

func (s *ParseStep) Execute(ctx context.Context, state *OperationState) error {
	f, err := os.Open(s.Path)
	if err != nil {
		return NewInputError(s.ID(), fmt.Errorf("failed to open catalog file: %w", err))
	}
	defer f.Close()

	var cat *catalog.Catalog
	if strings.EqualFold(filepath.Ext(s.Path), ".xlsx") {
		cat, err = catalog.ParseWorkbook(f)
	} else {
		cat, err = catalog.Parse(f)
	}
	if err != nil {
		return NewInputError(s.ID(), err)
	}

	state.Catalog = cat
	state.Step(s.ID()).Update(100, fmt.Sprintf("parsed %d records", len(cat.Records)))
	return nil
}

// EnhanceStep runs the content enhancer over every record. Per-record
// failures stay inside the results; only a missing catalog is batch
// level.
type EnhanceStep struct {
	Enhancer Enhancer
}

func (s *EnhanceStep) ID() string   { return StepEnhance }
func (s *EnhanceStep) Name() string { return "Enhance content" }

func (s *EnhanceStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Catalog == nil {
		return NewBatchError(s.ID(), fmt.Errorf("no parsed catalog available"))
	}

	results := s.Enhancer.EnhanceAll(ctx, state.Catalog.Records)
	state.Results = results

	failed := 0
	for _, r := range results {
		if r.EnhancementFailed {
			failed++
		}
	}
	state.Step(s.ID()).Update(100, fmt.Sprintf("enhanced %d records, %d degraded", len(results)-failed, failed))
	return nil
}

// ImagesStep resolves product images for every result
type ImagesStep struct {
	Resolver ImageResolver
}

func (s *ImagesStep) ID() string   { return StepImages }
func (s *ImagesStep) Name() string { return "Resolve images" }

func (s *ImagesStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Results == nil {
		return NewBatchError(s.ID(), fmt.Errorf("no enhancement results available"))
	}

	state.Results = s.Resolver.ResolveAll(ctx, state.Results)

	failed := 0
	for _, r := range state.Results {
		if r.ImageFailed {
			failed++
		}
	}
	state.Step(s.ID()).Update(100, fmt.Sprintf("resolved images for %d records, %d failed", len(state.Results)-failed, failed))
	return nil
}

// PagesStep generates the brand and category content tree
type PagesStep struct {
	Generator PageGenerator
}

func (s *PagesStep) ID() string   { return StepPages }
func (s *PagesStep) Name() string { return "Generate brand pages" }

func (s *PagesStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Results == nil {
		return NewBatchError(s.ID(), fmt.Errorf("no enhancement results available"))
	}

	state.BrandPages = s.Generator.GenerateAll(ctx, enhance.MergedRecords(state.Results))
	state.Step(s.ID()).Update(100, fmt.Sprintf("generated %d brand pages", len(state.BrandPages)))
	return nil
}

// ExportStep serializes the enhanced records into the export files
type ExportStep struct {
	Writer ExportWriter
}

func (s *ExportStep) ID() string   { return StepExport }
func (s *ExportStep) Name() string { return "Export catalog" }

func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	if state.Results == nil {
		return NewBatchError(s.ID(), fmt.Errorf("no enhancement results available"))
	}

	files, err := s.Writer.WriteAll(enhance.MergedRecords(state.Results))
	if err != nil {
		return NewBatchError(s.ID(), err)
	}

	state.Exports = files
	state.Step(s.ID()).Update(100, fmt.Sprintf("wrote %d export files", len(files)))
	return nil
}
