package enhance

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"catalogcli/internal/ai"
	"catalogcli/internal/catalog"
)

const (
	seoTemperature  = 0.7
	seoMaxTokens    = 1000
	copyTemperature = 0.8
	copyMaxTokens   = 1500
)

// TextGenerator is the chat completion capability consumed by the enhancer
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ai.ChatRequest) (string, error)
}

// Enhancer generates SEO metadata and rewritten descriptions per record
type Enhancer struct {
	text   TextGenerator
	logger *slog.Logger
}

// NewEnhancer creates an enhancer
func NewEnhancer(text TextGenerator, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{text: text, logger: logger}
}

// Enhance runs the two generation calls for one record. Provider errors
// are caught here: the record comes back unchanged with the failure
// marker set.
func (e *Enhancer) Enhance(ctx context.Context, rec catalog.Record) Result {
	result := Result{Record: rec, EnhancedAt: time.Now().UTC()}

	seo, err := e.generateSEO(ctx, rec)
	if err != nil {
		e.logger.WarnContext(ctx, "enhancement failed",
			"product", rec.Get(catalog.ColName),
			"stage", "seo",
			"error", err,
		)
		result.EnhancementFailed = true
		result.Err = err
		return result
	}
	result.SEO = seo

	description, err := e.generateDescription(ctx, rec)
	if err != nil {
		e.logger.WarnContext(ctx, "enhancement failed",
			"product", rec.Get(catalog.ColName),
			"stage", "description",
			"error", err,
		)
		result.EnhancementFailed = true
		result.Err = err
		return result
	}
	result.EnhancedDescription = description

	return result
}

// EnhanceAll processes records one at a time in order. The result slice
// always has one entry per input record.
func (e *Enhancer) EnhanceAll(ctx context.Context, records []catalog.Record) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		results = append(results, e.Enhance(ctx, rec))
	}
	return results
}

// generateSEO calls the provider and parses the JSON bundle. Malformed
// JSON is substituted with an empty bundle rather than propagated.
func (e *Enhancer) generateSEO(ctx context.Context, rec catalog.Record) (*SEOBundle, error) {
	content, err := e.text.ChatCompletion(ctx, ai.ChatRequest{
		System:      seoSystemPrompt,
		Prompt:      seoPrompt(rec),
		Temperature: seoTemperature,
		MaxTokens:   seoMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var bundle SEOBundle
	if err := json.Unmarshal([]byte(ai.CleanJSONContent(content)), &bundle); err != nil {
		e.logger.WarnContext(ctx, "seo response was not valid json, using empty bundle",
			"product", rec.Get(catalog.ColName),
			"error", err,
		)
		return &SEOBundle{}, nil
	}
	return &bundle, nil
}

func (e *Enhancer) generateDescription(ctx context.Context, rec catalog.Record) (string, error) {
	return e.text.ChatCompletion(ctx, ai.ChatRequest{
		System:      copySystemPrompt,
		Prompt:      descriptionPrompt(rec),
		Temperature: copyTemperature,
		MaxTokens:   copyMaxTokens,
	})
}
