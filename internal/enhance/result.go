// Package enhance runs catalog records through the AI provider to
// produce marketing copy, SEO metadata and product images. Each record
// is processed inside its own failure boundary so a provider error
// degrades one record instead of aborting the batch.
package enhance

import (
	"strings"
	"time"

	"catalogcli/internal/catalog"
)

// SEOBundle is the structured SEO metadata generated for one product
type SEOBundle struct {
	MetaTitle       string                 `json:"meta_title"`
	MetaDescription string                 `json:"meta_description"`
	Keywords        string                 `json:"keywords"`
	SchemaMarkup    map[string]interface{} `json:"schema_markup,omitempty"`
}

// Result is the per-record outcome of the enhancement pipeline. The
// original record is always preserved; failures are markers, not
// missing entries.
type Result struct {
	Record              catalog.Record `json:"record"`
	SEO                 *SEOBundle     `json:"seo,omitempty"`
	EnhancedDescription string         `json:"enhanced_description,omitempty"`
	Images              []string       `json:"images,omitempty"`
	EnhancementFailed   bool           `json:"enhancement_failed"`
	ImageFailed         bool           `json:"image_failed"`
	Err                 error          `json:"-"`
	EnhancedAt          time.Time      `json:"enhanced_at"`
}

// Merged returns a copy of the record with the generated fields folded
// in under the enhancement keys, ready for serialization.
func (r Result) Merged() catalog.Record {
	rec := r.Record.Clone()

	if r.EnhancedDescription != "" {
		rec[catalog.KeyEnhancedDescription] = r.EnhancedDescription
	}
	if r.SEO != nil {
		rec[catalog.KeySEOTitle] = r.SEO.MetaTitle
		rec[catalog.KeySEODescription] = r.SEO.MetaDescription
		rec[catalog.KeySEOKeywords] = r.SEO.Keywords
	}
	if len(r.Images) > 0 {
		rec[catalog.KeyImages] = strings.Join(r.Images, ";")
	}
	if r.EnhancementFailed {
		rec[catalog.KeyEnhancementFailed] = "true"
	}
	if r.ImageFailed {
		rec[catalog.KeyImageFailed] = "true"
	}
	if !r.EnhancedAt.IsZero() {
		rec[catalog.KeyEnhancedAt] = r.EnhancedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

// MergedRecords folds a batch of results into serializable records,
// preserving order. The output always has one record per result.
func MergedRecords(results []Result) []catalog.Record {
	records := make([]catalog.Record, 0, len(results))
	for _, r := range results {
		records = append(records, r.Merged())
	}
	return records
}
