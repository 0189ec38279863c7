package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/ai"
	"catalogcli/internal/catalog"
)

// fakeProvider scripts chat, search and image responses per call
type fakeProvider struct {
	chatResponses []string
	chatErr       error
	chatCalls     []ai.ChatRequest

	searchResults []ai.SearchResult
	searchErr     error

	imageBytes []byte
	imageErr   error
}

func (f *fakeProvider) ChatCompletion(ctx context.Context, req ai.ChatRequest) (string, error) {
	f.chatCalls = append(f.chatCalls, req)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatResponses) == 0 {
		return "", errors.New("no scripted response")
	}
	resp := f.chatResponses[0]
	f.chatResponses = f.chatResponses[1:]
	return resp, nil
}

func (f *fakeProvider) SearchWeb(ctx context.Context, query string) ([]ai.SearchResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeProvider) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	return f.imageBytes, f.imageErr
}

func TestEnhance_Success(t *testing.T) {
	provider := &fakeProvider{chatResponses: []string{
		`{"meta_title":"Livora Serum","meta_description":"Buy now","keywords":"serum, glow"}`,
		"A silky serum that absorbs fast.",
	}}
	enhancer := NewEnhancer(provider, nil)

	rec := catalog.Record{catalog.ColName: "Serum", catalog.ColBrand: "Livora"}
	result := enhancer.Enhance(context.Background(), rec)

	assert.False(t, result.EnhancementFailed)
	require.NotNil(t, result.SEO)
	assert.Equal(t, "Livora Serum", result.SEO.MetaTitle)
	assert.Equal(t, "A silky serum that absorbs fast.", result.EnhancedDescription)
	assert.False(t, result.EnhancedAt.IsZero())

	// SEO call uses 0.7/1000, description call uses 0.8/1500.
	require.Len(t, provider.chatCalls, 2)
	assert.Equal(t, 0.7, provider.chatCalls[0].Temperature)
	assert.Equal(t, 1000, provider.chatCalls[0].MaxTokens)
	assert.Equal(t, 0.8, provider.chatCalls[1].Temperature)
	assert.Equal(t, 1500, provider.chatCalls[1].MaxTokens)
}

func TestEnhance_ProviderFailureIsIsolated(t *testing.T) {
	provider := &fakeProvider{chatErr: &ai.ProviderError{Capability: "chat", Message: "down"}}
	enhancer := NewEnhancer(provider, nil)

	rec := catalog.Record{catalog.ColName: "Serum", catalog.ColDescription: "original"}
	result := enhancer.Enhance(context.Background(), rec)

	assert.True(t, result.EnhancementFailed)
	assert.Error(t, result.Err)
	// Original record preserved untouched.
	assert.Equal(t, "original", result.Record[catalog.ColDescription])
	assert.Empty(t, result.EnhancedDescription)
}

func TestEnhance_InvalidSEOJSONGetsEmptyBundle(t *testing.T) {
	provider := &fakeProvider{chatResponses: []string{
		"this is not json at all",
		"rewritten",
	}}
	enhancer := NewEnhancer(provider, nil)

	result := enhancer.Enhance(context.Background(), catalog.Record{catalog.ColName: "Serum"})

	assert.False(t, result.EnhancementFailed)
	require.NotNil(t, result.SEO)
	assert.Empty(t, result.SEO.MetaTitle)
	assert.Equal(t, "rewritten", result.EnhancedDescription)
}

func TestEnhance_FencedSEOJSON(t *testing.T) {
	provider := &fakeProvider{chatResponses: []string{
		"```json\n{\"meta_title\":\"T\"}\n```",
		"rewritten",
	}}
	enhancer := NewEnhancer(provider, nil)

	result := enhancer.Enhance(context.Background(), catalog.Record{catalog.ColName: "Serum"})
	require.NotNil(t, result.SEO)
	assert.Equal(t, "T", result.SEO.MetaTitle)
}

func TestEnhanceAll_OneEntryPerRecord(t *testing.T) {
	provider := &fakeProvider{chatResponses: []string{
		`{"meta_title":"A"}`, "desc A",
		// Second record runs out of scripted responses and fails.
	}}
	enhancer := NewEnhancer(provider, nil)

	records := []catalog.Record{
		{catalog.ColName: "A"},
		{catalog.ColName: "B", catalog.ColDescription: "keep me"},
	}
	results := enhancer.EnhanceAll(context.Background(), records)

	require.Len(t, results, 2)
	assert.False(t, results[0].EnhancementFailed)
	assert.True(t, results[1].EnhancementFailed)
	assert.Equal(t, "keep me", results[1].Record[catalog.ColDescription])
}

func TestResult_Merged(t *testing.T) {
	result := Result{
		Record:              catalog.Record{catalog.ColName: "Serum"},
		SEO:                 &SEOBundle{MetaTitle: "T", MetaDescription: "D", Keywords: "k1, k2"},
		EnhancedDescription: "better",
		Images:              []string{"https://a.jpg", "https://b.jpg"},
	}

	rec := result.Merged()
	assert.Equal(t, "better", rec[catalog.KeyEnhancedDescription])
	assert.Equal(t, "T", rec[catalog.KeySEOTitle])
	assert.Equal(t, "https://a.jpg;https://b.jpg", rec[catalog.KeyImages])
	// Merging never mutates the source record.
	assert.NotContains(t, result.Record, catalog.KeyEnhancedDescription)
}

func TestResult_MergedFailureMarkers(t *testing.T) {
	result := Result{
		Record:            catalog.Record{catalog.ColName: "Serum"},
		EnhancementFailed: true,
		ImageFailed:       true,
	}

	rec := result.Merged()
	assert.Equal(t, "true", rec[catalog.KeyEnhancementFailed])
	assert.Equal(t, "true", rec[catalog.KeyImageFailed])
}

func TestSEOPrompt_ContainsProductFields(t *testing.T) {
	rec := catalog.Record{
		catalog.ColName:        "Serum",
		catalog.ColBrand:       "Livora",
		catalog.ColCategories:  "Skincare",
		catalog.ColDescription: "hydrating",
	}

	prompt := seoPrompt(rec)
	for _, want := range []string{"Serum", "Livora", "Skincare", "hydrating"} {
		assert.True(t, strings.Contains(prompt, want), "prompt missing %q", want)
	}
}
