package enhance

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"catalogcli/internal/ai"
	"catalogcli/internal/catalog"
)

const imageSize = "1024x1024"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// ImageProvider combines the search and generation capabilities used to
// resolve product images.
type ImageProvider interface {
	SearchWeb(ctx context.Context, query string) ([]ai.SearchResult, error)
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)
}

// ImageResolver finds product images via web search, falling back to
// one generated image when the search yields nothing usable.
type ImageResolver struct {
	provider ImageProvider
	logger   *slog.Logger
}

// NewImageResolver creates an image resolver
func NewImageResolver(provider ImageProvider, logger *slog.Logger) *ImageResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageResolver{provider: provider, logger: logger}
}

// Resolve returns image references for one record. The list is either
// search results or the single generated fallback, never a mix.
func (ir *ImageResolver) Resolve(ctx context.Context, rec catalog.Record) ([]string, error) {
	results, err := ir.provider.SearchWeb(ctx, imageSearchQuery(rec))
	if err == nil {
		if images := filterImageURLs(results); len(images) > 0 {
			return images, nil
		}
	} else {
		ir.logger.WarnContext(ctx, "image search failed, trying generation",
			"product", rec.Get(catalog.ColName),
			"error", err,
		)
	}

	img, err := ir.provider.GenerateImage(ctx, imagePrompt(rec), imageSize)
	if err != nil {
		return nil, err
	}
	return []string{dataURI(img)}, nil
}

// ResolveAll fills the image list on each result in order. A total
// failure for one record sets its image_failed marker and moves on.
func (ir *ImageResolver) ResolveAll(ctx context.Context, results []Result) []Result {
	for i := range results {
		images, err := ir.Resolve(ctx, results[i].Record)
		if err != nil {
			ir.logger.WarnContext(ctx, "image resolution failed",
				"product", results[i].Record.Get(catalog.ColName),
				"error", err,
			)
			results[i].ImageFailed = true
			if results[i].Err == nil {
				results[i].Err = err
			}
			continue
		}
		results[i].Images = images
	}
	return results
}

// filterImageURLs keeps results whose URL ends in a known image extension
func filterImageURLs(results []ai.SearchResult) []string {
	var images []string
	for _, res := range results {
		url, _, _ := strings.Cut(res.URL, "?")
		lower := strings.ToLower(url)
		for _, ext := range imageExtensions {
			if strings.HasSuffix(lower, ext) {
				images = append(images, res.URL)
				break
			}
		}
	}
	return images
}

// dataURI encodes generated image bytes as an inline data reference
func dataURI(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}
