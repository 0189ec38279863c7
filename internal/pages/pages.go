// Package pages generates brand and category content pages from a
// record set: records are grouped by brand, then by category within
// brand, and each group gets an AI-generated content bundle.
package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"catalogcli/internal/ai"
	"catalogcli/internal/catalog"
)

const (
	// UnknownBrand is the group for records with no brand field
	UnknownBrand = "Unknown"

	brandTemperature    = 0.8
	brandMaxTokens      = 2000
	categoryTemperature = 0.7
	categoryMaxTokens   = 1500

	systemPrompt = "You are a content strategist for a beauty e-commerce store. Respond with valid JSON only."
)

// BrandContent is the generated content bundle for one brand
type BrandContent struct {
	About           string `json:"about"`
	Philosophy      string `json:"philosophy"`
	Ingredients     string `json:"ingredients"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
}

// CategoryContent is the generated content bundle for one category
type CategoryContent struct {
	Intro           string `json:"intro"`
	Benefits        string `json:"benefits"`
	UsageTips       string `json:"usage_tips"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Keywords        string `json:"keywords"`
}

// CategoryPage holds one category's products and generated content
type CategoryPage struct {
	Category string           `json:"category"`
	Slug     string           `json:"slug"`
	Content  *CategoryContent `json:"content,omitempty"`
	Products []catalog.Record `json:"products"`
	Failed   bool             `json:"generation_failed,omitempty"`
}

// BrandPage is the brand node of the brand→category→product tree
type BrandPage struct {
	Brand      string           `json:"brand"`
	Slug       string           `json:"slug"`
	Content    *BrandContent    `json:"content,omitempty"`
	Categories []CategoryPage   `json:"categories"`
	Products   []catalog.Record `json:"products"`
	Failed     bool             `json:"generation_failed,omitempty"`
}

// TextGenerator is the chat completion capability used by the generator
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ai.ChatRequest) (string, error)
}

// GroupByBrand partitions records by their brand field. Records without
// a brand fall into the "Unknown" group.
func GroupByBrand(records []catalog.Record) map[string][]catalog.Record {
	groups := make(map[string][]catalog.Record)
	for _, rec := range records {
		brand := rec.Brand()
		if brand == "" {
			brand = UnknownBrand
		}
		groups[brand] = append(groups[brand], rec)
	}
	return groups
}

// categoriesOf returns the distinct category values in order of first
// appearance.
func categoriesOf(records []catalog.Record) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, rec := range records {
		cat := rec.Get(catalog.ColCategories)
		if cat == "" {
			cat = UnknownBrand
		}
		if !seen[cat] {
			seen[cat] = true
			categories = append(categories, cat)
		}
	}
	return categories
}

// Generator produces brand and category content via the AI provider
type Generator struct {
	text   TextGenerator
	logger *slog.Logger
}

// NewGenerator creates a content generator
func NewGenerator(text TextGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{text: text, logger: logger}
}

// BrandPage generates the content tree for one brand. Brand and
// category failures are isolated: the page comes back with its products
// and an error flag instead of aborting the remaining groups.
func (g *Generator) BrandPage(ctx context.Context, brand string, records []catalog.Record) BrandPage {
	page := BrandPage{
		Brand:    brand,
		Slug:     Slugify(brand),
		Products: records,
	}

	content, err := g.generateBrandContent(ctx, brand, records)
	if err != nil {
		g.logger.WarnContext(ctx, "brand content generation failed",
			"brand", brand,
			"error", err,
		)
		page.Failed = true
	} else {
		page.Content = content
	}

	for _, category := range categoriesOf(records) {
		catPage := CategoryPage{
			Category: category,
			Slug:     Slugify(category),
			Products: productsInCategory(records, category),
		}

		catContent, err := g.generateCategoryContent(ctx, brand, category, catPage.Products)
		if err != nil {
			g.logger.WarnContext(ctx, "category content generation failed",
				"brand", brand,
				"category", category,
				"error", err,
			)
			catPage.Failed = true
		} else {
			catPage.Content = catContent
		}
		page.Categories = append(page.Categories, catPage)
	}

	return page
}

// GenerateAll builds brand pages for every group, brands in sorted order
func (g *Generator) GenerateAll(ctx context.Context, records []catalog.Record) []BrandPage {
	groups := GroupByBrand(records)

	brands := make([]string, 0, len(groups))
	for brand := range groups {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	pages := make([]BrandPage, 0, len(brands))
	for _, brand := range brands {
		pages = append(pages, g.BrandPage(ctx, brand, groups[brand]))
	}
	return pages
}

func (g *Generator) generateBrandContent(ctx context.Context, brand string, records []catalog.Record) (*BrandContent, error) {
	content, err := g.text.ChatCompletion(ctx, ai.ChatRequest{
		System:      systemPrompt,
		Prompt:      brandPrompt(brand, records),
		Temperature: brandTemperature,
		MaxTokens:   brandMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var bundle BrandContent
	if err := json.Unmarshal([]byte(ai.CleanJSONContent(content)), &bundle); err != nil {
		return nil, fmt.Errorf("brand content was not valid json: %w", err)
	}
	return &bundle, nil
}

func (g *Generator) generateCategoryContent(ctx context.Context, brand, category string, records []catalog.Record) (*CategoryContent, error) {
	content, err := g.text.ChatCompletion(ctx, ai.ChatRequest{
		System:      systemPrompt,
		Prompt:      categoryPrompt(brand, category, records),
		Temperature: categoryTemperature,
		MaxTokens:   categoryMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var bundle CategoryContent
	if err := json.Unmarshal([]byte(ai.CleanJSONContent(content)), &bundle); err != nil {
		return nil, fmt.Errorf("category content was not valid json: %w", err)
	}
	return &bundle, nil
}

func productsInCategory(records []catalog.Record, category string) []catalog.Record {
	var out []catalog.Record
	for _, rec := range records {
		cat := rec.Get(catalog.ColCategories)
		if cat == "" {
			cat = UnknownBrand
		}
		if cat == category {
			out = append(out, rec)
		}
	}
	return out
}
