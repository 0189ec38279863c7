package pages

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"catalogcli/internal/catalog"
)

// Slugify converts a display name into a URL slug
func Slugify(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

// BrandSummary is one entry of brands.json
type BrandSummary struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"product_count"`
}

// CategorySummary is one entry of categories.json
type CategorySummary struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Brand        string `json:"brand"`
	ProductCount int    `json:"product_count"`
}

// ProductSummary is one entry of products.json
type ProductSummary struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	SKU      string `json:"sku,omitempty"`
	Brand    string `json:"brand"`
	Category string `json:"category,omitempty"`
	Price    string `json:"price,omitempty"`
}

// SitemapEntry is one entry of sitemap.json
type SitemapEntry struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	GeneratedAt string `json:"generated_at"`
}

// SiteBundle is the static site content generated from brand pages
type SiteBundle struct {
	Brands     []BrandSummary    `json:"brands"`
	Categories []CategorySummary `json:"categories"`
	Products   []ProductSummary  `json:"products"`
	Sitemap    []SitemapEntry    `json:"sitemap"`
	Pages      []BrandPage       `json:"pages"`
}

// BuildSiteBundle flattens the brand page tree into the site files
func BuildSiteBundle(brandPages []BrandPage) *SiteBundle {
	now := time.Now().UTC().Format(time.RFC3339)
	bundle := &SiteBundle{Pages: brandPages}

	for _, bp := range brandPages {
		bundle.Brands = append(bundle.Brands, BrandSummary{
			Name:         bp.Brand,
			Slug:         bp.Slug,
			ProductCount: len(bp.Products),
		})
		bundle.Sitemap = append(bundle.Sitemap, SitemapEntry{
			Path:        "/brands/" + bp.Slug,
			Kind:        "brand",
			GeneratedAt: now,
		})

		for _, cp := range bp.Categories {
			bundle.Categories = append(bundle.Categories, CategorySummary{
				Name:         cp.Category,
				Slug:         cp.Slug,
				Brand:        bp.Brand,
				ProductCount: len(cp.Products),
			})
			bundle.Sitemap = append(bundle.Sitemap, SitemapEntry{
				Path:        "/brands/" + bp.Slug + "/" + cp.Slug,
				Kind:        "category",
				GeneratedAt: now,
			})

			for _, rec := range cp.Products {
				name := rec.Get(catalog.ColName)
				bundle.Products = append(bundle.Products, ProductSummary{
					Name:     name,
					Slug:     Slugify(name),
					SKU:      rec.Get(catalog.ColSKU),
					Brand:    bp.Brand,
					Category: cp.Category,
					Price:    rec.Get(catalog.ColRegularPrice),
				})
				bundle.Sitemap = append(bundle.Sitemap, SitemapEntry{
					Path:        "/products/" + Slugify(name),
					Kind:        "product",
					GeneratedAt: now,
				})
			}
		}
	}

	return bundle
}

// Write saves the bundle as JSON files under dir and returns the file
// names written.
func (b *SiteBundle) Write(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create site bundle directory: %w", err)
	}

	files := []struct {
		name string
		data interface{}
	}{
		{"brands.json", b.Brands},
		{"categories.json", b.Categories},
		{"products.json", b.Products},
		{"sitemap.json", b.Sitemap},
		{"pages.json", b.Pages},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		payload, err := json.MarshalIndent(f.data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), payload, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		written = append(written, f.name)
	}
	return written, nil
}
