package pages

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/catalog"
)

func testBrandPages() []BrandPage {
	return []BrandPage{
		{
			Brand: "Livora",
			Slug:  "livora",
			Categories: []CategoryPage{
				{
					Category: "Skincare",
					Slug:     "skincare",
					Products: []catalog.Record{
						{catalog.ColName: "Night Cream", catalog.ColSKU: "NC-1", catalog.ColRegularPrice: "19.90"},
					},
				},
			},
			Products: []catalog.Record{
				{catalog.ColName: "Night Cream", catalog.ColSKU: "NC-1"},
			},
		},
	}
}

func TestBuildSiteBundle(t *testing.T) {
	bundle := BuildSiteBundle(testBrandPages())

	require.Len(t, bundle.Brands, 1)
	assert.Equal(t, 1, bundle.Brands[0].ProductCount)

	require.Len(t, bundle.Categories, 1)
	assert.Equal(t, "Livora", bundle.Categories[0].Brand)

	require.Len(t, bundle.Products, 1)
	assert.Equal(t, "night-cream", bundle.Products[0].Slug)
	assert.Equal(t, "19.90", bundle.Products[0].Price)

	// brand + category + product sitemap entries
	require.Len(t, bundle.Sitemap, 3)
	assert.Equal(t, "/brands/livora", bundle.Sitemap[0].Path)
	assert.Equal(t, "/brands/livora/skincare", bundle.Sitemap[1].Path)
	assert.Equal(t, "/products/night-cream", bundle.Sitemap[2].Path)
}

func TestSiteBundle_Write(t *testing.T) {
	dir := t.TempDir()
	bundle := BuildSiteBundle(testBrandPages())

	written, err := bundle.Write(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"brands.json", "categories.json", "products.json", "sitemap.json", "pages.json"}, written)

	data, err := os.ReadFile(filepath.Join(dir, "brands.json"))
	require.NoError(t, err)

	var brands []BrandSummary
	require.NoError(t, json.Unmarshal(data, &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Livora", brands[0].Name)
}
