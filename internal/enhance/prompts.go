package enhance

import (
	"fmt"

	"catalogcli/internal/catalog"
)

const (
	seoSystemPrompt  = "You are an e-commerce SEO specialist. Respond with valid JSON only."
	copySystemPrompt = "You are a senior e-commerce copywriter for a beauty store."
)

// seoPrompt asks for SEO metadata as a JSON object
func seoPrompt(rec catalog.Record) string {
	return fmt.Sprintf(`Generate SEO metadata for this product as a JSON object with the keys
"meta_title", "meta_description", "keywords" (comma separated) and
"schema_markup" (schema.org Product object).

Product: %s
Brand: %s
Category: %s
Description: %s

Keep the meta title under 60 characters and the meta description under
160 characters. Return JSON only, no commentary.`,
		rec.Get(catalog.ColName),
		rec.Brand(),
		rec.Get(catalog.ColCategories),
		rec.Get(catalog.ColDescription),
	)
}

// descriptionPrompt asks for a rewritten product description as prose
func descriptionPrompt(rec catalog.Record) string {
	return fmt.Sprintf(`Rewrite this product description for better conversion:

Product: %s
Brand: %s
Category: %s
Current description: %s

Highlight key benefits, mention ingredients where known, include usage
instructions and keep it compelling and SEO friendly. Return only the
rewritten description.`,
		rec.Get(catalog.ColName),
		rec.Brand(),
		rec.Get(catalog.ColCategories),
		rec.Get(catalog.ColDescription),
	)
}

// imageSearchQuery builds the web search query for product images
func imageSearchQuery(rec catalog.Record) string {
	return fmt.Sprintf("%s %s product image", rec.Get(catalog.ColName), rec.Brand())
}

// imagePrompt is the fallback generation prompt
func imagePrompt(rec catalog.Record) string {
	return fmt.Sprintf("Professional studio product photography of %s by %s, clean white background, soft lighting, high detail",
		rec.Get(catalog.ColName), rec.Brand())
}
