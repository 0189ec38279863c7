package pages

import (
	"fmt"
	"strings"

	"catalogcli/internal/catalog"
)

// brandPrompt asks for a brand content bundle as JSON
func brandPrompt(brand string, records []catalog.Record) string {
	return fmt.Sprintf(`Write brand page content for "%s" as a JSON object with the keys
"about", "philosophy", "ingredients", "meta_title", "meta_description"
and "keywords" (comma separated).

The brand sells these products: %s

Write engaging, trustworthy copy. Return JSON only, no commentary.`,
		brand, productNames(records, 15))
}

// categoryPrompt asks for a category content bundle as JSON
func categoryPrompt(brand, category string, records []catalog.Record) string {
	return fmt.Sprintf(`Write category page content for the "%s" category of the brand "%s"
as a JSON object with the keys "intro", "benefits", "usage_tips",
"meta_title", "meta_description" and "keywords" (comma separated).

Products in this category: %s

Return JSON only, no commentary.`,
		category, brand, productNames(records, 15))
}

// productNames joins up to max product names for prompt context
func productNames(records []catalog.Record, max int) string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if name := rec.Get(catalog.ColName); name != "" {
			names = append(names, name)
		}
		if len(names) == max {
			break
		}
	}
	return strings.Join(names, ", ")
}
