package catalog

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// Dialect names an output schema for writing records back to text
type Dialect string

const (
	// DialectWooCommerce is the fixed WooCommerce product import schema
	DialectWooCommerce Dialect = "woocommerce"
	// DialectEnhanced is the free-form enhanced export schema
	DialectEnhanced Dialect = "enhanced"
)

// ParseDialect validates a dialect name, defaulting to woocommerce
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "", string(DialectWooCommerce):
		return DialectWooCommerce, nil
	case string(DialectEnhanced):
		return DialectEnhanced, nil
	default:
		return "", fmt.Errorf("unknown export dialect: %s", name)
	}
}

var wooCommerceColumns = []string{
	"ID", "Type", "SKU", "Name", "Published", "Is featured?",
	"Visibility in catalog", "Short description", "Description",
	"Tax status", "In stock?", "Stock", "Regular price", "Categories",
	"Tags", "Images", "Meta: _yoast_wpseo_title",
	"Meta: _yoast_wpseo_metadesc", "Meta: _yoast_wpseo_focuskw",
}

var enhancedColumns = []string{
	"ID", "SKU", "Name", "Brand", "Category", "Price",
	"Original Description", "Enhanced Description", "SEO Title",
	"SEO Description", "Keywords", "Image URLs",
}

// Columns returns the fixed column list for a dialect
func (d Dialect) Columns() []string {
	if d == DialectEnhanced {
		return enhancedColumns
	}
	return wooCommerceColumns
}

// Serialize writes records in the given dialect. Absent platform fields
// are written as the dialect's literal defaults rather than empty.
func Serialize(records []Record, dialect Dialect) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(dialect.Columns()); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range Rows(records, dialect) {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return sb.String(), nil
}

// Rows maps records onto the dialect's column list, applying the
// dialect's literal defaults. Row IDs are 1-based positions.
func Rows(records []Record, dialect Dialect) [][]string {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		switch dialect {
		case DialectEnhanced:
			rows = append(rows, enhancedRow(i+1, rec))
		default:
			rows = append(rows, wooCommerceRow(i+1, rec))
		}
	}
	return rows
}

// wooCommerceRow maps a record onto the import schema with its defaults
func wooCommerceRow(id int, rec Record) []string {
	return []string{
		strconv.Itoa(id),
		"simple",
		rec.Get(ColSKU),
		rec.Get(ColName),
		"1",
		"0",
		"visible",
		truncate(rec.Get(ColDescription), 200),
		rec.GetDefault(KeyEnhancedDescription, rec.Get(ColDescription)),
		"taxable",
		"1",
		"10",
		rec.GetDefault(ColRegularPrice, "0"),
		rec.Get(ColCategories),
		rec.Get(ColTags),
		rec.Get(KeyImages),
		rec.Get(KeySEOTitle),
		rec.Get(KeySEODescription),
		focusKeyword(rec.Get(KeySEOKeywords)),
	}
}

func enhancedRow(id int, rec Record) []string {
	return []string{
		strconv.Itoa(id),
		rec.Get(ColSKU),
		rec.Get(ColName),
		rec.Brand(),
		rec.Get(ColCategories),
		rec.GetDefault(ColRegularPrice, "0"),
		rec.Get(ColDescription),
		rec.Get(KeyEnhancedDescription),
		rec.Get(KeySEOTitle),
		rec.Get(KeySEODescription),
		rec.Get(KeySEOKeywords),
		rec.Get(KeyImages),
	}
}

// focusKeyword takes the first entry of a comma separated keyword list
func focusKeyword(keywords string) string {
	if keywords == "" {
		return ""
	}
	first, _, _ := strings.Cut(keywords, ",")
	return strings.TrimSpace(first)
}

// truncate limits a string to max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
