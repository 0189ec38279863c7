// Package catalog implements the tabular codec for product catalogs:
// parsing uploaded CSV/XLSX files into row records and serializing
// records back into the export dialects.
package catalog

// Source column names recognized in uploaded catalogs
const (
	ColName         = "Name"
	ColSKU          = "SKU"
	ColBrand        = "Brand"
	ColCategories   = "Categories"
	ColDescription  = "Description"
	ColRegularPrice = "Regular price"
	ColTags         = "Tags"
	ColBrandMeta    = "Meta: _livora_brand_name"
)

// Keys added to a record by the enhancement pipeline
const (
	KeyEnhancedDescription = "enhanced_description"
	KeySEOTitle            = "seo_meta_title"
	KeySEODescription      = "seo_meta_description"
	KeySEOKeywords         = "seo_keywords"
	KeyImages              = "scraped_images"
	KeyEnhancementFailed   = "enhancement_failed"
	KeyImageFailed         = "image_failed"
	KeyEnhancedAt          = "enhanced_at"
)

// Record is one parsed data row keyed by column header. Values stay as
// strings until an output writer needs a number.
type Record map[string]string

// Get returns the value for a key, or empty string when absent
func (r Record) Get(key string) string {
	return r[key]
}

// GetDefault returns the value for a key, or def when absent or empty
func (r Record) GetDefault(key, def string) string {
	if v, ok := r[key]; ok && v != "" {
		return v
	}
	return def
}

// Brand returns the record's brand, preferring the store meta field
func (r Record) Brand() string {
	if v := r[ColBrandMeta]; v != "" {
		return v
	}
	return r[ColBrand]
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Catalog holds the parsed rows together with the header order
type Catalog struct {
	Columns []string
	Records []Record
}
