package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParse_Basic(t *testing.T) {
	input := "Name,SKU,Categories\nLipstick,LP-1,Makeup\nSerum,SR-9,Skincare\nCream,CR-2,Skincare\n"

	cat, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "SKU", "Categories"}, cat.Columns)
	require.Len(t, cat.Records, 3)
	assert.Equal(t, "Lipstick", cat.Records[0]["Name"])
	assert.Equal(t, "SR-9", cat.Records[1]["SKU"])
	assert.Equal(t, "Skincare", cat.Records[2]["Categories"])
}

func TestParse_ShortRowPadded(t *testing.T) {
	input := "Name,SKU,Categories\nLipstick,LP-1\n"

	cat, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, cat.Records, 1)
	rec := cat.Records[0]
	assert.Equal(t, "Lipstick", rec["Name"])
	assert.Equal(t, "", rec["Categories"])
	// Every record carries the full header key set.
	assert.Len(t, rec, 3)
}

func TestParse_QuotedDelimiter(t *testing.T) {
	input := "Name,Description\n\"Night Cream\",\"Rich, fast-absorbing formula\"\n"

	cat, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, cat.Records, 1)
	assert.Equal(t, "Rich, fast-absorbing formula", cat.Records[0]["Description"])
}

func TestParse_StripsBOM(t *testing.T) {
	input := "\xef\xbb\xbfName,SKU\nSerum,SR-9\n"

	cat, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "SKU"}, cat.Columns)
}

func TestParse_SkipsBlankLines(t *testing.T) {
	input := "Name,SKU\nSerum,SR-9\n\nCream,CR-2\n"

	cat, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, cat.Records, 2)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Brand"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Serum", "Livora"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	cat, err := ParseWorkbook(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Brand"}, cat.Columns)
	require.Len(t, cat.Records, 1)
	assert.Equal(t, "Livora", cat.Records[0]["Brand"])
}

func TestRecord_Brand(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"meta field wins", Record{ColBrandMeta: "Livora", ColBrand: "Other"}, "Livora"},
		{"falls back to brand column", Record{ColBrand: "Other"}, "Other"},
		{"absent", Record{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Brand())
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	rec := Record{"Name": "Serum"}
	clone := rec.Clone()
	clone["Name"] = "Changed"

	assert.Equal(t, "Serum", rec["Name"])
}
