package contracts

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
)

func TestSchema_SplitColumn(t *testing.T) {
	schema := DefaultSchema()

	tests := []struct {
		col         string
		wantToken   string
		wantOpening bool
		wantOK      bool
	}{
		{"02-01-2023_opening", "02-01-2023", true, true},
		{"02-01-2023_closing", "02-01-2023", false, true},
		{"company_name", "", false, false},
		{"_closing", "", false, false},
		{"02-01-2023_volume", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			token, isOpening, ok := schema.SplitColumn(tt.col)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
			assert.Equal(t, tt.wantOpening, isOpening)
		})
	}
}

func TestSchema_WithDefaults(t *testing.T) {
	s := Schema{CompanyColumn: "ticker"}.WithDefaults()

	assert.Equal(t, "ticker", s.CompanyColumn)
	assert.Equal(t, DefaultOpeningSuffix, s.OpeningSuffix)
	assert.Equal(t, DefaultClosingSuffix, s.ClosingSuffix)
	assert.Equal(t, "05-01-2023_closing", s.ClosingColumn("05-01-2023"))
}

func TestSectorMap_Lookup(t *testing.T) {
	m := SectorMap{"Alpha": "Tech"}

	assert.Equal(t, "Tech", m.Lookup("Alpha"))
	assert.Equal(t, FallbackSector, m.Lookup("Beta"))

	var absent SectorMap
	assert.Equal(t, FallbackSector, absent.Lookup("Alpha"))
}

func TestRawRecord_PriceAccess(t *testing.T) {
	r := NewRawRecord("Alpha")
	r.Opening["02-01-2023"] = null.FloatFrom(100)
	r.Closing["02-01-2023"] = null.Float{}

	assert.True(t, r.OpeningAt("02-01-2023").Valid)
	assert.False(t, r.ClosingAt("02-01-2023").Valid)
	assert.False(t, r.OpeningAt("03-01-2023").Valid, "missing token reads as null")
}

func TestAnnotatedTable_Companies(t *testing.T) {
	table := &AnnotatedTable{Records: []AnnotatedRecord{
		{RawRecord: NewRawRecord("B")},
		{RawRecord: NewRawRecord("A")},
	}}

	assert.Equal(t, []string{"B", "A"}, table.Companies())
}

func TestDateOrder_IsValid(t *testing.T) {
	assert.True(t, DateOrderLexical.IsValid())
	assert.True(t, DateOrderChronological.IsValid())
	assert.False(t, DateOrder("random").IsValid())
}
