package contracts

import (
	"strings"

	"github.com/guregu/null/v6"
)

// Default column naming used by the wide dataset
const (
	DefaultCompanyColumn = "company_name"
	DefaultOpeningSuffix = "_opening"
	DefaultClosingSuffix = "_closing"
)

// FallbackSector is assigned to every company without a sector entry
const FallbackSector = "Unknown"

// Schema describes how the wide table encodes company and per-date price columns.
// Dates is optional: when empty the date tokens are inferred from the header.
type Schema struct {
	CompanyColumn string   `yaml:"company_column"`
	OpeningSuffix string   `yaml:"opening_suffix"`
	ClosingSuffix string   `yaml:"closing_suffix"`
	Dates         []string `yaml:"dates"`
}

// DefaultSchema returns the company_name / <token>_opening / <token>_closing layout
func DefaultSchema() Schema {
	return Schema{
		CompanyColumn: DefaultCompanyColumn,
		OpeningSuffix: DefaultOpeningSuffix,
		ClosingSuffix: DefaultClosingSuffix,
	}
}

// WithDefaults fills empty fields with the default naming
func (s Schema) WithDefaults() Schema {
	if s.CompanyColumn == "" {
		s.CompanyColumn = DefaultCompanyColumn
	}
	if s.OpeningSuffix == "" {
		s.OpeningSuffix = DefaultOpeningSuffix
	}
	if s.ClosingSuffix == "" {
		s.ClosingSuffix = DefaultClosingSuffix
	}
	return s
}

// OpeningColumn returns the opening price column name for a date token
func (s Schema) OpeningColumn(token string) string { return token + s.OpeningSuffix }

// ClosingColumn returns the closing price column name for a date token
func (s Schema) ClosingColumn(token string) string { return token + s.ClosingSuffix }

// SplitColumn reports whether col is a price column and returns its date token.
// isOpening distinguishes opening from closing columns.
func (s Schema) SplitColumn(col string) (token string, isOpening bool, ok bool) {
	switch {
	case strings.HasSuffix(col, s.OpeningSuffix) && len(col) > len(s.OpeningSuffix):
		return strings.TrimSuffix(col, s.OpeningSuffix), true, true
	case strings.HasSuffix(col, s.ClosingSuffix) && len(col) > len(s.ClosingSuffix):
		return strings.TrimSuffix(col, s.ClosingSuffix), false, true
	default:
		return "", false, false
	}
}

// RawRecord is one company row of the wide table.
// Opening/Closing are keyed by raw date token; a missing key and a null value both mean "no price".
type RawRecord struct {
	CompanyName string
	Opening     map[string]null.Float
	Closing     map[string]null.Float
}

// NewRawRecord creates an empty record for a company
func NewRawRecord(company string) RawRecord {
	return RawRecord{
		CompanyName: company,
		Opening:     make(map[string]null.Float),
		Closing:     make(map[string]null.Float),
	}
}

// OpeningAt returns the opening price for a date token
func (r RawRecord) OpeningAt(token string) null.Float { return r.Opening[token] }

// ClosingAt returns the closing price for a date token
func (r RawRecord) ClosingAt(token string) null.Float { return r.Closing[token] }

// RawTable is the in-memory wide dataset.
// Columns keeps the header in source order.
type RawTable struct {
	Source  string
	Columns []string
	Records []RawRecord
	Schema  Schema
}

// HasColumn reports whether the header contains col
func (t *RawTable) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// SectorMap maps company name to sector label. A nil map means the source was absent.
type SectorMap map[string]string

// Lookup returns the sector for a company or FallbackSector
func (m SectorMap) Lookup(company string) string {
	if sector, ok := m[company]; ok {
		return sector
	}
	return FallbackSector
}

// AnnotatedRecord is a RawRecord with its sector attached
type AnnotatedRecord struct {
	RawRecord
	Sector string
}

// AnnotatedTable is the prepared table produced by S1
type AnnotatedTable struct {
	Columns []string
	Schema  Schema
	Records []AnnotatedRecord
}

// Companies returns company names in row order
func (t *AnnotatedTable) Companies() []string {
	names := make([]string, len(t.Records))
	for i, r := range t.Records {
		names[i] = r.CompanyName
	}
	return names
}

// DateOrder selects how date tokens are sorted
type DateOrder string

const (
	// DateOrderLexical sorts raw tokens as strings (DD-MM-YYYY is not chronological across months)
	DateOrderLexical DateOrder = "lexical"
	// DateOrderChronological sorts tokens by parsed calendar date
	DateOrderChronological DateOrder = "chronological"
)

// IsValid checks the order value
func (o DateOrder) IsValid() bool {
	return o == DateOrderLexical || o == DateOrderChronological
}

// DateSet is the ordered set of distinct trading date tokens
type DateSet struct {
	Tokens []string
	Order  DateOrder
}

// Len returns the number of trading dates
func (d DateSet) Len() int { return len(d.Tokens) }
