package s1_prepare

import (
	"sort"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// Options controls data preparation
type Options struct {
	DateOrder contracts.DateOrder // 기본값: lexical
	Logger    *logger.Logger
}

// Prepare attaches sectors to every record and extracts the trading date set.
// ⭐ SSOT: S0 → S1 전처리, raw 테이블은 변경하지 않음
func Prepare(raw *contracts.RawTable, sectors contracts.SectorMap, opts Options) (*contracts.AnnotatedTable, contracts.DateSet, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	order := opts.DateOrder
	if order == "" {
		order = contracts.DateOrderLexical
	}

	annotated := &contracts.AnnotatedTable{
		Columns: append([]string(nil), raw.Columns...),
		Schema:  raw.Schema,
		Records: make([]contracts.AnnotatedRecord, len(raw.Records)),
	}

	unknown := 0
	for i, rec := range raw.Records {
		s := sectors.Lookup(rec.CompanyName)
		if s == contracts.FallbackSector {
			unknown++
		}
		annotated.Records[i] = contracts.AnnotatedRecord{RawRecord: rec, Sector: s}
	}

	tokens, err := dateTokens(raw, log)
	if err != nil {
		return nil, contracts.DateSet{}, err
	}
	SortTokens(tokens, order)

	log.WithFields(map[string]interface{}{
		"companies": len(annotated.Records),
		"unknown":   unknown,
		"dates":     len(tokens),
		"order":     string(order),
	}).Info("table prepared")

	return annotated, contracts.DateSet{Tokens: tokens, Order: order}, nil
}

// dateTokens returns the distinct tokens having both an opening and a closing column
func dateTokens(raw *contracts.RawTable, log *logger.Logger) ([]string, error) {
	schema := raw.Schema.WithDefaults()

	if len(schema.Dates) > 0 {
		return declaredTokens(raw, schema)
	}

	opening := make(map[string]bool)
	closing := make(map[string]bool)
	var seen []string
	for _, col := range raw.Columns {
		token, isOpening, ok := schema.SplitColumn(col)
		if !ok {
			continue
		}
		if !opening[token] && !closing[token] {
			seen = append(seen, token)
		}
		if isOpening {
			opening[token] = true
		} else {
			closing[token] = true
		}
	}

	tokens := make([]string, 0, len(seen))
	for _, token := range seen {
		if opening[token] && closing[token] {
			tokens = append(tokens, token)
			continue
		}
		log.WithField("token", token).Warn("date has only one price column, excluded")
	}

	if len(tokens) == 0 {
		return nil, &contracts.MissingColumnError{
			Reason: "no date has both opening and closing columns",
		}
	}
	return tokens, nil
}

// declaredTokens validates the dates listed in the schema descriptor
func declaredTokens(raw *contracts.RawTable, schema contracts.Schema) ([]string, error) {
	var missing []string
	tokens := make([]string, 0, len(schema.Dates))
	dup := make(map[string]bool)

	for _, token := range schema.Dates {
		if dup[token] {
			continue
		}
		dup[token] = true

		for _, col := range []string{schema.OpeningColumn(token), schema.ClosingColumn(token)} {
			if !raw.HasColumn(col) {
				missing = append(missing, col)
			}
		}
		tokens = append(tokens, token)
	}

	if len(missing) > 0 {
		return nil, &contracts.MissingColumnError{
			Columns: missing,
			Reason:  "declared dates without price columns",
		}
	}
	return tokens, nil
}

// SortTokens orders date tokens in place.
// Lexical compares raw strings (DD-MM-YYYY is not chronological across months).
// Chronological puts parseable tokens by calendar date first, then the rest lexically.
func SortTokens(tokens []string, order contracts.DateOrder) {
	if order != contracts.DateOrderChronological {
		sort.Strings(tokens)
		return
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		ti, errI := contracts.ParseToken(tokens[i])
		tj, errJ := contracts.ParseToken(tokens[j])
		switch {
		case errI == nil && errJ == nil:
			if ti.Equal(tj) {
				return tokens[i] < tokens[j]
			}
			return ti.Before(tj)
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return tokens[i] < tokens[j]
		}
	})
}
