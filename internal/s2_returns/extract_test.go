package s2_returns

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/contracts"
)

type cell struct {
	opening null.Float
	closing null.Float
}

func price(v float64) null.Float { return null.FloatFrom(v) }

func annotated(sector string, company string, cells map[string]cell) contracts.AnnotatedRecord {
	rec := contracts.NewRawRecord(company)
	for token, c := range cells {
		rec.Opening[token] = c.opening
		rec.Closing[token] = c.closing
	}
	return contracts.AnnotatedRecord{RawRecord: rec, Sector: sector}
}

func TestDailyReturn(t *testing.T) {
	tests := []struct {
		name             string
		opening, closing float64
		want             float64
	}{
		{"five percent up", 100, 105, 5.0},
		{"flat", 50, 50, 0},
		{"ten percent down", 200, 180, -10},
		{"fractional", 8, 9, 12.5},
		{"small prices", 0.1, 0.3, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DailyReturn(tt.opening, tt.closing))
		})
	}
}

func TestExtract_Guards(t *testing.T) {
	// 02-01-2023 Mon, 03-01-2023 Tue, 04-01-2023 Wed, 05-01-2023 Thu
	table := &contracts.AnnotatedTable{Records: []contracts.AnnotatedRecord{
		annotated("Tech", "Alpha", map[string]cell{
			"02-01-2023": {price(100), price(105)},
			"03-01-2023": {price(0), price(10)},
			"04-01-2023": {price(-5), price(10)},
			"05-01-2023": {null.Float{}, price(10)},
		}),
		annotated("Energy", "Beta", map[string]cell{
			"02-01-2023": {price(10), null.Float{}},
		}),
	}}
	dates := contracts.DateSet{Tokens: []string{"02-01-2023", "03-01-2023", "04-01-2023", "05-01-2023"}}

	rt := Extract(table, dates, Options{})

	require.Equal(t, 1, rt.Len())
	assert.Equal(t, 7, rt.Skipped)

	obs := rt.Observations[0]
	assert.Equal(t, "Alpha", obs.Company)
	assert.Equal(t, "Tech", obs.Sector)
	assert.Equal(t, "02-01-2023", obs.Token)
	assert.Equal(t, contracts.Monday, obs.Weekday)
	assert.Equal(t, 5.0, obs.DailyReturn)
}

func TestExtract_WeekendKeptAndOrder(t *testing.T) {
	// 07-01-2023 Sat, 08-01-2023 Sun, 09-01-2023 Mon
	cells := map[string]cell{
		"07-01-2023": {price(100), price(101)},
		"08-01-2023": {price(100), price(102)},
		"09-01-2023": {price(100), price(103)},
	}
	table := &contracts.AnnotatedTable{Records: []contracts.AnnotatedRecord{
		annotated("Tech", "B", cells),
		annotated("Tech", "A", cells),
	}}
	dates := contracts.DateSet{Tokens: []string{"09-01-2023", "07-01-2023", "08-01-2023"}}

	rt := Extract(table, dates, Options{})
	require.Equal(t, 6, rt.Len())

	var got []string
	for _, o := range rt.Observations {
		got = append(got, o.Company+"@"+string(o.Weekday))
	}
	assert.Equal(t, []string{"B@Mon", "B@Sat", "B@Sun", "A@Mon", "A@Sat", "A@Sun"}, got)
}

func TestExtract_UnparseableToken(t *testing.T) {
	table := &contracts.AnnotatedTable{Records: []contracts.AnnotatedRecord{
		annotated("Tech", "Alpha", map[string]cell{
			"2023-01-02": {price(100), price(105)},
		}),
	}}

	rt := Extract(table, contracts.DateSet{Tokens: []string{"2023-01-02"}}, Options{})

	assert.Equal(t, 0, rt.Len())
	assert.Equal(t, 1, rt.Skipped)
}

func TestObserve_Reason(t *testing.T) {
	rec := annotated("Tech", "Alpha", map[string]cell{"02-01-2023": {price(0), price(1)}})

	_, err := observe(rec, "02-01-2023")

	var malformed *contracts.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "opening price not positive", malformed.Reason)
	assert.ErrorIs(t, err, contracts.ErrMalformedRow)
}
