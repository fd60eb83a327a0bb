package quality

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/contracts"
)

func record(name, sector string, opening, closing map[string]null.Float) contracts.AnnotatedRecord {
	rec := contracts.NewRawRecord(name)
	for k, v := range opening {
		rec.Opening[k] = v
	}
	for k, v := range closing {
		rec.Closing[k] = v
	}
	return contracts.AnnotatedRecord{RawRecord: rec, Sector: sector}
}

func TestQualityGate_Check(t *testing.T) {
	// 02-01-2023 = Mon, 07-01-2023 = Sat
	dates := contracts.DateSet{Tokens: []string{"02-01-2023", "07-01-2023"}, Order: contracts.DateOrderLexical}

	table := &contracts.AnnotatedTable{Records: []contracts.AnnotatedRecord{
		record("A", "Tech",
			map[string]null.Float{"02-01-2023": null.FloatFrom(100), "07-01-2023": null.FloatFrom(100)},
			map[string]null.Float{"02-01-2023": null.FloatFrom(101), "07-01-2023": null.FloatFrom(99)}),
		record("B", contracts.FallbackSector,
			map[string]null.Float{"02-01-2023": null.FloatFrom(0)},
			map[string]null.Float{"02-01-2023": null.FloatFrom(5)}),
	}}

	gate := NewQualityGate(DefaultConfig())
	snapshot := gate.Check("dataset.csv", table, dates)
	require.NotNil(t, snapshot)

	assert.Equal(t, "dataset.csv", snapshot.Source)
	assert.Equal(t, 2, snapshot.TotalCompanies)
	assert.Equal(t, 1, snapshot.ValidCompanies, "B has no positive opening price")
	assert.Equal(t, 2, snapshot.TotalDates)

	assert.InDelta(t, 0.75, snapshot.Coverage[contracts.CoverageOpening], 1e-9)
	assert.InDelta(t, 0.75, snapshot.Coverage[contracts.CoverageClosing], 1e-9)
	assert.InDelta(t, 0.5, snapshot.Coverage[contracts.CoveragePair], 1e-9)
	assert.InDelta(t, 0.5, snapshot.Coverage[contracts.CoverageSector], 1e-9)
	assert.InDelta(t, 0.5, snapshot.Coverage[contracts.CoverageTradingDay], 1e-9)

	// 0.4*0.5 + 0.15*0.75 + 0.15*0.75 + 0.15*0.5 + 0.15*0.5
	assert.InDelta(t, 0.575, snapshot.QualityScore, 1e-9)
	assert.False(t, snapshot.Passed)
}

func TestQualityGate_CheckComplete(t *testing.T) {
	dates := contracts.DateSet{Tokens: []string{"02-01-2023"}}
	table := &contracts.AnnotatedTable{Records: []contracts.AnnotatedRecord{
		record("A", "Tech",
			map[string]null.Float{"02-01-2023": null.FloatFrom(100)},
			map[string]null.Float{"02-01-2023": null.FloatFrom(101)}),
	}}

	snapshot := NewQualityGate(DefaultConfig()).Check("x", table, dates)
	assert.InDelta(t, 1.0, snapshot.QualityScore, 1e-9)
	assert.True(t, snapshot.Passed)
}

func TestQualityGate_CheckEmpty(t *testing.T) {
	snapshot := NewQualityGate(DefaultConfig()).Check("x", &contracts.AnnotatedTable{}, contracts.DateSet{})

	assert.Equal(t, 0, snapshot.TotalCompanies)
	assert.Equal(t, 0.0, snapshot.QualityScore)
	assert.False(t, snapshot.Passed)
}
