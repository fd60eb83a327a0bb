package pipeline

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/s0_data"
	"github.com/wonny/weekday-effect/internal/s0_data/sector"
	"github.com/wonny/weekday-effect/internal/s3_aggregate"
)

// 02-01-2023 Mon, 03-01-2023 Tue, 07-01-2023 Sat
// A: +2, -1, +0.5   B: null, +3, +1
const scenarioCSV = `company_name,02-01-2023_opening,02-01-2023_closing,03-01-2023_opening,03-01-2023_closing,07-01-2023_opening,07-01-2023_closing
A,100,102,100,99,100,100.5
B,,50,100,103,100,101
`

func writeScenario(t *testing.T, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "dataset.csv")
	sectorPath := filepath.Join(dir, "sector_mapping.txt")
	require.NoError(t, os.WriteFile(tablePath, []byte(content), 0o644))
	require.NoError(t, os.WriteFile(sectorPath, []byte("# company|sector\nA|Tech\n"), 0o644))
	return tablePath, sectorPath
}

func newScenario(t *testing.T, content string) *Orchestrator {
	tablePath, sectorPath := writeScenario(t, content)
	return NewOrchestrator(
		s0_data.NewFileSource(tablePath, s0_data.LoadOptions{}),
		&sector.FileSource{Path: sectorPath},
		nil,
	)
}

func TestRun_Scenario(t *testing.T) {
	o := newScenario(t, scenarioCSV)

	result, err := o.Run(context.Background(), RunConfig{
		TierSizes:  []int{1, 2, 10},
		SkipCharts: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Len(t, result.CompletedStages, 5)
	assert.Equal(t, []string{"02-01-2023", "03-01-2023", "07-01-2023"}, result.Dates.Tokens)

	require.NotNil(t, result.Quality)
	assert.Equal(t, 2, result.Quality.ValidCompanies)
	assert.Equal(t, 3, result.Quality.TotalDates)
	assert.InDelta(t, 5.0/6.0, result.Quality.Coverage[contracts.CoveragePair], 1e-9)

	// five observations, weekend kept, one skipped
	assert.Equal(t, 5, result.Returns.Len())
	assert.Equal(t, 1, result.Returns.Skipped)

	mon, _ := result.Weekday.Get(contracts.Monday)
	assert.Equal(t, 2.0, mon.Mean)
	assert.Equal(t, 1, mon.Count)

	tue, _ := result.Weekday.Get(contracts.Tuesday)
	assert.Equal(t, 1.0, tue.Mean)
	assert.Equal(t, 2, tue.Count)

	for _, w := range []contracts.Weekday{contracts.Wednesday, contracts.Thursday, contracts.Friday} {
		row, ok := result.Weekday.Get(w)
		require.True(t, ok)
		assert.Equal(t, 0, row.Count)
		assert.True(t, math.IsNaN(row.Mean))
	}

	// sector fallback
	assert.Equal(t, []string{"Tech", "Unknown"}, result.SectorWeekday.Sectors)
	v, _ := result.SectorWeekday.Cell("Unknown", contracts.Tuesday)
	assert.Equal(t, 3.0, v)

	// B has the larger latest closing price (101 vs 100.5)
	require.Len(t, result.Tiers, 2)
	assert.Equal(t, []string{"B"}, result.Tiers[0].Companies)
	assert.Equal(t, 2.0, result.Tiers[0].Mean)
	assert.Equal(t, 5, result.Tiers[1].Count)

	assert.Equal(t, 5, result.Summary.Count)
	assert.Equal(t, 3.0, result.Summary.Max)
	assert.Equal(t, -1.0, result.Summary.Min)

	assert.Empty(t, result.Charts)
}

func TestRun_Idempotent(t *testing.T) {
	o := newScenario(t, scenarioCSV)
	cfg := RunConfig{RunID: "fixed", TierSizes: []int{1, 2}, SkipCharts: true}

	first, err := o.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := o.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Returns, second.Returns)
	assert.Equal(t, first.Tiers, second.Tiers)
	require.Equal(t, len(first.Weekday), len(second.Weekday))
	for i := range first.Weekday {
		assert.Equal(t, math.Float64bits(first.Weekday[i].Mean), math.Float64bits(second.Weekday[i].Mean))
		assert.Equal(t, math.Float64bits(first.Weekday[i].StdDev), math.Float64bits(second.Weekday[i].StdDev))
	}
}

func TestRun_ChronologicalModes(t *testing.T) {
	// header order differs from calendar order
	content := `company_name,01-02-2023_opening,01-02-2023_closing,31-01-2023_opening,31-01-2023_closing
Small,10,100,1,1
Big,10,5,50,50
`
	o := newScenario(t, content)

	result, err := o.Run(context.Background(), RunConfig{
		DateOrder:   contracts.DateOrderChronological,
		LatestPrice: s3_aggregate.LatestPriceChronological,
		TierSizes:   []int{1},
		SkipCharts:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"31-01-2023", "01-02-2023"}, result.Dates.Tokens)
	assert.Equal(t, []string{"Small"}, result.Tiers[0].Companies)
}

func TestRun_WritesChartsAndExports(t *testing.T) {
	o := newScenario(t, scenarioCSV)
	out := filepath.Join(t.TempDir(), "report")

	result, err := o.Run(context.Background(), RunConfig{
		TierSizes: []int{1, 2},
		OutputDir: out,
		ExportCSV: true,
	})
	require.NoError(t, err)

	assert.Len(t, result.Charts, 6)
	assert.Len(t, result.Exports, 4)
	for _, path := range append(result.Charts, result.Exports...) {
		assert.FileExists(t, path)
	}
}

func TestRun_FatalErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		target    error
		wantStage contracts.Stage
	}{
		{
			name:      "missing company column",
			content:   "ticker,02-01-2023_opening,02-01-2023_closing\nA,1,2\n",
			target:    contracts.ErrMissingColumn,
			wantStage: contracts.StageLoad,
		},
		{
			name:      "no complete date",
			content:   "company_name,02-01-2023_opening\nA,1\n",
			target:    contracts.ErrMissingColumn,
			wantStage: contracts.StagePrepare,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newScenario(t, tt.content)

			result, err := o.Run(context.Background(), RunConfig{SkipCharts: true})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			assert.True(t, strings.HasPrefix(err.Error(), string(tt.wantStage)))

			last := result.Stages[len(result.Stages)-1]
			assert.Equal(t, tt.wantStage, last.Stage)
			assert.NotEmpty(t, last.Error)
		})
	}
}

func TestRun_MissingInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	o := NewOrchestrator(s0_data.NewFileSource(path, s0_data.LoadOptions{}), nil, nil)

	_, err := o.Run(context.Background(), RunConfig{SkipCharts: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(contracts.StageLoad))
}

func TestRun_Cancelled(t *testing.T) {
	o := newScenario(t, scenarioCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx, RunConfig{SkipCharts: true})
	assert.ErrorIs(t, err, context.Canceled)
}
