package contracts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayTable_Get(t *testing.T) {
	table := WeekdayTable{
		{Weekday: Monday, Stats: Stats{Mean: 1.5, Count: 2}},
		{Weekday: Tuesday, Stats: Stats{Mean: math.NaN()}},
	}

	row, ok := table.Get(Monday)
	assert.True(t, ok)
	assert.Equal(t, 1.5, row.Mean)

	_, ok = table.Get(Friday)
	assert.False(t, ok)
}

func TestSectorWeekdayTable_Cell(t *testing.T) {
	table := &SectorWeekdayTable{
		Sectors:  []string{"Energy", "Tech"},
		Weekdays: TradingWeekdays,
		Means: [][]float64{
			{1, 2, 3, 4, 5},
			{-1, -2, -3, -4, -5},
		},
	}

	v, ok := table.Cell("Tech", Wednesday)
	assert.True(t, ok)
	assert.Equal(t, -3.0, v)

	_, ok = table.Cell("Retail", Monday)
	assert.False(t, ok)
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "Top 10", TierLabel(10))
	assert.Equal(t, "Top 100", TierLabel(100))
}
