package s3_aggregate

import (
	"math"
	"sort"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/stats"
)

// BySectorWeekday builds the sector × weekday pivot of mean returns.
// Rows are sectors in ascending order, columns Mon..Fri. Empty cells are NaN.
// Weekend observations are dropped; an unknown weekday label is an error.
func BySectorWeekday(rt *contracts.ReturnsTable) (*contracts.SectorWeekdayTable, error) {
	col := make(map[contracts.Weekday]int, len(contracts.TradingWeekdays))
	for j, w := range contracts.TradingWeekdays {
		col[w] = j
	}

	cells := make(map[string][][]float64)
	for _, o := range rt.Observations {
		if !o.Weekday.IsKnown() {
			return nil, &contracts.IncompleteGroupError{Sector: o.Sector, Weekday: o.Weekday}
		}
		row, ok := cells[o.Sector]
		if !ok {
			row = make([][]float64, len(contracts.TradingWeekdays))
			cells[o.Sector] = row
		}
		// 주말 관측치는 섹터 행만 만들고 값은 버림
		j, ok := col[o.Weekday]
		if !ok {
			continue
		}
		row[j] = append(row[j], o.DailyReturn)
	}

	sectors := make([]string, 0, len(cells))
	for s := range cells {
		sectors = append(sectors, s)
	}
	sort.Strings(sectors)

	table := &contracts.SectorWeekdayTable{
		Sectors:  sectors,
		Weekdays: append([]contracts.Weekday(nil), contracts.TradingWeekdays...),
		Means:    make([][]float64, len(sectors)),
	}
	for i, s := range sectors {
		table.Means[i] = make([]float64, len(contracts.TradingWeekdays))
		for j, values := range cells[s] {
			table.Means[i][j] = stats.Mean(values)
		}
	}

	return table, nil
}

// SectorOverall averages each sector's weekday means (NaN cells ignored), ascending
func SectorOverall(sw *contracts.SectorWeekdayTable) []contracts.SectorValue {
	out := make([]contracts.SectorValue, len(sw.Sectors))
	for i, s := range sw.Sectors {
		out[i] = contracts.SectorValue{Sector: s, Value: stats.Mean(stats.NonNaN(sw.Means[i]))}
	}
	sortAscending(out)
	return out
}

// SectorVolatility is the sample std of all observations per sector, ascending.
// Weekend observations count; sectors with a single observation are NaN and sort last.
func SectorVolatility(rt *contracts.ReturnsTable) []contracts.SectorValue {
	groups := make(map[string][]float64)
	for _, o := range rt.Observations {
		groups[o.Sector] = append(groups[o.Sector], o.DailyReturn)
	}

	out := make([]contracts.SectorValue, 0, len(groups))
	for s, values := range groups {
		out = append(out, contracts.SectorValue{Sector: s, Value: stats.StdDev(values)})
	}
	sortAscending(out)
	return out
}

// sortAscending orders by value, NaN last, ties by sector name
func sortAscending(values []contracts.SectorValue) {
	sort.SliceStable(values, func(i, j int) bool {
		a, b := values[i], values[j]
		aNaN, bNaN := math.IsNaN(a.Value), math.IsNaN(b.Value)
		switch {
		case aNaN && bNaN:
			return a.Sector < b.Sector
		case aNaN:
			return false
		case bNaN:
			return true
		case a.Value == b.Value:
			return a.Sector < b.Sector
		default:
			return a.Value < b.Value
		}
	})
}
