package s3_aggregate

import (
	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/stats"
)

// ByWeekday summarizes returns per trading weekday.
// Always five rows Mon..Fri; a weekday without observations has NaN stats and Count 0.
// Weekend observations are left out.
func ByWeekday(rt *contracts.ReturnsTable) contracts.WeekdayTable {
	groups := WeekdayDistribution(rt)

	table := make(contracts.WeekdayTable, 0, len(contracts.TradingWeekdays))
	for _, w := range contracts.TradingWeekdays {
		table = append(table, contracts.WeekdayStats{
			Weekday: w,
			Stats:   describe(groups[w]),
		})
	}
	return table
}

// WeekdayDistribution groups daily returns by trading weekday, keeping table order.
// Every trading weekday has an entry, possibly empty.
func WeekdayDistribution(rt *contracts.ReturnsTable) map[contracts.Weekday][]float64 {
	groups := make(map[contracts.Weekday][]float64, len(contracts.TradingWeekdays))
	for _, w := range contracts.TradingWeekdays {
		groups[w] = []float64{}
	}
	for _, o := range rt.Observations {
		if !o.Weekday.IsTradingDay() {
			continue
		}
		groups[o.Weekday] = append(groups[o.Weekday], o.DailyReturn)
	}
	return groups
}

// describe computes mean/median/std/count of a group
func describe(values []float64) contracts.Stats {
	return contracts.Stats{
		Mean:   stats.Mean(values),
		Median: stats.Median(values),
		StdDev: stats.StdDev(values),
		Count:  len(values),
	}
}
