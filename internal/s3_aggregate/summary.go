package s3_aggregate

import (
	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/stats"
)

// Summarize computes the global statistics over every observation, weekends included
func Summarize(rt *contracts.ReturnsTable) contracts.Summary {
	values := rt.Values()
	return contracts.Summary{
		Mean:   stats.Mean(values),
		Median: stats.Median(values),
		StdDev: stats.StdDev(values),
		Max:    stats.Max(values),
		Min:    stats.Min(values),
		Count:  len(values),
	}
}
