package contracts

import "fmt"

// Stats is a mean/median/std summary of one group. Undefined values are NaN.
type Stats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Count  int     `json:"count"`
}

// WeekdayStats is one row of the weekday aggregate
type WeekdayStats struct {
	Weekday Weekday `json:"weekday"`
	Stats
}

// WeekdayTable holds exactly one row per trading weekday, Mon..Fri
type WeekdayTable []WeekdayStats

// Get returns the row for a weekday
func (t WeekdayTable) Get(w Weekday) (WeekdayStats, bool) {
	for _, row := range t {
		if row.Weekday == w {
			return row, true
		}
	}
	return WeekdayStats{}, false
}

// SectorWeekdayTable is the sector × weekday pivot of mean returns.
// Means[i][j] is the mean for Sectors[i] on Weekdays[j]; NaN when the cell is empty.
type SectorWeekdayTable struct {
	Sectors  []string
	Weekdays []Weekday
	Means    [][]float64
}

// Cell returns the mean for a sector/weekday pair
func (t *SectorWeekdayTable) Cell(sector string, w Weekday) (float64, bool) {
	for i, s := range t.Sectors {
		if s != sector {
			continue
		}
		for j, d := range t.Weekdays {
			if d == w {
				return t.Means[i][j], true
			}
		}
	}
	return 0, false
}

// TierStats is the return summary of the top-N companies by latest price
type TierStats struct {
	Label     string   `json:"label"`
	Size      int      `json:"size"`
	Mean      float64  `json:"mean"`
	Median    float64  `json:"median"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}

// TierLabel formats a tier size as "Top N"
func TierLabel(size int) string {
	return fmt.Sprintf("Top %d", size)
}

// SectorValue is a single per-sector metric used by the sorted sector charts
type SectorValue struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
}

// Summary is the global statistics block printed at the end of a run
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
	Count  int     `json:"count"`
}
