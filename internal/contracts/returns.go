package contracts

import "time"

// TokenDateLayout is the day-month-year layout of date tokens.
// Single-digit day/month are accepted on read (e.g. "5-1-2023").
const TokenDateLayout = "2-1-2006"

// TokenWriteLayout is the canonical token format produced by loaders
const TokenWriteLayout = "02-01-2006"

// ParseToken parses a DD-MM-YYYY date token
func ParseToken(token string) (time.Time, error) {
	return time.Parse(TokenDateLayout, token)
}

// Weekday is a three-letter weekday abbreviation
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// TradingWeekdays is the fixed reporting order of every weekday-keyed aggregate
var TradingWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// WeekdayOf maps a calendar weekday to its abbreviation
func WeekdayOf(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// IsTradingDay reports whether w is Mon..Fri
func (w Weekday) IsTradingDay() bool {
	for _, t := range TradingWeekdays {
		if w == t {
			return true
		}
	}
	return false
}

// IsKnown reports whether w is one of the seven weekday labels
func (w Weekday) IsKnown() bool {
	return w.IsTradingDay() || w == Saturday || w == Sunday
}

// ReturnObservation is one (company, date) daily return in percent
type ReturnObservation struct {
	Company     string
	Sector      string
	Token       string
	Date        time.Time
	Weekday     Weekday
	DailyReturn float64
}

// ReturnsTable is the long-form output of S2 and the sole input of every aggregator.
// Skipped counts (company, date) pairs that produced no observation.
type ReturnsTable struct {
	Observations []ReturnObservation
	Skipped      int
}

// Len returns the number of observations
func (t *ReturnsTable) Len() int { return len(t.Observations) }

// Values returns all daily returns in table order
func (t *ReturnsTable) Values() []float64 {
	values := make([]float64, len(t.Observations))
	for i, o := range t.Observations {
		values[i] = o.DailyReturn
	}
	return values
}
