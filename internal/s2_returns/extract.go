package s2_returns

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// Options controls return extraction
type Options struct {
	Logger *logger.Logger
}

// Extract computes one intraday return per (company, date) with usable prices.
// Output order is row-major: records in table order, then dates in DateSet order.
// ⭐ SSOT: S1 → S2 일별 수익률 계산은 여기서만
func Extract(table *contracts.AnnotatedTable, dates contracts.DateSet, opts Options) *contracts.ReturnsTable {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	rt := &contracts.ReturnsTable{
		Observations: make([]contracts.ReturnObservation, 0, len(table.Records)*dates.Len()),
	}

	for _, rec := range table.Records {
		for _, token := range dates.Tokens {
			obs, err := observe(rec, token)
			if err != nil {
				rt.Skipped++
				log.Debug(err.Error())
				continue
			}
			rt.Observations = append(rt.Observations, obs)
		}
	}

	log.WithFields(map[string]interface{}{
		"observations": rt.Len(),
		"skipped":      rt.Skipped,
	}).Info("returns extracted")

	return rt
}

// observe builds a single observation or explains why the pair is skipped
func observe(rec contracts.AnnotatedRecord, token string) (contracts.ReturnObservation, error) {
	skip := func(reason string) (contracts.ReturnObservation, error) {
		return contracts.ReturnObservation{}, &contracts.MalformedRowError{
			Company: rec.CompanyName,
			Token:   token,
			Reason:  reason,
		}
	}

	opening := rec.OpeningAt(token)
	closing := rec.ClosingAt(token)
	if !opening.Valid {
		return skip("opening price missing")
	}
	if !closing.Valid {
		return skip("closing price missing")
	}
	if opening.Float64 <= 0 {
		return skip("opening price not positive")
	}

	date, err := contracts.ParseToken(token)
	if err != nil {
		return skip("date token not DD-MM-YYYY")
	}

	return contracts.ReturnObservation{
		Company:     rec.CompanyName,
		Sector:      rec.Sector,
		Token:       token,
		Date:        date,
		Weekday:     contracts.WeekdayOf(date.Weekday()),
		DailyReturn: DailyReturn(opening.Float64, closing.Float64),
	}, nil
}

// DailyReturn returns (closing - opening) / opening * 100.
// Decimal arithmetic keeps round inputs exact (100 -> 105 is 5, not 5.000000000000001).
func DailyReturn(opening, closing float64) float64 {
	o := decimal.NewFromFloat(opening)
	c := decimal.NewFromFloat(closing)

	ret, _ := c.Sub(o).Mul(hundred).Div(o).Float64()
	return ret
}
