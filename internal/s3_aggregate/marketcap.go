package s3_aggregate

import (
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/stats"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// LatestPrice selects which closing column stands in for market size
type LatestPrice string

const (
	// LatestPriceSchema uses the last closing column in header order
	LatestPriceSchema LatestPrice = "schema"
	// LatestPriceChronological uses the chronologically last date of the DateSet
	LatestPriceChronological LatestPrice = "chronological"
)

// DefaultTierSizes are the "Top N" cut-offs
var DefaultTierSizes = []int{10, 50, 100}

// MarketCapOptions controls the market-cap tier aggregation
type MarketCapOptions struct {
	TierSizes   []int
	LatestPrice LatestPrice
	Logger      *logger.Logger
}

// RankedCompany is a company with its size proxy
type RankedCompany struct {
	Company string
	Price   null.Float
}

// ByMarketCap summarizes returns of the top-N companies by latest closing price.
// Tiers larger than the company count (or not positive) are skipped.
func ByMarketCap(table *contracts.AnnotatedTable, dates contracts.DateSet, rt *contracts.ReturnsTable, opts MarketCapOptions) []contracts.TierStats {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	sizes := opts.TierSizes
	if sizes == nil {
		sizes = DefaultTierSizes
	}

	ranked := RankByLatestPrice(table, dates, opts.LatestPrice)

	byCompany := make(map[string][]float64)
	for _, o := range rt.Observations {
		byCompany[o.Company] = append(byCompany[o.Company], o.DailyReturn)
	}

	var tiers []contracts.TierStats
	for _, n := range sizes {
		if n <= 0 || n > len(ranked) {
			log.WithFields(map[string]interface{}{
				"tier":      n,
				"companies": len(ranked),
			}).Warn("tier size out of range, skipped")
			continue
		}

		companies := make([]string, n)
		var values []float64
		for i := 0; i < n; i++ {
			companies[i] = ranked[i].Company
			values = append(values, byCompany[ranked[i].Company]...)
		}

		tiers = append(tiers, contracts.TierStats{
			Label:     contracts.TierLabel(n),
			Size:      n,
			Mean:      stats.Mean(values),
			Median:    stats.Median(values),
			Count:     len(values),
			Companies: companies,
		})
	}

	return tiers
}

// RankByLatestPrice orders companies by latest closing price, descending.
// Companies without a price come last; ties keep table order.
func RankByLatestPrice(table *contracts.AnnotatedTable, dates contracts.DateSet, mode LatestPrice) []RankedCompany {
	token, ok := latestToken(table, dates, mode)

	ranked := make([]RankedCompany, len(table.Records))
	for i, rec := range table.Records {
		ranked[i] = RankedCompany{Company: rec.CompanyName}
		if ok {
			ranked[i].Price = rec.ClosingAt(token)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Price, ranked[j].Price
		switch {
		case !a.Valid:
			return false
		case !b.Valid:
			return true
		default:
			return a.Float64 > b.Float64
		}
	})
	return ranked
}

// latestToken returns the date token whose closing price is the size proxy
func latestToken(table *contracts.AnnotatedTable, dates contracts.DateSet, mode LatestPrice) (string, bool) {
	if mode == LatestPriceChronological {
		var (
			best  string
			bestT time.Time
			found bool
		)
		for _, token := range dates.Tokens {
			t, err := contracts.ParseToken(token)
			if err != nil {
				continue
			}
			if !found || t.After(bestT) {
				best, bestT, found = token, t, true
			}
		}
		return best, found
	}

	// 원본 동작: 헤더 순서상 마지막 closing 컬럼
	schema := table.Schema.WithDefaults()
	for i := len(table.Columns) - 1; i >= 0; i-- {
		if token, isOpening, ok := schema.SplitColumn(table.Columns[i]); ok && !isOpening {
			return token, true
		}
	}
	return "", false
}
