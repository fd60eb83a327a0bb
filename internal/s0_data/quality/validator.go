package quality

import (
	"github.com/wonny/weekday-effect/internal/contracts"
)

// QualityGate measures how complete a prepared table is
type QualityGate struct {
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinScore float64 `yaml:"min_score"` // 0.7
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{MinScore: 0.7}
}

// 가중치 (합계 = 1.0)
var weights = map[string]float64{
	contracts.CoveragePair:       0.40, // 수익률 계산 가능한 시가/종가 쌍
	contracts.CoverageOpening:    0.15,
	contracts.CoverageClosing:    0.15,
	contracts.CoverageSector:     0.15, // Unknown 이외 섹터
	contracts.CoverageTradingDay: 0.15, // 평일 날짜 토큰
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config) *QualityGate {
	return &QualityGate{config: config}
}

// Check computes the coverage snapshot of a prepared table
// ⭐ SSOT: S1 → S2 품질 검증 (경고만, 실행은 계속)
func (g *QualityGate) Check(source string, table *contracts.AnnotatedTable, dates contracts.DateSet) *contracts.DataQualitySnapshot {
	snapshot := &contracts.DataQualitySnapshot{
		Source:         source,
		TotalCompanies: len(table.Records),
		TotalDates:     dates.Len(),
		Coverage:       make(map[string]float64),
	}

	// 1. 종목×날짜 셀 커버리지
	var opening, closing, pairs int
	for _, rec := range table.Records {
		valid := false
		for _, token := range dates.Tokens {
			o := rec.OpeningAt(token)
			c := rec.ClosingAt(token)
			if o.Valid {
				opening++
			}
			if c.Valid {
				closing++
			}
			if o.Valid && c.Valid && o.Float64 > 0 {
				pairs++
				valid = true
			}
		}
		if valid {
			snapshot.ValidCompanies++
		}
	}

	cells := len(table.Records) * dates.Len()
	snapshot.Coverage[contracts.CoverageOpening] = ratio(opening, cells)
	snapshot.Coverage[contracts.CoverageClosing] = ratio(closing, cells)
	snapshot.Coverage[contracts.CoveragePair] = ratio(pairs, cells)

	// 2. 섹터 커버리지
	known := 0
	for _, rec := range table.Records {
		if rec.Sector != contracts.FallbackSector {
			known++
		}
	}
	snapshot.Coverage[contracts.CoverageSector] = ratio(known, len(table.Records))

	// 3. 평일 날짜 비율
	weekdays := 0
	for _, token := range dates.Tokens {
		d, err := contracts.ParseToken(token)
		if err != nil {
			continue
		}
		if contracts.WeekdayOf(d.Weekday()).IsTradingDay() {
			weekdays++
		}
	}
	snapshot.Coverage[contracts.CoverageTradingDay] = ratio(weekdays, dates.Len())

	// 4. 품질 점수
	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = snapshot.IsValid(g.config.MinScore)

	return snapshot
}

// calculateScore calculates overall quality score using weighted average
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}
	return score
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
