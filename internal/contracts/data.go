package contracts

// Coverage keys of a DataQualitySnapshot
const (
	CoverageOpening    = "opening"
	CoverageClosing    = "closing"
	CoveragePair       = "pair"
	CoverageSector     = "sector"
	CoverageTradingDay = "trading_day"
)

// DataQualitySnapshot summarises how complete the prepared table is
// ⭐ SSOT: S1 → S2 데이터 품질 정보 전달 (경고용, 치명적이지 않음)
type DataQualitySnapshot struct {
	Source         string             `json:"source"`
	TotalCompanies int                `json:"total_companies"`
	ValidCompanies int                `json:"valid_companies"` // 유효한 시가/종가 쌍이 1개 이상
	TotalDates     int                `json:"total_dates"`
	Coverage       map[string]float64 `json:"coverage"`      // 항목별 커버리지
	QualityScore   float64            `json:"quality_score"` // 0.0 ~ 1.0
	Passed         bool               `json:"passed"`
}

// IsValid checks if the snapshot meets a minimum score
func (d *DataQualitySnapshot) IsValid(minScore float64) bool {
	return d.QualityScore >= minScore && d.ValidCompanies > 0
}

// CoverageRate returns the average coverage rate across all items
func (d *DataQualitySnapshot) CoverageRate() float64 {
	if len(d.Coverage) == 0 {
		return 0.0
	}

	total := 0.0
	for _, rate := range d.Coverage {
		total += rate
	}

	return total / float64(len(d.Coverage))
}
