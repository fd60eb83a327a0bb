package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 에러 래핑에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4
//   Load  Prepare  Returns  Aggregate  Report

// Stage represents a pipeline stage
type Stage string

const (
	// StageLoad S0: 입력 테이블 탐색/로드, 섹터 매핑 로드
	// 위치: internal/s0_data/
	StageLoad Stage = "S0_LOAD"

	// StagePrepare S1: 섹터 부여, 거래일(DateSet) 추출
	// 위치: internal/s1_prepare/
	StagePrepare Stage = "S1_PREPARE"

	// StageReturns S2: 종목/일자별 수익률 계산 (long-form)
	// 위치: internal/s2_returns/
	StageReturns Stage = "S2_RETURNS"

	// StageAggregate S3: 요일별, 섹터×요일, 시가총액 구간별 집계
	// 위치: internal/s3_aggregate/
	StageAggregate Stage = "S3_AGGREGATE"

	// StageReport S4: 차트, 콘솔 요약, CSV 내보내기
	// 위치: internal/s4_report/
	StageReport Stage = "S4_REPORT"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageLoad:
		return "S0"
	case StagePrepare:
		return "S1"
	case StageReturns:
		return "S2"
	case StageAggregate:
		return "S3"
	case StageReport:
		return "S4"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StageLoad:
		return "데이터 로드"
	case StagePrepare:
		return "데이터 전처리"
	case StageReturns:
		return "일별 수익률 계산"
	case StageAggregate:
		return "그룹별 집계"
	case StageReport:
		return "시각화/리포트"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageLoad,
		StagePrepare,
		StageReturns,
		StageAggregate,
		StageReport,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult records the outcome of one stage for the run summary
type StageResult struct {
	Stage       Stage  `json:"stage"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Duration    int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
