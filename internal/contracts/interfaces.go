package contracts

import "context"

// TableSource loads the wide price table (S0)
// ⭐ SSOT: S0 가격 테이블 로딩 인터페이스
type TableSource interface {
	Load(ctx context.Context) (*RawTable, error)
}

// SectorSource loads the company -> sector mapping (S0).
// A nil map with a nil error means the mapping is absent.
type SectorSource interface {
	Sectors(ctx context.Context) (SectorMap, error)
}
