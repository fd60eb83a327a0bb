package s0_data

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// PriceRow is one (stock, trading day) row of data.daily_prices joined with data.stocks
type PriceRow struct {
	Code   string
	Name   string
	Sector string
	Date   time.Time
	Open   *int64
	Close  *int64
}

// PostgresSource implements contracts.TableSource and contracts.SectorSource
// on top of the data.stocks / data.daily_prices tables.
// ⭐ SSOT: DB 가격 데이터를 wide 테이블로 변환하는 곳은 여기뿐
type PostgresSource struct {
	pool *pgxpool.Pool
	from time.Time
	to   time.Time
	log  *logger.Logger

	rows []PriceRow // fetched once, shared by Load and Sectors
}

// NewPostgresSource creates a postgres-backed source for [from, to]
func NewPostgresSource(pool *pgxpool.Pool, from, to time.Time, log *logger.Logger) *PostgresSource {
	if log == nil {
		log = logger.Nop()
	}
	return &PostgresSource{pool: pool, from: from, to: to, log: log}
}

// Load pivots daily prices into the wide table layout
func (s *PostgresSource) Load(ctx context.Context) (*contracts.RawTable, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	table := PivotPrices(rows)
	table.Source = fmt.Sprintf("postgres:%s..%s", s.from.Format("2006-01-02"), s.to.Format("2006-01-02"))

	s.log.WithFields(map[string]interface{}{
		"source":    table.Source,
		"rows":      len(rows),
		"companies": len(table.Records),
	}).Info("table loaded")

	return table, nil
}

// Sectors returns the stocks.sector column as a SectorMap.
// Empty sectors are left out so they fall back to "Unknown".
func (s *PostgresSource) Sectors(ctx context.Context) (contracts.SectorMap, error) {
	rows, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	names := companyNames(rows)
	sectors := make(contracts.SectorMap)
	for _, r := range rows {
		if r.Sector == "" {
			continue
		}
		if _, ok := sectors[names[r.Code]]; !ok {
			sectors[names[r.Code]] = r.Sector
		}
	}
	return sectors, nil
}

func (s *PostgresSource) fetch(ctx context.Context) ([]PriceRow, error) {
	if s.rows != nil {
		return s.rows, nil
	}

	query := `
		SELECT
			dp.stock_code,
			COALESCE(s.name, dp.stock_code) as name,
			COALESCE(s.sector, '') as sector,
			dp.trade_date,
			dp.open_price,
			dp.close_price
		FROM data.daily_prices dp
		LEFT JOIN data.stocks s ON dp.stock_code = s.code
		WHERE dp.trade_date BETWEEN $1 AND $2
		ORDER BY dp.stock_code, dp.trade_date ASC
	`

	rows, err := s.pool.Query(ctx, query, s.from, s.to)
	if err != nil {
		return nil, fmt.Errorf("query daily prices: %w", err)
	}
	defer rows.Close()

	var prices []PriceRow
	for rows.Next() {
		var p PriceRow
		if err := rows.Scan(&p.Code, &p.Name, &p.Sector, &p.Date, &p.Open, &p.Close); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prices: %w", err)
	}

	s.rows = prices
	return prices, nil
}

// PivotPrices turns long (stock, date) rows into the wide table.
// Rows must be ordered by stock; date columns follow trading-date order.
func PivotPrices(rows []PriceRow) *contracts.RawTable {
	schema := contracts.DefaultSchema()

	var dates []time.Time
	seenDate := make(map[time.Time]bool)
	for _, r := range rows {
		d := r.Date.UTC().Truncate(24 * time.Hour)
		if !seenDate[d] {
			seenDate[d] = true
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	columns := []string{schema.CompanyColumn}
	for _, d := range dates {
		token := d.Format(contracts.TokenWriteLayout)
		columns = append(columns, schema.OpeningColumn(token), schema.ClosingColumn(token))
	}

	table := &contracts.RawTable{Columns: columns, Schema: schema}
	names := companyNames(rows)
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Code]
		if !ok {
			i = len(table.Records)
			index[r.Code] = i
			table.Records = append(table.Records, contracts.NewRawRecord(names[r.Code]))
		}
		token := r.Date.UTC().Format(contracts.TokenWriteLayout)
		table.Records[i].Opening[token] = priceCell(r.Open)
		table.Records[i].Closing[token] = priceCell(r.Close)
	}

	return table
}

// companyNames maps stock code to a unique company name.
// 동일 종목명이 여러 코드에 있으면 코드를 붙여 company_name 유일성 유지
func companyNames(rows []PriceRow) map[string]string {
	names := make(map[string]string)
	used := make(map[string]bool)
	for _, r := range rows {
		if _, ok := names[r.Code]; ok {
			continue
		}
		name := r.Name
		if used[name] {
			name = fmt.Sprintf("%s (%s)", r.Name, r.Code)
		}
		used[name] = true
		names[r.Code] = name
	}
	return names
}

// priceCell converts a nullable won price into a cell
func priceCell(v *int64) null.Float {
	if v == nil {
		return null.Float{}
	}
	// int64 -> float64 변환 (가격은 원 단위)
	return null.FloatFrom(float64(*v))
}
