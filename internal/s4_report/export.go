package s4_report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wonny/weekday-effect/internal/contracts"
)

// Export file names
const (
	ExportReturns       = "returns.csv"
	ExportWeekdayStats  = "weekday_stats.csv"
	ExportSectorWeekday = "sector_weekday.csv"
	ExportTiers         = "marketcap_tiers.csv"
)

// ExportCSV writes the long-form returns and every aggregate table into dir.
// Returns the written paths.
func ExportCSV(dir string, rt *contracts.ReturnsTable, r Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	files := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{ExportReturns, []string{"company_name", "sector", "date", "weekday", "daily_return"}, returnRows(rt)},
		{ExportWeekdayStats, []string{"weekday", "mean", "median", "std", "count"}, weekdayRows(r.Weekday)},
		{ExportSectorWeekday, sectorWeekdayHeader(r.SectorWeekday), sectorWeekdayRows(r.SectorWeekday)},
		{ExportTiers, []string{"tier", "mean", "median", "count", "companies"}, tierRows(r.Tiers)},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.header, f.rows); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows %s: %w", path, err)
	}
	return nil
}

// exportValue keeps full precision; NaN is written as an empty cell
func exportValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func returnRows(rt *contracts.ReturnsTable) [][]string {
	if rt == nil {
		return nil
	}
	rows := make([][]string, 0, rt.Len())
	for _, o := range rt.Observations {
		rows = append(rows, []string{o.Company, o.Sector, o.Token, string(o.Weekday), exportValue(o.DailyReturn)})
	}
	return rows
}

func weekdayRows(t contracts.WeekdayTable) [][]string {
	rows := make([][]string, 0, len(t))
	for _, row := range t {
		rows = append(rows, []string{
			string(row.Weekday),
			exportValue(row.Mean),
			exportValue(row.Median),
			exportValue(row.StdDev),
			strconv.Itoa(row.Count),
		})
	}
	return rows
}

func sectorWeekdayHeader(t *contracts.SectorWeekdayTable) []string {
	header := []string{"sector"}
	weekdays := contracts.TradingWeekdays
	if t != nil {
		weekdays = t.Weekdays
	}
	for _, w := range weekdays {
		header = append(header, string(w))
	}
	return header
}

func sectorWeekdayRows(t *contracts.SectorWeekdayTable) [][]string {
	if t == nil {
		return nil
	}
	rows := make([][]string, 0, len(t.Sectors))
	for i, s := range t.Sectors {
		row := []string{s}
		for _, v := range t.Means[i] {
			row = append(row, exportValue(v))
		}
		rows = append(rows, row)
	}
	return rows
}

func tierRows(tiers []contracts.TierStats) [][]string {
	rows := make([][]string, 0, len(tiers))
	for _, tier := range tiers {
		rows = append(rows, []string{
			tier.Label,
			exportValue(tier.Mean),
			exportValue(tier.Median),
			strconv.Itoa(tier.Count),
			strings.Join(tier.Companies, ";"),
		})
	}
	return rows
}
