package s4_report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wonny/weekday-effect/internal/contracts"
)

// Console styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// FormatValue prints a statistic with four decimals, NaN as "NaN"
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// newTable builds a bordered table with the shared styles
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + body + "\n"
}

// RenderWeekday renders the weekday statistics table
func RenderWeekday(t contracts.WeekdayTable) string {
	tbl := newTable("weekday", "mean", "median", "std", "count")
	for _, row := range t {
		tbl.Row(string(row.Weekday), FormatValue(row.Mean), FormatValue(row.Median), FormatValue(row.StdDev), strconv.Itoa(row.Count))
	}
	return section("=== 요일별 평균 수익률 (%) ===", tbl.String())
}

// RenderSectorWeekday renders the sector × weekday pivot
func RenderSectorWeekday(t *contracts.SectorWeekdayTable) string {
	headers := []string{"sector"}
	for _, w := range t.Weekdays {
		headers = append(headers, string(w))
	}

	tbl := newTable(headers...)
	for i, s := range t.Sectors {
		cells := []string{s}
		for _, v := range t.Means[i] {
			cells = append(cells, FormatValue(v))
		}
		tbl.Row(cells...)
	}
	return section("=== 섹터별 요일 평균 수익률 (%) ===", tbl.String())
}

// RenderTiers renders the market-cap tier statistics
func RenderTiers(tiers []contracts.TierStats) string {
	if len(tiers) == 0 {
		return section("=== 시가총액 구간별 평균 수익률 (%) ===", "(no tier qualified)")
	}

	tbl := newTable("tier", "mean", "median", "count")
	for _, tier := range tiers {
		tbl.Row(tier.Label, FormatValue(tier.Mean), FormatValue(tier.Median), strconv.Itoa(tier.Count))
	}
	return section("=== 시가총액 구간별 평균 수익률 (%) ===", tbl.String())
}

// RenderSummary renders the global statistics block
func RenderSummary(s contracts.Summary, companies, dates int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "분석 기간: %d일\n", dates)
	fmt.Fprintf(&b, "분석 기업 수: %d\n", companies)
	fmt.Fprintf(&b, "총 데이터 포인트 수: %d\n", s.Count)

	tbl := newTable("statistic", "value").
		Row("mean", FormatValue(s.Mean)).
		Row("median", FormatValue(s.Median)).
		Row("std", FormatValue(s.StdDev)).
		Row("max", FormatValue(s.Max)).
		Row("min", FormatValue(s.Min))
	b.WriteString(tbl.String())

	return section("=== 전체 통계 ===", b.String())
}
