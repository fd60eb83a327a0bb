package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ═══════════════════════════════════════════════════════════
// CLI 출력 헬퍼 (리포트 표는 s4_report, 여기는 상태/요약 줄)
// ═══════════════════════════════════════════════════════════

const (
	keyWidth  = 14
	lineWidth = 59
	cellGap   = "  "
)

var (
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	headStyle   = lipgloss.NewStyle().Bold(true)
	keyStyle    = lipgloss.NewStyle().Width(keyWidth)
	bulletStyle = lipgloss.NewStyle().PaddingLeft(3)
)

func PrintSeparator() {
	fmt.Println(strings.Repeat("─", lineWidth))
}

func PrintDoubleSeparator() {
	fmt.Println(strings.Repeat("═", lineWidth))
}

// PrintWarning prints a warning set apart by blank lines
func PrintWarning(message string) {
	fmt.Printf("\n%s\n\n", warnStyle.Render("⚠️  "+message))
}

func PrintSuccess(message string) {
	fmt.Println(okStyle.Render("✅ " + message))
}

// PrintError prints message, followed by the cause when err is non-nil
func PrintError(message string, err error) {
	if err != nil {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	fmt.Println(errStyle.Render("❌ " + message))
}

// PrintTableHeader prints bold column names and an underline spanning all widths
func PrintTableHeader(columns []string, widths []int) {
	fmt.Println(headStyle.Render(formatCells(columns, widths)))

	total := len(cellGap) * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	fmt.Println(strings.Repeat("─", max(total, 0)))
}

func PrintTableRow(values []string, widths []int) {
	fmt.Println(formatCells(values, widths))
}

// formatCells left-aligns each value to its column width
func formatCells(values []string, widths []int) string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = fmt.Sprintf("%-*s", widths[i], v)
	}
	return strings.Join(cells, cellGap)
}

func PrintList(title string, items []string) {
	fmt.Printf("%s:\n", title)
	for _, item := range items {
		fmt.Println(bulletStyle.Render("• " + item))
	}
}

func PrintKeyValue(key string, value string) {
	fmt.Printf("   %s : %s\n", keyStyle.Render(key), value)
}
