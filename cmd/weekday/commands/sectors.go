package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var sectorsSource sourceFlags

// sectorsCmd prints the sector map summary
var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "섹터 매핑 요약 (섹터별 종목 수)",
	Long: `섹터 매핑을 로드하여 전체 종목 수와 섹터별 종목 수를 출력합니다.

Examples:
  go run ./cmd/weekday sectors
  go run ./cmd/weekday sectors --sectors-html sectors.html --sectors-selector "table.sector"`,
	RunE: runSectors,
}

func init() {
	rootCmd.AddCommand(sectorsCmd)
	addSourceFlags(sectorsCmd, &sectorsSource)
}

func runSectors(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	sectorsSource.apply(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	src, err := buildSources(ctx, cfg, &sectorsSource, log)
	if err != nil {
		PrintError("입력 준비 실패", err)
		return err
	}
	defer src.close()

	if src.sectors == nil {
		PrintWarning("no sector source configured, every company is Unknown")
		return nil
	}

	sectors, err := src.sectors.Sectors(ctx)
	if err != nil {
		PrintError("섹터 로드 실패", err)
		return err
	}
	if sectors == nil {
		PrintWarning("sector source not found, every company is Unknown")
		return nil
	}

	counts := make(map[string]int)
	for _, s := range sectors {
		counts[s]++
	}
	names := make([]string, 0, len(counts))
	for s := range counts {
		names = append(names, s)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Println("=== Sector Mapping ===")
	PrintKeyValue("Companies", fmt.Sprintf("%d", len(sectors)))
	PrintKeyValue("Sectors", fmt.Sprintf("%d", len(names)))
	PrintSeparator()
	widths := []int{24, 10}
	PrintTableHeader([]string{"Sector", "Companies"}, widths)
	for _, s := range names {
		PrintTableRow([]string{s, fmt.Sprintf("%d", counts[s])}, widths)
	}
	PrintSeparator()
	return nil
}
