package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/pipeline"
	"github.com/wonny/weekday-effect/internal/s3_aggregate"
	"github.com/wonny/weekday-effect/internal/s4_report"
)

var (
	analyzeSource    sourceFlags
	analyzeOut       string
	analyzeDateOrder string
	analyzeLatest    string
	analyzeTiers     []int
	analyzeNoCharts  bool
	analyzeExportCSV bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "요일 효과 분석 실행 (S0 → S4)",
	Long: `입력 테이블을 로드하여 요일별/섹터별/시가총액 구간별 수익률 통계를 계산합니다.

출력:
  - 콘솔: 요일별 통계, 섹터×요일 평균, 시가총액 구간, 전체 요약
  - 차트: weekday_returns.png, sector_weekday_heatmap.png, marketcap_returns.png,
          sector_overall.png, weekday_distribution.png, sector_volatility.png
  - CSV (--export-csv): returns.csv, weekday_stats.csv, sector_weekday.csv, marketcap_tiers.csv

Examples:
  go run ./cmd/weekday analyze
  go run ./cmd/weekday analyze --input prices.xlsx --sheet Prices
  go run ./cmd/weekday analyze --date-order chronological --latest chronological
  go run ./cmd/weekday analyze --source postgres --from 2024-01-01 --to 2024-12-31`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addSourceFlags(analyzeCmd, &analyzeSource)
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output directory for charts and CSV files")
	analyzeCmd.Flags().StringVar(&analyzeDateOrder, "date-order", "", "date token order (lexical|chronological)")
	analyzeCmd.Flags().StringVar(&analyzeLatest, "latest", "", "latest price column (schema|chronological)")
	analyzeCmd.Flags().IntSliceVar(&analyzeTiers, "tiers", nil, "market cap tier sizes (e.g. 10,50,100)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().BoolVar(&analyzeExportCSV, "export-csv", false, "write aggregate CSV files")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	analyzeSource.apply(cfg, changed)
	if changed("out") {
		cfg.Output.Dir = analyzeOut
	}
	if changed("date-order") {
		cfg.Analysis.DateOrder = analyzeDateOrder
	}
	if changed("latest") {
		cfg.Analysis.LatestPrice = analyzeLatest
	}
	if changed("tiers") {
		cfg.Analysis.TierSizes = analyzeTiers
	}
	if changed("export-csv") {
		cfg.Output.ExportCSV = analyzeExportCSV
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	src, err := buildSources(ctx, cfg, &analyzeSource, log)
	if err != nil {
		PrintError("입력 준비 실패", err)
		return err
	}
	defer src.close()

	PrintDoubleSeparator()
	fmt.Println("  Weekday Effect Analysis")
	PrintSeparator()
	PrintKeyValue("Source", src.label)
	PrintKeyValue("Date order", cfg.Analysis.DateOrder)
	PrintKeyValue("Latest price", cfg.Analysis.LatestPrice)
	PrintKeyValue("Output", cfg.Output.Dir)
	PrintDoubleSeparator()

	orch := pipeline.NewOrchestrator(src.table, src.sectors, log)
	result, err := orch.Run(ctx, pipeline.RunConfig{
		DateOrder:   contracts.DateOrder(cfg.Analysis.DateOrder),
		LatestPrice: s3_aggregate.LatestPrice(cfg.Analysis.LatestPrice),
		TierSizes:   cfg.Analysis.TierSizes,
		OutputDir:   cfg.Output.Dir,
		SkipCharts:  analyzeNoCharts,
		ExportCSV:   cfg.Output.ExportCSV,
	})
	if err != nil {
		PrintError("분석 실패", err)
		return err
	}

	fmt.Println(s4_report.RenderWeekday(result.Weekday))
	fmt.Println(s4_report.RenderSectorWeekday(result.SectorWeekday))
	fmt.Println(s4_report.RenderTiers(result.Tiers))
	fmt.Println(s4_report.RenderSummary(result.Summary, len(result.Table.Records), result.Dates.Len()))

	if q := result.Quality; q != nil {
		PrintKeyValue("Quality", fmt.Sprintf("%.2f (valid companies %d/%d)", q.QualityScore, q.ValidCompanies, q.TotalCompanies))
		if !q.Passed {
			PrintWarning("data quality below threshold, results may be unreliable")
		}
	}
	if result.Returns.Skipped > 0 {
		PrintWarning(fmt.Sprintf("%d (company, date) observations skipped", result.Returns.Skipped))
	}
	if len(result.Charts) > 0 {
		PrintList("Charts", result.Charts)
	}
	if len(result.Exports) > 0 {
		PrintList("Exports", result.Exports)
	}

	PrintSuccess(fmt.Sprintf("Run %s completed in %s", result.RunID, result.Duration.Round(time.Millisecond)))
	return nil
}
