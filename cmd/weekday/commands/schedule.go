package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/pipeline"
	"github.com/wonny/weekday-effect/internal/s3_aggregate"
	"github.com/wonny/weekday-effect/internal/scheduler"
	"github.com/wonny/weekday-effect/internal/scheduler/jobs"
	"github.com/wonny/weekday-effect/pkg/config"
	"github.com/wonny/weekday-effect/pkg/logger"
)

var (
	scheduleSource sourceFlags
	scheduleCron   string
	scheduleRunNow bool
	scheduleOut    string
	scheduleExport bool
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "요일 효과 분석 주기 실행 (cron)",
	Long: `cron 스케줄에 따라 분석을 반복 실행합니다. Ctrl+C 로 종료합니다.
매 실행마다 입력을 다시 읽으므로 --source postgres 와 함께 쓰면 최신 가격이 반영됩니다.

스케줄 형식은 초를 포함한 6필드입니다 (예: "0 0 18 * * 1-5" = 평일 18:00).

Examples:
  go run ./cmd/weekday schedule
  go run ./cmd/weekday schedule --cron "@daily" --run-now
  go run ./cmd/weekday schedule --source postgres --export-csv`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	addSourceFlags(scheduleCmd, &scheduleSource)
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron schedule with seconds (default: config SCHEDULE_CRON)")
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "run once immediately before waiting")
	scheduleCmd.Flags().StringVar(&scheduleOut, "out", "", "output directory for charts and CSV files")
	scheduleCmd.Flags().BoolVar(&scheduleExport, "export-csv", false, "write aggregate CSV files")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	scheduleSource.apply(cfg, changed)
	if changed("cron") {
		cfg.Schedule.Cron = scheduleCron
	}
	if changed("out") {
		cfg.Output.Dir = scheduleOut
	}
	if changed("export-csv") {
		cfg.Output.ExportCSV = scheduleExport
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	s := scheduler.New(log, scheduler.Options{
		MaxRetries: cfg.Schedule.MaxRetries,
		RetryDelay: cfg.Schedule.RetryDelay,
	})

	job := jobs.NewAnalysisJob(cfg.Schedule.Cron, orchestratorBuilder(cfg, &scheduleSource, log), pipeline.RunConfig{
		DateOrder:   contracts.DateOrder(cfg.Analysis.DateOrder),
		LatestPrice: s3_aggregate.LatestPrice(cfg.Analysis.LatestPrice),
		TierSizes:   cfg.Analysis.TierSizes,
		OutputDir:   cfg.Output.Dir,
		ExportCSV:   cfg.Output.ExportCSV,
	}, func(r *pipeline.RunResult) {
		PrintSuccess(fmt.Sprintf("Run %s: %d observations, %d charts", r.RunID, r.Returns.Len(), len(r.Charts)))
	}, log)

	if err := s.AddJob(job); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if scheduleRunNow {
		result, err := s.RunJob(ctx, job.Name())
		if err != nil {
			return err
		}
		if !result.Success {
			PrintWarning(fmt.Sprintf("initial run failed after %d attempts: %s", result.Attempts, result.Error))
		}
	}

	s.Start()
	fmt.Println("=== Weekday Effect Scheduler ===")
	PrintKeyValue("Schedule", cfg.Schedule.Cron)
	if next, ok := s.Next(job.Name()); ok {
		PrintKeyValue("Next run", next.Format("2006-01-02 15:04:05"))
	}
	PrintSeparator()

	<-ctx.Done()
	s.Stop()

	stats := s.GetJobStats()[job.Name()]
	PrintKeyValue("Runs", fmt.Sprintf("%d (success %d, failure %d)", stats.TotalRuns, stats.SuccessCount, stats.FailureCount))
	if stats.ConsecutiveFailures > 0 {
		PrintWarning(fmt.Sprintf("last %d runs failed", stats.ConsecutiveFailures))
	}
	return nil
}

// orchestratorBuilder rebuilds the sources for every scheduled run
func orchestratorBuilder(cfg *config.Config, f *sourceFlags, log *logger.Logger) jobs.BuildFunc {
	return func(ctx context.Context) (*pipeline.Orchestrator, func(), error) {
		src, err := buildSources(ctx, cfg, f, log)
		if err != nil {
			return nil, nil, err
		}
		return pipeline.NewOrchestrator(src.table, src.sectors, log), src.close, nil
	}
}
