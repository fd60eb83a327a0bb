package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/s0_data/quality"
	"github.com/wonny/weekday-effect/internal/s1_prepare"
	"github.com/wonny/weekday-effect/internal/s2_returns"
	"github.com/wonny/weekday-effect/internal/s3_aggregate"
	"github.com/wonny/weekday-effect/internal/s4_report"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// Orchestrator runs the five stages once over one input table
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	table   contracts.TableSource
	sectors contracts.SectorSource // nil: every company is "Unknown"

	logger *logger.Logger
}

// RunConfig carries every path and mode of a run explicitly
type RunConfig struct {
	RunID       string // empty: a new uuid is generated
	DateOrder   contracts.DateOrder
	LatestPrice s3_aggregate.LatestPrice
	TierSizes   []int
	OutputDir   string
	SkipCharts  bool
	ExportCSV   bool
}

// RunResult holds every stage output of a run
type RunResult struct {
	RunID           string
	Source          string
	CompletedStages []string
	Stages          []contracts.StageResult

	Table   *contracts.AnnotatedTable
	Dates   contracts.DateSet
	Quality *contracts.DataQualitySnapshot
	Returns *contracts.ReturnsTable

	Weekday          contracts.WeekdayTable
	SectorWeekday    *contracts.SectorWeekdayTable
	Tiers            []contracts.TierStats
	SectorOverall    []contracts.SectorValue
	SectorVolatility []contracts.SectorValue
	Distribution     map[contracts.Weekday][]float64
	Summary          contracts.Summary

	Charts   []string
	Exports  []string
	Duration time.Duration

	rawTable *contracts.RawTable
	sectors  contracts.SectorMap
}

// Report returns the aggregates in the shape S4 draws
func (r *RunResult) Report() s4_report.Report {
	return s4_report.Report{
		Weekday:          r.Weekday,
		SectorWeekday:    r.SectorWeekday,
		Tiers:            r.Tiers,
		SectorOverall:    r.SectorOverall,
		Distribution:     r.Distribution,
		SectorVolatility: r.SectorVolatility,
	}
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(table contracts.TableSource, sectors contracts.SectorSource, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{table: table, sectors: sectors, logger: log}
}

// Run executes S0 → S1 → S2 → S3 → S4.
// A fatal error aborts the run wrapped with its stage name; typed errors stay reachable with errors.As.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	if config.RunID == "" {
		config.RunID = uuid.NewString()
	}
	log := o.logger.WithRun(config.RunID)

	result := &RunResult{
		RunID:           config.RunID,
		CompletedStages: make([]string, 0, len(contracts.AllStages())),
	}

	log.WithFields(map[string]interface{}{
		"date_order":   string(config.DateOrder),
		"latest_price": string(config.LatestPrice),
		"tiers":        config.TierSizes,
		"skip_charts":  config.SkipCharts,
		"export_csv":   config.ExportCSV,
	}).Info("Starting pipeline run")

	// S0: Load table + sector mapping
	if err := o.stage(ctx, log, result, contracts.StageLoad, func(l *logger.Logger) (int, int, error) {
		return o.runS0(ctx, l, result)
	}); err != nil {
		return result, err
	}

	// S1: Sector annotation + DateSet
	if err := o.stage(ctx, log, result, contracts.StagePrepare, func(l *logger.Logger) (int, int, error) {
		return o.runS1(l, config, result.rawTable, result)
	}); err != nil {
		return result, err
	}

	// S2: Daily returns
	if err := o.stage(ctx, log, result, contracts.StageReturns, func(l *logger.Logger) (int, int, error) {
		return o.runS2(l, result)
	}); err != nil {
		return result, err
	}

	// S3: Aggregates
	if err := o.stage(ctx, log, result, contracts.StageAggregate, func(l *logger.Logger) (int, int, error) {
		return o.runS3(l, config, result)
	}); err != nil {
		return result, err
	}

	// S4: Charts + optional CSV export
	if err := o.stage(ctx, log, result, contracts.StageReport, func(l *logger.Logger) (int, int, error) {
		return o.runS4(l, config, result)
	}); err != nil {
		return result, err
	}

	result.rawTable = nil
	result.Duration = time.Since(startTime)

	log.WithFields(map[string]interface{}{
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// stage runs one stage, records its StageResult and wraps a failure with the stage name
func (o *Orchestrator) stage(ctx context.Context, log *logger.Logger, result *RunResult, stage contracts.Stage, run func(*logger.Logger) (int, int, error)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}

	l := log.WithStage(stage.String())
	l.Infof("Running %s: %s", stage.ShortName(), stage.Description())

	started := time.Now()
	in, out, err := run(l)
	sr := contracts.StageResult{
		Stage:       stage,
		InputCount:  in,
		OutputCount: out,
		Duration:    time.Since(started).Milliseconds(),
	}
	if err != nil {
		sr.Error = err.Error()
		result.Stages = append(result.Stages, sr)
		l.WithError(err).Error("stage failed")
		return fmt.Errorf("%s: %w", stage, err)
	}

	result.Stages = append(result.Stages, sr)
	result.CompletedStages = append(result.CompletedStages, stage.ShortName()+":"+stage.Description())
	return nil
}

// runS0 loads the raw table and the sector mapping
func (o *Orchestrator) runS0(ctx context.Context, log *logger.Logger, result *RunResult) (int, int, error) {
	raw, err := o.table.Load(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load table: %w", err)
	}
	result.Source = raw.Source
	result.rawTable = raw

	if o.sectors != nil {
		sectors, err := o.sectors.Sectors(ctx)
		if err != nil {
			return len(raw.Records), 0, fmt.Errorf("load sectors: %w", err)
		}
		result.sectors = sectors
	}

	log.WithFields(map[string]interface{}{
		"source":    raw.Source,
		"companies": len(raw.Records),
		"sectors":   len(result.sectors),
	}).Info("S0 completed")

	return len(raw.Records), len(raw.Records), nil
}

// runS1 annotates sectors and extracts the DateSet
func (o *Orchestrator) runS1(log *logger.Logger, config RunConfig, raw *contracts.RawTable, result *RunResult) (int, int, error) {
	table, dates, err := s1_prepare.Prepare(raw, result.sectors, s1_prepare.Options{
		DateOrder: config.DateOrder,
		Logger:    log,
	})
	if err != nil {
		return len(raw.Records), 0, err
	}
	result.Table = table
	result.Dates = dates

	// 품질 게이트는 경고만 남김
	result.Quality = quality.NewQualityGate(quality.DefaultConfig()).Check(raw.Source, table, dates)
	ql := log.WithFields(map[string]interface{}{
		"quality_score":   result.Quality.QualityScore,
		"valid_companies": result.Quality.ValidCompanies,
		"dates":           dates.Len(),
	})
	if result.Quality.Passed {
		ql.Info("S1 completed")
	} else {
		ql.Warn("S1 completed with low data quality")
	}

	return len(raw.Records), len(table.Records), nil
}

// runS2 computes the long-form returns table
func (o *Orchestrator) runS2(log *logger.Logger, result *RunResult) (int, int, error) {
	result.Returns = s2_returns.Extract(result.Table, result.Dates, s2_returns.Options{Logger: log})

	pairs := len(result.Table.Records) * result.Dates.Len()
	return pairs, result.Returns.Len(), nil
}

// runS3 computes every aggregate from the returns table
func (o *Orchestrator) runS3(log *logger.Logger, config RunConfig, result *RunResult) (int, int, error) {
	rt := result.Returns

	sw, err := s3_aggregate.BySectorWeekday(rt)
	if err != nil {
		return rt.Len(), 0, err
	}

	result.Weekday = s3_aggregate.ByWeekday(rt)
	result.SectorWeekday = sw
	result.Tiers = s3_aggregate.ByMarketCap(result.Table, result.Dates, rt, s3_aggregate.MarketCapOptions{
		TierSizes:   config.TierSizes,
		LatestPrice: config.LatestPrice,
		Logger:      log,
	})
	result.SectorOverall = s3_aggregate.SectorOverall(sw)
	result.SectorVolatility = s3_aggregate.SectorVolatility(rt)
	result.Distribution = s3_aggregate.WeekdayDistribution(rt)
	result.Summary = s3_aggregate.Summarize(rt)

	log.WithFields(map[string]interface{}{
		"sectors": len(sw.Sectors),
		"tiers":   len(result.Tiers),
	}).Info("S3 completed")

	return rt.Len(), len(sw.Sectors), nil
}

// runS4 writes the charts and, when asked, the CSV exports
func (o *Orchestrator) runS4(log *logger.Logger, config RunConfig, result *RunResult) (int, int, error) {
	report := result.Report()

	if !config.SkipCharts {
		charts, err := s4_report.NewCharts(config.OutputDir, log).WriteAll(report)
		result.Charts = charts
		if err != nil {
			return 0, len(charts), err
		}
	} else {
		log.Info("Skipping charts")
	}

	if config.ExportCSV {
		exports, err := s4_report.ExportCSV(config.OutputDir, result.Returns, report)
		result.Exports = exports
		if err != nil {
			return 0, len(result.Charts) + len(exports), err
		}
	}

	return 0, len(result.Charts) + len(result.Exports), nil
}
