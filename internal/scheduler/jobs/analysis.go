package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/weekday-effect/internal/pipeline"
	"github.com/wonny/weekday-effect/pkg/logger"
)

// BuildFunc creates a fresh orchestrator per run; cleanup releases its sources
type BuildFunc func(ctx context.Context) (orch *pipeline.Orchestrator, cleanup func(), err error)

// AnalysisJob re-runs the weekday analysis on a schedule
type AnalysisJob struct {
	schedule string
	build    BuildFunc
	config   pipeline.RunConfig
	onResult func(*pipeline.RunResult)
	logger   *logger.Logger
}

// NewAnalysisJob creates a new analysis job. onResult may be nil.
func NewAnalysisJob(schedule string, build BuildFunc, config pipeline.RunConfig, onResult func(*pipeline.RunResult), log *logger.Logger) *AnalysisJob {
	if log == nil {
		log = logger.Nop()
	}
	return &AnalysisJob{
		schedule: schedule,
		build:    build,
		config:   config,
		onResult: onResult,
		logger:   log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "weekday_analysis"
}

// Schedule returns the cron schedule
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline run; every run gets its own run id
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled analysis")

	orch, cleanup, err := j.build(ctx)
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}
	defer cleanup()

	config := j.config
	config.RunID = ""

	result, err := orch.Run(ctx, config)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":       result.RunID,
		"observations": result.Returns.Len(),
		"charts":       len(result.Charts),
	}).Info("Scheduled analysis completed")

	if j.onResult != nil {
		j.onResult(result)
	}
	return nil
}
