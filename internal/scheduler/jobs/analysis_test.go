package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/weekday-effect/internal/pipeline"
	"github.com/wonny/weekday-effect/internal/s0_data"
)

func fileBuild(t *testing.T) BuildFunc {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("company_name,02-01-2023_opening,02-01-2023_closing\nA,100,102\n"), 0o644))

	return func(ctx context.Context) (*pipeline.Orchestrator, func(), error) {
		return pipeline.NewOrchestrator(s0_data.NewFileSource(path, s0_data.LoadOptions{}), nil, nil), func() {}, nil
	}
}

func TestAnalysisJob_Run(t *testing.T) {
	var results []*pipeline.RunResult
	job := NewAnalysisJob("0 0 18 * * 1-5", fileBuild(t),
		pipeline.RunConfig{RunID: "fixed", SkipCharts: true, TierSizes: []int{1}},
		func(r *pipeline.RunResult) { results = append(results, r) }, nil)

	assert.Equal(t, "weekday_analysis", job.Name())
	assert.Equal(t, "0 0 18 * * 1-5", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, results, 2)
	assert.NotEqual(t, "fixed", results[0].RunID, "every scheduled run gets a new id")
	assert.NotEqual(t, results[0].RunID, results[1].RunID)
	assert.Equal(t, 1, results[0].Returns.Len())
}

func TestAnalysisJob_BuildError(t *testing.T) {
	build := func(ctx context.Context) (*pipeline.Orchestrator, func(), error) {
		return nil, nil, errors.New("no database")
	}
	job := NewAnalysisJob("@daily", build, pipeline.RunConfig{}, nil, nil)

	err := job.Run(context.Background())
	assert.ErrorContains(t, err, "no database")
}

func TestAnalysisJob_RunError(t *testing.T) {
	build := func(ctx context.Context) (*pipeline.Orchestrator, func(), error) {
		src := s0_data.NewFileSource(filepath.Join(t.TempDir(), "missing.csv"), s0_data.LoadOptions{})
		return pipeline.NewOrchestrator(src, nil, nil), func() {}, nil
	}
	job := NewAnalysisJob("@daily", build, pipeline.RunConfig{SkipCharts: true}, nil, nil)

	assert.Error(t, job.Run(context.Background()))
}
