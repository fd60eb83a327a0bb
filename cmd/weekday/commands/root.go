package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/weekday-effect/pkg/config"
	"github.com/wonny/weekday-effect/pkg/logger"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weekday",
	Short: "요일 효과 분석 - 요일/섹터/시가총액별 주식 수익률 통계",
	Long: `Weekday Effect CLI

일별 시가/종가 wide 테이블에서 요일별 수익률 통계를 계산합니다.
5단계 파이프라인: 로드 → 전처리 → 수익률 → 집계 → 리포트

Usage:
  go run ./cmd/weekday [command]

Examples:
  go run ./cmd/weekday analyze
  go run ./cmd/weekday analyze --input prices.xlsx --date-order chronological
  go run ./cmd/weekday dates --input dataset.csv
  go run ./cmd/weekday sectors
  go run ./cmd/weekday db-check
  go run ./cmd/weekday schedule --source postgres --run-now`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}

// loadRuntime loads config and applies the global flags, then builds the logger
func loadRuntime() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, logger.New(cfg), nil
}
