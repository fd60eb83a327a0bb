package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/weekday-effect/internal/contracts"
	"github.com/wonny/weekday-effect/internal/s1_prepare"
)

var datesSource sourceFlags

// datesCmd prints the trading dates under both orders
var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "거래일 토큰 정렬 비교 (lexical vs chronological)",
	Long: `입력 테이블의 거래일 토큰을 두 가지 순서로 출력합니다.
DD-MM-YYYY 토큰은 문자열 정렬 시 달력 순서와 다를 수 있으며, 위치가 다른 토큰은 * 로 표시됩니다.

Examples:
  go run ./cmd/weekday dates
  go run ./cmd/weekday dates --input prices.xlsx`,
	RunE: runDates,
}

func init() {
	rootCmd.AddCommand(datesCmd)
	addSourceFlags(datesCmd, &datesSource)
}

func runDates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	datesSource.apply(cfg, cmd.Flags().Changed)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	src, err := buildSources(ctx, cfg, &datesSource, log)
	if err != nil {
		PrintError("입력 준비 실패", err)
		return err
	}
	defer src.close()

	raw, err := src.table.Load(ctx)
	if err != nil {
		PrintError("테이블 로드 실패", err)
		return err
	}

	_, lexical, err := s1_prepare.Prepare(raw, nil, s1_prepare.Options{DateOrder: contracts.DateOrderLexical, Logger: log})
	if err != nil {
		return err
	}
	chronological := make([]string, len(lexical.Tokens))
	copy(chronological, lexical.Tokens)
	s1_prepare.SortTokens(chronological, contracts.DateOrderChronological)

	fmt.Println("=== Trading Dates ===")
	PrintKeyValue("Source", src.label)
	PrintKeyValue("Dates", fmt.Sprintf("%d", lexical.Len()))
	PrintSeparator()
	fmt.Printf("  %-4s %-12s %-12s\n", "#", "lexical", "chronological")

	moved := 0
	for i := range lexical.Tokens {
		mark := " "
		if lexical.Tokens[i] != chronological[i] {
			mark = "*"
			moved++
		}
		fmt.Printf("%s %-4d %-12s %-12s\n", mark, i+1, lexical.Tokens[i], chronological[i])
	}
	PrintSeparator()

	if moved > 0 {
		PrintWarning(fmt.Sprintf("%d positions differ between lexical and chronological order", moved))
	} else {
		PrintSuccess("lexical and chronological orders agree")
	}
	return nil
}
