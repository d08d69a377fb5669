package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [strategy]",
	Short: "리포트 파일 생성",
	Long: `분석 결과를 마크다운/CSV 파일로 저장합니다.

전략 이름을 주면 해당 전략의 단일 분석 리포트를,
생략하면 전체 순위표 리포트를 생성합니다.

Example:
  go run ./cmd/argus report                    # leaderboard md + csv
  go run ./cmd/argus report my_strategy        # single analysis md
  go run ./cmd/argus report my_strategy --format csv
  go run ./cmd/argus report --out ./reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var (
	reportOut    string
	reportFormat string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportOut, "out", "", "출력 디렉터리 (기본: REPORT_DIR)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "출력 형식 (md|csv) — 단일 전략 리포트에만 적용")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportFormat != "md" && reportFormat != "csv" {
		return fmt.Errorf("invalid --format %q (valid: md, csv)", reportFormat)
	}

	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	dir := reportOut
	if dir == "" {
		dir = d.cfg.ReportDir
	}
	gen := report.NewGenerator(dir, d.log)

	ctx := context.Background()

	if len(args) == 0 {
		board, err := d.analyzer.Leaderboard(ctx, d.profile)
		if err != nil {
			PrintError(fmt.Sprintf("Leaderboard failed: %v", err))
			return err
		}
		mdPath, csvPath, err := gen.WriteLeaderboard(board)
		if err != nil {
			PrintError(fmt.Sprintf("Report write failed: %v", err))
			return err
		}
		PrintSuccess("Leaderboard report written")
		PrintKeyValue("Markdown", mdPath, 12)
		PrintKeyValue("CSV", csvPath, 12)
		return nil
	}

	strategy := args[0]
	summary, err := d.analyzer.AnalyzeTable(ctx, strategy, d.profile)
	if err != nil {
		PrintError(fmt.Sprintf("Analysis failed: %v", err))
		return err
	}

	table, err := d.analyzer.FetchTable(ctx, strategy)
	if err != nil {
		return err
	}
	matrix := metrics.NewEngine().MonthlyMatrix(table.Trades, d.profile.InitialCapital)

	var path string
	if reportFormat == "csv" {
		path, err = gen.WriteMatrixCSV(strategy, matrix)
	} else {
		path, err = gen.WriteAnalysis(summary, matrix, nil)
	}
	if err != nil {
		PrintError(fmt.Sprintf("Report write failed: %v", err))
		return err
	}

	PrintSuccess("Report written")
	PrintKeyValue("Path", path, 12)
	return nil
}
