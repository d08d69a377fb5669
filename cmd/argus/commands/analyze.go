package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [table]",
	Short: "단일 전략 성과 분석",
	Long: `트레이드 테이블 하나를 읽어 전체 성과 지표를 계산합니다.

계산 지표:
- 순이익, ROI, 승률, 평균 손익, Profit Factor
- Sharpe / Sortino / Calmar / CAGR / Omega / Tail Ratio
- 최대 낙폭(MDD)과 낙폭 지속 기간
- 월×연도 손익 매트릭스

Example:
  go run ./cmd/argus analyze my_strategy
  go run ./cmd/argus analyze my_strategy --capital 50000 --mode compounding
  go run ./cmd/argus analyze my_strategy --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeCapital float64
	analyzeMode    string
	analyzeRF      float64
	analyzePeriods int
	analyzeSave    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags (0은 "프로파일 값 유지")
	analyzeCmd.Flags().Float64Var(&analyzeCapital, "capital", 0, "초기 자본 (기본: 프로파일 값)")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "자본 누적 방식 (additive|compounding)")
	analyzeCmd.Flags().Float64Var(&analyzeRF, "rf", -1, "연간 무위험 수익률 (기본: 프로파일 값)")
	analyzeCmd.Flags().IntVar(&analyzePeriods, "periods", 0, "연환산 기간 수 (기본: 프로파일 값)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "markdown 리포트 파일 저장")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	table := args[0]

	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	// 플래그가 프로파일을 덮어쓴다
	if analyzeCapital > 0 {
		d.profile.InitialCapital = analyzeCapital
	}
	if analyzeMode != "" {
		mode := contracts.Mode(analyzeMode)
		if !mode.IsValid() {
			return fmt.Errorf("invalid --mode %q (valid: additive, compounding)", analyzeMode)
		}
		d.profile.Mode = mode
	}
	if analyzeRF >= 0 {
		d.profile.RiskFreeRate = analyzeRF
	}
	if analyzePeriods > 0 {
		d.profile.PeriodsPerYear = analyzePeriods
	}

	summary, err := d.analyzer.AnalyzeTable(context.Background(), table, d.profile)
	if err != nil {
		PrintError(fmt.Sprintf("Analysis failed: %v", err))
		return err
	}

	if outputMode == "json" {
		return printJSON(summary)
	}

	printSummary(summary)

	tt, err := d.analyzer.FetchTable(context.Background(), table)
	if err != nil {
		return err
	}

	printProjection(tt.Trades, d.profile)

	if analyzeSave {
		matrix := metrics.NewEngine().MonthlyMatrix(tt.Trades, d.profile.InitialCapital)

		gen := report.NewGenerator(d.cfg.ReportDir, d.log)
		path, err := gen.WriteAnalysis(summary, matrix, nil)
		if err != nil {
			return err
		}
		PrintSuccess(fmt.Sprintf("Report saved: %s", path))
	}

	return nil
}

// printProjection replays the historical years forward with the
// profile's projection settings (세후 복리)
func printProjection(trades []contracts.Trade, prof *profile.Profile) {
	proj := prof.Projection
	years := metrics.NewEngine().Project(trades, prof.InitialCapital, proj.Mode, proj.TaxRate)
	if len(years) == 0 {
		return
	}
	if proj.Years > 0 && proj.Years < len(years) {
		years = years[:proj.Years]
	}

	fmt.Printf("  💰 Projection (%s, tax %.0f%%)\n", proj.Mode, proj.TaxRate*100)
	PrintSeparator()

	cols := []string{"Year", "Start", "×", "Net Profit", "End", "Growth %"}
	widths := []int{5, 12, 5, 12, 12, 8}
	PrintTableHeader(cols, widths)
	for _, y := range years {
		PrintTableRow([]string{
			fmt.Sprintf("%d", y.Year),
			fmt.Sprintf("%.0f", y.StartBalance),
			fmt.Sprintf("%.2f", y.ScalingFactor),
			fmt.Sprintf("%.0f", y.NetProfit),
			fmt.Sprintf("%.0f", y.EndBalance),
			fmt.Sprintf("%.1f", y.GrowthPct),
		}, widths)
	}
	fmt.Println()
}

func printSummary(s *metrics.Summary) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  📊 %s\n", s.Strategy)
	PrintSeparator()

	PrintKeyValue("Trades", fmt.Sprintf("%d (%.1f/year)", s.TotalTrades, s.TradesPerYear), 16)
	PrintKeyValue("Period", fmt.Sprintf("%s ~ %s (%.2f years)",
		s.FirstExit.Format("2006-01-02"), s.LastExit.Format("2006-01-02"), s.Years), 16)
	PrintKeyValue("Net Profit", fmt.Sprintf("%.2f (ROI %.2f%%)", s.NetProfit, s.ROIPct), 16)
	PrintKeyValue("Profit/Trade", fmt.Sprintf("%.2f", s.ProfitPerTrade), 16)

	PrintSeparator()
	PrintKeyValue("Win Rate", fmt.Sprintf("%.2f%%", s.WinRate*100), 16)
	PrintKeyValue("Avg Win", FormatMetric(s.AvgWin, 2), 16)
	PrintKeyValue("Avg Loss", FormatMetric(s.AvgLoss, 2), 16)
	PrintKeyValue("Risk/Reward", FormatMetric(s.RiskReward, 2), 16)
	PrintKeyValue("Profit Factor", FormatMetric(s.ProfitFactor, 2), 16)

	PrintSeparator()
	PrintKeyValue("Sharpe", FormatMetric(s.Sharpe, 3), 16)
	PrintKeyValue("Sortino", FormatMetric(s.Sortino, 3), 16)
	PrintKeyValue("Calmar", FormatMetric(s.Calmar, 3), 16)
	PrintKeyValue("CAGR", FormatMetric(s.CAGR, 4), 16)
	PrintKeyValue("Omega", FormatMetric(s.Omega, 3), 16)
	PrintKeyValue("Tail Ratio", FormatMetric(s.TailRatio, 3), 16)

	PrintSeparator()
	PrintKeyValue("Max Drawdown", fmt.Sprintf("%.2f%%", s.MaxDrawdown*100), 16)
	PrintKeyValue("DD Duration", fmt.Sprintf("%d days", s.MaxDrawdownDuration), 16)
	PrintDoubleSeparator()
	fmt.Println()
}
