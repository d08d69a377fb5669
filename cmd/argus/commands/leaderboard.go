package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/service"
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "전략 순위표",
	Long: `발견 가능한 모든 전략을 분석하고 순위를 매깁니다.

개별 전략의 분석 실패는 순위표 전체를 막지 않고
실패 목록으로 보고됩니다.

Example:
  go run ./cmd/argus leaderboard
  go run ./cmd/argus leaderboard --sort sharpe --top 10
  go run ./cmd/argus leaderboard --output json`,
	RunE: runLeaderboard,
}

var (
	boardSort string
	boardTop  int
)

func init() {
	rootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().StringVar(&boardSort, "sort", "net_profit", "정렬 기준 (net_profit|roi|win_rate|sharpe|profit_factor)")
	leaderboardCmd.Flags().IntVar(&boardTop, "top", 0, "상위 N개만 표시 (0 = 전체)")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	board, err := d.analyzer.Leaderboard(context.Background(), d.profile)
	if err != nil {
		PrintError(fmt.Sprintf("Leaderboard failed: %v", err))
		return err
	}

	if err := sortBoard(board, boardSort); err != nil {
		return err
	}
	if boardTop > 0 && boardTop < len(board.Entries) {
		board.Entries = board.Entries[:boardTop]
	}

	if outputMode == "json" {
		return printJSON(board)
	}

	printBoard(board)
	return nil
}

// sortBoard re-ranks entries by the requested column (내림차순).
// 미정의 센티넬은 항상 맨 뒤로
func sortBoard(board *service.Board, key string) error {
	var value func(e service.Entry) (float64, bool)

	switch key {
	case "net_profit":
		value = func(e service.Entry) (float64, bool) { return e.Summary.NetProfit, true }
	case "roi":
		value = func(e service.Entry) (float64, bool) { return e.Summary.ROIPct, true }
	case "win_rate":
		value = func(e service.Entry) (float64, bool) { return e.Summary.WinRate, true }
	case "sharpe":
		value = func(e service.Entry) (float64, bool) {
			return e.Summary.Sharpe.Value, e.Summary.Sharpe.IsDefined()
		}
	case "profit_factor":
		value = func(e service.Entry) (float64, bool) {
			return e.Summary.ProfitFactor.Value, e.Summary.ProfitFactor.IsDefined()
		}
	default:
		return fmt.Errorf("invalid --sort %q (valid: net_profit, roi, win_rate, sharpe, profit_factor)", key)
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		vi, oki := value(board.Entries[i])
		vj, okj := value(board.Entries[j])
		if oki != okj {
			return oki
		}
		return vi > vj
	})
	return nil
}

func printBoard(board *service.Board) {
	fmt.Println()
	fmt.Printf("🏆 Leaderboard (%d strategies)\n\n", len(board.Entries))

	cols := []string{"#", "Strategy", "Net Profit", "ROI %", "Win %", "PF", "Sharpe", "MDD %", "Trades"}
	widths := []int{3, 24, 12, 8, 7, 6, 7, 7, 7}
	PrintTableHeader(cols, widths)

	for i, e := range board.Entries {
		s := e.Summary
		PrintTableRow([]string{
			fmt.Sprintf("%d", i+1),
			e.Strategy,
			fmt.Sprintf("%.2f", s.NetProfit),
			fmt.Sprintf("%.2f", s.ROIPct),
			fmt.Sprintf("%.1f", s.WinRate*100),
			FormatMetric(s.ProfitFactor, 2),
			FormatMetric(s.Sharpe, 2),
			fmt.Sprintf("%.1f", s.MaxDrawdown*100),
			fmt.Sprintf("%d", s.TotalTrades),
		}, widths)
	}
	fmt.Println()

	if len(board.Failures) > 0 {
		PrintWarning(fmt.Sprintf("%d tables failed:", len(board.Failures)))
		for table, msg := range board.Failures {
			fmt.Printf("   • %s: %s\n", table, msg)
		}
		fmt.Println()
	}
}
