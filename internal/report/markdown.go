package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/internal/simulation"
)

// formatMetric renders a sentinel-aware scalar for human output.
// undefined → "n/a", unbounded → "inf" (숫자 열에서 구분 가능해야 함)
func formatMetric(m metrics.Metric, decimals int) string {
	switch m.Status {
	case metrics.StatusUnbounded:
		return "inf"
	case metrics.StatusOK:
		return fmt.Sprintf("%.*f", decimals, m.Value)
	default:
		return "n/a"
	}
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// RenderSummaryMarkdown renders one strategy's full analysis as markdown
func RenderSummaryMarkdown(s *metrics.Summary, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Analysis: %s\n\n", s.Strategy))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Trades: %d | Period: %s ~ %s (%.2f years)\n\n",
		s.TotalTrades,
		s.FirstExit.Format("2006-01-02"),
		s.LastExit.Format("2006-01-02"),
		s.Years))

	sb.WriteString("## Headline\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Net Profit | %.2f |\n", s.NetProfit))
	sb.WriteString(fmt.Sprintf("| ROI %% | %.2f |\n", s.ROIPct))
	sb.WriteString(fmt.Sprintf("| Profit / Trade | %.2f |\n", s.ProfitPerTrade))
	sb.WriteString(fmt.Sprintf("| Trades / Year | %.1f |\n", s.TradesPerYear))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.4f |\n", s.WinRate))
	sb.WriteString(fmt.Sprintf("| Avg Win | %s |\n", formatMetric(s.AvgWin, 2)))
	sb.WriteString(fmt.Sprintf("| Avg Loss | %s |\n", formatMetric(s.AvgLoss, 2)))
	sb.WriteString(fmt.Sprintf("| Risk/Reward | %s |\n", formatMetric(s.RiskReward, 2)))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatMetric(s.ProfitFactor, 2)))
	sb.WriteString("\n")

	sb.WriteString("## Risk-Adjusted\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Sharpe | %s |\n", formatMetric(s.Sharpe, 3)))
	sb.WriteString(fmt.Sprintf("| Sortino | %s |\n", formatMetric(s.Sortino, 3)))
	sb.WriteString(fmt.Sprintf("| Calmar | %s |\n", formatMetric(s.Calmar, 3)))
	sb.WriteString(fmt.Sprintf("| CAGR | %s |\n", formatMetric(s.CAGR, 4)))
	sb.WriteString(fmt.Sprintf("| Omega | %s |\n", formatMetric(s.Omega, 3)))
	sb.WriteString(fmt.Sprintf("| Tail Ratio | %s |\n", formatMetric(s.TailRatio, 3)))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", s.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Max DD Duration (days) | %d |\n", s.MaxDrawdownDuration))
	sb.WriteString("\n")

	return sb.String()
}

// RenderLeaderboardMarkdown renders the ranked board as a markdown table
func RenderLeaderboardMarkdown(board *service.Board, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Leaderboard\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))

	if len(board.Entries) == 0 {
		sb.WriteString("No strategies analyzed.\n")
	} else {
		sb.WriteString("| # | Strategy | Net Profit | ROI % | Win Rate | PF | Sharpe | Max DD | Trades |\n")
		sb.WriteString("|---|----------|-----------|-------|----------|----|--------|--------|--------|\n")
		for i, e := range board.Entries {
			s := e.Summary
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %.4f | %s | %s | %.4f | %d |\n",
				i+1, e.Strategy, s.NetProfit, s.ROIPct, s.WinRate,
				formatMetric(s.ProfitFactor, 2), formatMetric(s.Sharpe, 3),
				s.MaxDrawdown, s.TotalTrades))
		}
	}
	sb.WriteString("\n")

	if len(board.Failures) > 0 {
		sb.WriteString("## Failures\n\n")
		for _, table := range sortedKeys(board.Failures) {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", table, board.Failures[table]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderMatrixMarkdown renders the month×year P/L matrix
func RenderMatrixMarkdown(m *metrics.Matrix) string {
	var sb strings.Builder

	sb.WriteString("## Monthly P/L\n\n")
	if len(m.Rows) == 0 {
		sb.WriteString("No trades.\n\n")
		return sb.String()
	}

	sb.WriteString("| Year |")
	for _, name := range monthNames {
		sb.WriteString(fmt.Sprintf(" %s |", name))
	}
	sb.WriteString(" Total | ROI % |\n")

	sb.WriteString("|------|")
	for range monthNames {
		sb.WriteString("-----|")
	}
	sb.WriteString("-------|-------|\n")

	for _, row := range m.Rows {
		sb.WriteString(fmt.Sprintf("| %d |", row.Year))
		for _, v := range row.Months {
			sb.WriteString(fmt.Sprintf(" %.0f |", v))
		}
		sb.WriteString(fmt.Sprintf(" %.0f | %.2f |\n", row.Total, row.ROIPct))
	}
	sb.WriteString(fmt.Sprintf("\nGrand Total: %.2f (ROI %.2f%%)\n\n", m.GrandTotal, m.TotalROI))

	return sb.String()
}

// RenderSimulationMarkdown renders the Monte Carlo terminal distribution
func RenderSimulationMarkdown(r *simulation.Result) string {
	var sb strings.Builder

	sb.WriteString("## Monte Carlo\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s | Paths: %d × %d trades | Seed: %d\n\n",
		r.RunID, r.Config.Paths, r.Config.Length, r.Config.Seed))

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Mean Terminal | %.2f |\n", r.MeanTerminal))
	sb.WriteString(fmt.Sprintf("| Median Terminal | %.2f |\n", r.MedianTerminal))
	sb.WriteString(fmt.Sprintf("| Std Dev | %.2f |\n", r.StdDevTerminal))
	sb.WriteString(fmt.Sprintf("| Min / Max | %.2f / %.2f |\n", r.MinTerminal, r.MaxTerminal))
	sb.WriteString(fmt.Sprintf("| P(ruin) | %.4f |\n", r.RuinProbability))
	sb.WriteString(fmt.Sprintf("| P(target ×%.1f) | %.4f |\n", r.Config.TargetMultiple, r.TargetProbability))
	sb.WriteString("\n")

	return sb.String()
}

// sortedKeys gives deterministic output order for map-backed sections
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
