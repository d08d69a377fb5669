package report

import (
	"fmt"
	"strings"

	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/service"
)

// metricCSV renders a sentinel-aware scalar for machine output.
// undefined/unbounded는 빈 칸 대신 명시 토큰으로 남긴다
func metricCSV(m metrics.Metric) string {
	switch m.Status {
	case metrics.StatusUnbounded:
		return "inf"
	case metrics.StatusOK:
		return fmt.Sprintf("%.6f", m.Value)
	default:
		return "n/a"
	}
}

// RenderLeaderboardCSV renders the ranked board as CSV text
func RenderLeaderboardCSV(board *service.Board) string {
	var sb strings.Builder

	sb.WriteString("rank,strategy,net_profit,roi_pct,win_rate,profit_factor,sharpe,sortino,max_drawdown,total_trades\n")

	for i, e := range board.Entries {
		s := e.Summary
		sb.WriteString(fmt.Sprintf("%d,%s,%.2f,%.4f,%.6f,%s,%s,%s,%.6f,%d\n",
			i+1,
			e.Strategy,
			s.NetProfit,
			s.ROIPct,
			s.WinRate,
			metricCSV(s.ProfitFactor),
			metricCSV(s.Sharpe),
			metricCSV(s.Sortino),
			s.MaxDrawdown,
			s.TotalTrades,
		))
	}

	return sb.String()
}

// RenderMatrixCSV renders the month×year matrix as CSV text
func RenderMatrixCSV(m *metrics.Matrix) string {
	var sb strings.Builder

	sb.WriteString("year,jan,feb,mar,apr,may,jun,jul,aug,sep,oct,nov,dec,total,roi_pct\n")

	for _, row := range m.Rows {
		sb.WriteString(fmt.Sprintf("%d", row.Year))
		for _, v := range row.Months {
			sb.WriteString(fmt.Sprintf(",%.2f", v))
		}
		sb.WriteString(fmt.Sprintf(",%.2f,%.4f\n", row.Total, row.ROIPct))
	}

	return sb.String()
}
