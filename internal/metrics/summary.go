package metrics

import (
	"fmt"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

// Summary is the flat result of one full analysis pass.
// ⭐ SSOT: 요약 지표 구조는 여기서만 정의
//
// Ratio fields carry explicit sentinel statuses; one undefined metric
// never poisons the rest of the summary. The struct contains no
// timestamps of its own so identical inputs marshal bit-identically.
type Summary struct {
	Strategy string `json:"strategy"`

	// 규모
	TotalTrades    int     `json:"total_trades"`
	NetProfit      float64 `json:"net_profit"`
	ROIPct         float64 `json:"roi_pct"`
	ProfitPerTrade float64 `json:"profit_per_trade"`
	TradesPerYear  float64 `json:"trades_per_year"`

	// 승/패
	WinRate      float64 `json:"win_rate"`
	AvgWin       Metric  `json:"avg_win"`
	AvgLoss      Metric  `json:"avg_loss"`
	RiskReward   Metric  `json:"risk_reward"`
	ProfitFactor Metric  `json:"profit_factor"`

	// 위험조정 수익률
	Sharpe    Metric `json:"sharpe"`
	Sortino   Metric `json:"sortino"`
	Calmar    Metric `json:"calmar"`
	CAGR      Metric `json:"cagr"`
	Omega     Metric `json:"omega"`
	TailRatio Metric `json:"tail_ratio"`

	// 드로다운
	MaxDrawdown         float64 `json:"max_drawdown"` // fraction, <= 0
	MaxDrawdownDuration int     `json:"max_drawdown_duration_days"`

	// 시리즈 (차트용 — 표현 정보는 포함하지 않음)
	EquityCurve EquityCurve    `json:"equity_curve"`
	Drawdown    DrawdownSeries `json:"drawdown"`

	// 기간
	FirstExit time.Time `json:"first_exit"`
	LastExit  time.Time `json:"last_exit"`
	Years     float64   `json:"years"`
}

// Summarize runs the full metric battery over one trade table.
//
// The table is sorted by exit time first; slippage is applied before
// anything else. InvalidInput aborts the whole call; every mathematical
// edge case inside resolves to a per-metric sentinel instead.
func (e *Engine) Summarize(table *contracts.TradeTable, cfg contracts.AnalysisConfig) (*Summary, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty trade table", ErrInsufficientData)
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be > 0", ErrInvalidInput)
	}
	if !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, cfg.Mode)
	}
	if cfg.PeriodsPerYear <= 0 {
		return nil, fmt.Errorf("%w: periods per year must be > 0", ErrInvalidInput)
	}

	// 정렬된 사본 위에서 계산 (원본 불변)
	sorted := &contracts.TradeTable{
		Strategy: table.Strategy,
		Trades:   append([]contracts.Trade(nil), table.Trades...),
	}
	sorted.SortByExitTime()
	sorted.Trades = ApplySlippage(sorted.Trades, cfg.SlippagePerTrade)

	curve, err := e.BuildEquityCurve(sorted.Trades, cfg.InitialCapital, cfg.Mode)
	if err != nil {
		return nil, err
	}
	dd := e.Drawdown(curve)

	returns, err := e.ReturnSeries(sorted.Trades, cfg)
	if err != nil {
		return nil, err
	}

	first, last, years := sorted.Span()
	netProfit := curve.Final() - cfg.InitialCapital
	wl := e.WinLossStats(sorted.Trades)

	s := &Summary{
		Strategy:       sorted.Strategy,
		TotalTrades:    sorted.Len(),
		NetProfit:      netProfit,
		ROIPct:         netProfit / cfg.InitialCapital * 100,
		ProfitPerTrade: netProfit / float64(sorted.Len()),

		WinRate:      wl.WinRate,
		AvgWin:       wl.AvgWin,
		AvgLoss:      wl.AvgLoss,
		RiskReward:   wl.RiskReward,
		ProfitFactor: wl.ProfitFactor,

		Sharpe:    e.SharpeRatio(returns, cfg.RiskFreeRate, cfg.PeriodsPerYear),
		Sortino:   e.SortinoRatio(returns, cfg.RiskFreeRate, cfg.PeriodsPerYear),
		Omega:     e.OmegaRatio(returns, cfg.RiskFreeRate, cfg.PeriodsPerYear),
		TailRatio: e.TailRatio(returns),

		MaxDrawdown:         dd.Min(),
		MaxDrawdownDuration: drawdownDurationDays(exitTimes(sorted.Trades), dd),

		EquityCurve: curve,
		Drawdown:    dd,

		FirstExit: first,
		LastExit:  last,
		Years:     years,
	}

	// 기간이 0이면 trades/year는 거래 수 그대로 (원 시스템과 동일)
	if years > 0 {
		s.TradesPerYear = float64(sorted.Len()) / years
	} else {
		s.TradesPerYear = float64(sorted.Len())
	}

	s.CAGR = e.CAGR(cfg.InitialCapital, curve.Final(), years)
	if s.CAGR.IsDefined() {
		s.Calmar = e.CalmarRatio(s.CAGR.Value, s.MaxDrawdown)
	} else {
		s.Calmar = Undefined()
	}

	return s, nil
}

// exitTimes aligns trade exit times with curve[1:]
func exitTimes(trades []contracts.Trade) []time.Time {
	times := make([]time.Time, len(trades))
	for i, t := range trades {
		times[i] = t.ExitTime
	}
	return times
}

// drawdownDurationDays finds the longest continuous underwater stretch
// in days. dd[0]는 시작 자본 지점이라 항상 0 — dd[1:]가 times와 정렬됨
func drawdownDurationDays(times []time.Time, dd DrawdownSeries) int {
	if len(dd) != len(times)+1 {
		return 0
	}

	maxDays := 0
	var start time.Time
	underwater := false

	for i, t := range times {
		if dd[i+1] < 0 {
			if !underwater {
				underwater = true
				start = t
			}
			days := int(t.Sub(start).Hours() / 24)
			if days > maxDays {
				maxDays = days
			}
		} else {
			underwater = false
		}
	}

	return maxDays
}
