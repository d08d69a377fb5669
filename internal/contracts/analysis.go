package contracts

// Mode selects the equity accumulation rule
// ⭐ SSOT: 자본 누적 방식은 여기서만 정의
type Mode string

const (
	// ModeAdditive accumulates raw profit/loss: equity[i] = equity[i-1] + pl[i]
	ModeAdditive Mode = "additive"

	// ModeCompounding compounds fractional returns: equity[i] = equity[i-1] * (1 + r[i])
	ModeCompounding Mode = "compounding"
)

// IsValid reports whether the mode is a known accumulation rule
func (m Mode) IsValid() bool {
	return m == ModeAdditive || m == ModeCompounding
}

// AnalysisConfig carries the scalar parameters for one engine invocation.
// 엔진은 상태를 갖지 않음 — 매 호출마다 값으로 전달
type AnalysisConfig struct {
	InitialCapital float64 `json:"initial_capital"`
	Mode           Mode    `json:"mode"`

	// Annual risk-free rate as a decimal (e.g. 0.03 = 3%)
	RiskFreeRate float64 `json:"risk_free_rate"`

	// PeriodsPerYear is the annualization factor for Sharpe/Sortino.
	// 타임스탬프에서 추론하지 않음 — 항상 호출자가 지정
	PeriodsPerYear int `json:"periods_per_year"`

	// SlippagePerTrade is subtracted from every trade's P/L before analysis
	SlippagePerTrade float64 `json:"slippage_per_trade"`
}

// DefaultAnalysisConfig returns the standard analysis parameters
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		InitialCapital:   125000,
		Mode:             ModeAdditive,
		RiskFreeRate:     0.0,
		PeriodsPerYear:   252,
		SlippagePerTrade: 0.0,
	}
}
