package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/argus/internal/contracts"
)

// Sentinel errors for boundary validation
// InvalidInput은 즉시 반환 — 절대 기본값으로 대체하지 않음
var (
	ErrInvalidInput     = errors.New("metrics: invalid input")
	ErrInsufficientData = errors.New("metrics: insufficient data")
)

// EquityCurve is the cumulative account value, one point per trade
// plus the starting capital at index 0.
type EquityCurve []float64

// Final returns the last equity point
func (c EquityCurve) Final() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// DrawdownSeries is the fractional decline from the running peak,
// aligned with the equity curve. Values are always <= 0.
type DrawdownSeries []float64

// Min returns the deepest drawdown (= Maximum Drawdown)
func (d DrawdownSeries) Min() float64 {
	min := 0.0
	for _, v := range d {
		if v < min {
			min = v
		}
	}
	return min
}

// Engine computes trading-performance statistics over a trade table.
// ⭐ SSOT: 성과 지표 계산 로직은 여기서만
//
// The engine holds no state: every method is a deterministic function
// of its inputs, and identical inputs yield bit-identical results.
type Engine struct{}

// NewEngine creates a metrics engine
func NewEngine() *Engine {
	return &Engine{}
}

// BuildEquityCurve accumulates capital over the given trades.
// 결과 길이 = len(trades)+1 (curve[0] = initialCapital)
//
// Additive mode adds raw profit/loss; compounding mode multiplies by
// (1 + fractional return on entry notional). Compounding requires a
// positive notional on every trade (fail-closed).
func (e *Engine) BuildEquityCurve(trades []contracts.Trade, initialCapital float64, mode contracts.Mode) (EquityCurve, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be > 0, got %v", ErrInvalidInput, initialCapital)
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("%w: empty trade set", ErrInsufficientData)
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}

	curve := make(EquityCurve, 0, len(trades)+1)
	curve = append(curve, initialCapital)

	equity := initialCapital
	for i, t := range trades {
		switch mode {
		case contracts.ModeAdditive:
			equity += t.ProfitLoss
		case contracts.ModeCompounding:
			if t.Notional() <= 0 {
				return nil, fmt.Errorf("%w: trade %d has no positive notional for compounding", ErrInvalidInput, i)
			}
			equity *= 1 + t.FractionalReturn()
		}
		curve = append(curve, equity)
	}

	return curve, nil
}

// Drawdown computes the fractional decline from the running maximum.
// O(n) 단일 패스 — runningMax는 단조 비감소, 결과는 항상 <= 0
func (e *Engine) Drawdown(curve EquityCurve) DrawdownSeries {
	dd := make(DrawdownSeries, len(curve))

	runningMax := math.Inf(-1)
	for i, v := range curve {
		if v > runningMax {
			runningMax = v
		}
		// runningMax <= 0이면 0으로 나누기 방지 (드로다운 0 처리)
		if runningMax <= 0 {
			dd[i] = 0
			continue
		}
		dd[i] = (v - runningMax) / runningMax
	}

	return dd
}

// ReturnSeries derives the per-trade return series the ratio functions
// and the simulator consume, matching the accumulation mode:
// additive → P/L normalized by initial capital, compounding → fractional
// returns on notional.
func (e *Engine) ReturnSeries(trades []contracts.Trade, cfg contracts.AnalysisConfig) ([]float64, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be > 0", ErrInvalidInput)
	}

	returns := make([]float64, len(trades))
	for i, t := range trades {
		switch cfg.Mode {
		case contracts.ModeCompounding:
			if t.Notional() <= 0 {
				return nil, fmt.Errorf("%w: trade %d has no positive notional", ErrInvalidInput, i)
			}
			returns[i] = t.FractionalReturn()
		default:
			returns[i] = t.ProfitLoss / cfg.InitialCapital
		}
	}
	return returns, nil
}

// ApplySlippage returns a copy of the trades with a fixed cost deducted
// from every trade's P/L. 원본은 변경하지 않음
func ApplySlippage(trades []contracts.Trade, slippage float64) []contracts.Trade {
	if slippage == 0 {
		return trades
	}
	out := make([]contracts.Trade, len(trades))
	copy(out, trades)
	for i := range out {
		out[i].ProfitLoss -= slippage
	}
	return out
}
