package metrics

import (
	"sort"

	"github.com/wonny/argus/internal/contracts"
)

// ProjectionMode selects how yearly raw profit is scaled forward
type ProjectionMode string

const (
	// ProjectionLinear scales the i-th year by (1 + i)
	ProjectionLinear ProjectionMode = "linear"

	// ProjectionProportional scales by current equity / initial capital,
	// floored at 0.1x so a deep drawdown never kills the projection.
	ProjectionProportional ProjectionMode = "proportional"
)

// IsValid reports whether the mode is known
func (m ProjectionMode) IsValid() bool {
	return m == ProjectionLinear || m == ProjectionProportional
}

// YearProjection is one simulated year of compounded growth
type YearProjection struct {
	Year          int     `json:"year"`
	StartBalance  float64 `json:"start_balance"`
	ScalingFactor float64 `json:"scaling_factor"`
	RawProfit     float64 `json:"raw_profit"`
	Tax           float64 `json:"tax"`
	NetProfit     float64 `json:"net_profit"`
	EndBalance    float64 `json:"end_balance"`
	GrowthPct     float64 `json:"growth_pct"`
}

// Project compounds the historical yearly P/L forward, applying tax to
// positive years. taxRate은 소수 (0.38 = 38%).
//
// Linear mode replays year i at (1+i)x scale; proportional mode scales
// by the running equity ratio, floored at 0.1x. Pure arithmetic over
// the trade history — no randomness involved.
func (e *Engine) Project(trades []contracts.Trade, initialCapital float64, mode ProjectionMode, taxRate float64) []YearProjection {
	if len(trades) == 0 || initialCapital <= 0 || !mode.IsValid() {
		return nil
	}

	byYear := make(map[int]float64)
	for _, t := range trades {
		byYear[t.ExitTime.Year()] += t.ProfitLoss
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearProjection, 0, len(years))
	equity := initialCapital

	for i, year := range years {
		rawProfit := byYear[year]

		var factor float64
		if mode == ProjectionLinear {
			factor = 1.0 + float64(i)
		} else {
			factor = equity / initialCapital
			if factor < 0.1 {
				factor = 0.1
			}
		}

		gross := rawProfit * factor
		var tax float64
		if gross > 0 {
			tax = gross * taxRate
		}
		net := gross - tax

		row := YearProjection{
			Year:          year,
			StartBalance:  equity,
			ScalingFactor: factor,
			RawProfit:     rawProfit,
			Tax:           tax,
			NetProfit:     net,
			EndBalance:    equity + net,
		}
		if equity > 0 {
			row.GrowthPct = net / equity * 100
		}
		out = append(out, row)
		equity = row.EndBalance
	}

	return out
}
