package metrics

import (
	"math"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

// RollingPoint is one point of a rolling metric series
type RollingPoint struct {
	Date  time.Time `json:"date"`
	Value Metric    `json:"value"`
}

// RollingSortino computes a windowed Sortino ratio over a daily-bucketed
// P/L series. Trades are resampled onto calendar days (빈 날은 0),
// normalized by initial capital, then annualized with √periodsPerYear.
//
// Points whose window has no downside observations carry the undefined
// sentinel — the caller renders them as gaps, not zeros.
func (e *Engine) RollingSortino(trades []contracts.Trade, cfg contracts.AnalysisConfig, windowDays int) []RollingPoint {
	if len(trades) == 0 || windowDays <= 0 || cfg.InitialCapital <= 0 || cfg.PeriodsPerYear <= 0 {
		return nil
	}

	days, rets := dailyReturns(trades, cfg.InitialCapital)
	if len(days) < windowDays {
		return nil
	}

	perDayRF := cfg.RiskFreeRate / float64(cfg.PeriodsPerYear)
	annualize := math.Sqrt(float64(cfg.PeriodsPerYear))

	out := make([]RollingPoint, 0, len(days)-windowDays+1)
	for i := windowDays - 1; i < len(days); i++ {
		window := rets[i-windowDays+1 : i+1]

		var sumExcess, sumSqNeg float64
		for _, r := range window {
			ex := r - perDayRF
			sumExcess += ex
			if ex < 0 {
				sumSqNeg += ex * ex
			}
		}

		point := RollingPoint{Date: days[i], Value: Undefined()}
		downside := math.Sqrt(sumSqNeg / float64(windowDays))
		if downside > 0 {
			meanExcess := sumExcess / float64(windowDays)
			point.Value = Defined(meanExcess / downside * annualize)
		}
		out = append(out, point)
	}

	return out
}

// dailyReturns buckets trade P/L onto a continuous calendar-day grid
// (거래 없는 날 = 0) and normalizes by initial capital.
func dailyReturns(trades []contracts.Trade, initialCapital float64) ([]time.Time, []float64) {
	byDay := make(map[time.Time]float64)
	var first, last time.Time

	for _, t := range trades {
		// 달력 날짜 기준 버킷 — time.Time의 Location이 섞여 있어도
		// (예: DB TIMESTAMPTZ vs CSV UTC) 같은 날이면 같은 키
		day := calendarDay(t.ExitTime)
		byDay[day] += t.ProfitLoss
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	if first.IsZero() {
		return nil, nil
	}

	// map 순회 대신 달력 그리드를 직접 생성 (결정적 순서)
	n := int(last.Sub(first).Hours()/24) + 1
	days := make([]time.Time, 0, n)
	rets := make([]float64, 0, n)
	for d := first; !d.After(last); d = d.Add(24 * time.Hour) {
		days = append(days, d)
		rets = append(rets, byDay[d]/initialCapital)
	}

	return days, rets
}

// calendarDay collapses a timestamp onto its calendar date in that
// timestamp's own zone, normalized to a UTC map key.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
