package metrics

import (
	"math"
	"sort"
)

// SharpeRatio annualizes mean excess return over its sample stdev.
// 관측치 2개 미만 또는 분산 0 → undefined (크래시 아님)
func (e *Engine) SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) Metric {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return Undefined()
	}

	perPeriodRF := riskFreeRate / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return Undefined()
		}
		excess[i] = r - perPeriodRF
	}

	sd := stdDev(excess)
	if sd == 0 {
		return Undefined()
	}

	return Defined(mean(excess) / sd * math.Sqrt(float64(periodsPerYear)))
}

// SortinoRatio is Sharpe with downside deviation in the denominator:
// only negative excess returns count as risk.
// 음수 초과수익이 없으면 undefined — "하방 리스크 미관측"은 정상 결과
func (e *Engine) SortinoRatio(returns []float64, riskFreeRate float64, periodsPerYear int) Metric {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return Undefined()
	}

	perPeriodRF := riskFreeRate / float64(periodsPerYear)

	var sumExcess, sumSqNeg float64
	var negCount int
	for _, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return Undefined()
		}
		ex := r - perPeriodRF
		sumExcess += ex
		if ex < 0 {
			sumSqNeg += ex * ex
			negCount++
		}
	}

	if negCount == 0 {
		return Undefined()
	}

	downside := math.Sqrt(sumSqNeg / float64(len(returns)))
	if downside == 0 {
		return Undefined()
	}

	meanExcess := sumExcess / float64(len(returns))
	return Defined(meanExcess / downside * math.Sqrt(float64(periodsPerYear)))
}

// CalmarRatio divides annualized return by max drawdown magnitude.
// 드로다운 0 → undefined
func (e *Engine) CalmarRatio(cagr, maxDrawdown float64) Metric {
	return Ratio(cagr, math.Abs(maxDrawdown))
}

// CAGR computes the compound annual growth rate.
// 전액 손실(finalCapital <= 0)은 정확히 -100% — NaN이 아닌 정의된 결과
func (e *Engine) CAGR(initialCapital, finalCapital, totalYears float64) Metric {
	if initialCapital <= 0 || totalYears <= 0 {
		return Undefined()
	}
	if math.IsNaN(finalCapital) || math.IsInf(finalCapital, 0) {
		return Undefined()
	}
	if finalCapital <= 0 {
		return Defined(-1.0)
	}
	return Defined(math.Pow(finalCapital/initialCapital, 1/totalYears) - 1)
}

// OmegaRatio is the gain/loss ratio of excess returns at the
// per-period risk-free threshold. 손실 없음 → unbounded
func (e *Engine) OmegaRatio(returns []float64, riskFreeRate float64, periodsPerYear int) Metric {
	if len(returns) == 0 || periodsPerYear <= 0 {
		return Undefined()
	}

	perPeriodRF := riskFreeRate / float64(periodsPerYear)

	var gains, losses float64
	for _, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return Undefined()
		}
		ex := r - perPeriodRF
		if ex > 0 {
			gains += ex
		} else {
			losses += -ex
		}
	}

	if losses == 0 {
		if gains == 0 {
			return Undefined()
		}
		return Unbounded()
	}
	return Defined(gains / losses)
}

// TailRatio is |P95| / |P5| of the per-trade return distribution.
// 5th 백분위수가 0이면 undefined
func (e *Engine) TailRatio(returns []float64) Metric {
	if len(returns) == 0 {
		return Undefined()
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	for _, r := range sorted {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return Undefined()
		}
	}
	sort.Float64s(sorted)

	p95 := percentile(sorted, 95)
	p05 := math.Abs(percentile(sorted, 5))
	return Ratio(math.Abs(p95), p05)
}

// =============================================================================
// 통계 유틸리티
// =============================================================================

// mean computes the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev computes the sample standard deviation (n-1)
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// percentile reads the p-th percentile from a sorted slice (선형 보간)
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
