package metrics

import (
	"math"

	"github.com/wonny/argus/internal/contracts"
)

// RunUpBucket groups losing trades by the favorable excursion they
// reached before closing negative (놓친 이익 분석용).
type RunUpBucket struct {
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"` // +Inf는 JSON에서 생략되므로 0으로 기록 후 Label로 구분
	Count   int     `json:"count"`
	AvgLoss Metric  `json:"avg_loss"` // 실제 실현 손실 (음수)
}

// LossBucket groups losing trades by loss magnitude
type LossBucket struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	TotalLoss float64 `json:"total_loss"` // 음수
}

// ExcursionAnalysis is the run-up + loss-severity breakdown for
// losing trades. Nil RunUp data → RunUpBuckets is empty.
type ExcursionAnalysis struct {
	RunUpBuckets []RunUpBucket `json:"run_up_buckets"`
	LossBuckets  []LossBucket  `json:"loss_buckets"`
	LosingTrades int           `json:"losing_trades"`
}

// 기본 버킷 경계 — 원 시스템의 트레일링 SL 분석과 동일한 구간
var runUpBounds = []struct {
	min, max float64
	label    string
}{
	{3000, 5000, "3k - 5k"},
	{5000, 8000, "5k - 8k"},
	{8000, 12000, "8k - 12k"},
	{12000, 20000, "12k - 20k"},
	{20000, math.Inf(1), "> 20k"},
}

var lossBounds = []struct {
	min, max float64 // 손실 크기(양수) 기준
	label    string
}{
	{0, 3000, "Small (0 - 3k)"},
	{3000, 5000, "Medium (3k - 5k)"},
	{5000, 10000, "Large (5k - 10k)"},
	{10000, math.Inf(1), "Massive (> 10k)"},
}

// AnalyzeExcursions buckets losing trades by run-up and by loss size.
// Run-up 데이터가 전혀 없으면 run-up 버킷은 생략
func (e *Engine) AnalyzeExcursions(trades []contracts.Trade) *ExcursionAnalysis {
	var losing []contracts.Trade
	var runUpSum float64
	for _, t := range trades {
		if t.IsLoss() {
			losing = append(losing, t)
		}
		runUpSum += t.RunUp
	}

	out := &ExcursionAnalysis{LosingTrades: len(losing)}
	if len(losing) == 0 {
		return out
	}

	// Loss severity
	for _, b := range lossBounds {
		bucket := LossBucket{Label: b.label}
		for _, t := range losing {
			// 구간은 (min, max] — 손실 크기는 항상 양수
			size := -t.ProfitLoss
			if size > b.min && size <= b.max {
				bucket.Count++
				bucket.TotalLoss += t.ProfitLoss
			}
		}
		out.LossBuckets = append(out.LossBuckets, bucket)
	}

	// Run-up buckets (데이터가 있을 때만)
	if runUpSum == 0 {
		return out
	}
	for _, b := range runUpBounds {
		bucket := RunUpBucket{Label: b.label, Min: b.min}
		if !math.IsInf(b.max, 1) {
			bucket.Max = b.max
		}
		var lossSum float64
		for _, t := range losing {
			if t.RunUp >= b.min && t.RunUp < b.max {
				bucket.Count++
				lossSum += t.ProfitLoss
			}
		}
		if bucket.Count > 0 {
			bucket.AvgLoss = Defined(lossSum / float64(bucket.Count))
		} else {
			bucket.AvgLoss = Undefined()
		}
		out.RunUpBuckets = append(out.RunUpBuckets, bucket)
	}

	return out
}
