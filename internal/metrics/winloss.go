package metrics

import (
	"math"

	"github.com/wonny/argus/internal/contracts"
)

// WinLoss holds the win/loss trade statistics
type WinLoss struct {
	TotalTrades  int     `json:"total_trades"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate"` // 0..1
	AvgWin       Metric  `json:"avg_win"`
	AvgLoss      Metric  `json:"avg_loss"` // 크기(양수)로 표현
	RiskReward   Metric  `json:"risk_reward"`
	ProfitFactor Metric  `json:"profit_factor"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"` // 크기(양수)로 표현
}

// WinLossStats computes per-trade win/loss statistics.
// 손실 거래가 없으면 profit factor는 unbounded 센티널 — 에러 아님
func (e *Engine) WinLossStats(trades []contracts.Trade) WinLoss {
	wl := WinLoss{TotalTrades: len(trades)}
	if len(trades) == 0 {
		wl.AvgWin = Undefined()
		wl.AvgLoss = Undefined()
		wl.RiskReward = Undefined()
		wl.ProfitFactor = Undefined()
		return wl
	}

	var grossProfit, grossLoss float64
	for _, t := range trades {
		pl := t.ProfitLoss
		if math.IsNaN(pl) || math.IsInf(pl, 0) {
			// 비정상 값은 해당 지표만 무효화 (요약 전체를 오염시키지 않음)
			continue
		}
		switch {
		case pl > 0:
			wl.Wins++
			grossProfit += pl
		case pl < 0:
			wl.Losses++
			grossLoss += -pl
		}
	}

	wl.GrossProfit = grossProfit
	wl.GrossLoss = grossLoss
	wl.WinRate = float64(wl.Wins) / float64(wl.TotalTrades)

	if wl.Wins > 0 {
		wl.AvgWin = Defined(grossProfit / float64(wl.Wins))
	} else {
		wl.AvgWin = Undefined()
	}
	if wl.Losses > 0 {
		wl.AvgLoss = Defined(grossLoss / float64(wl.Losses))
	} else {
		wl.AvgLoss = Undefined()
	}

	// Risk:Reward = 평균익절 / 평균손절
	if wl.AvgWin.IsDefined() && wl.AvgLoss.IsDefined() {
		wl.RiskReward = Ratio(wl.AvgWin.Value, wl.AvgLoss.Value)
	} else {
		wl.RiskReward = Undefined()
	}

	// Profit factor: 손실 0 + 이익 존재 → unbounded
	switch {
	case grossLoss > 0:
		wl.ProfitFactor = Defined(grossProfit / grossLoss)
	case grossProfit > 0:
		wl.ProfitFactor = Unbounded()
	default:
		wl.ProfitFactor = Undefined()
	}

	return wl
}
