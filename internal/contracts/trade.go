package contracts

import (
	"math"
	"sort"
	"time"
)

// Trade represents one completed (closed) position
// ⭐ SSOT: 트레이드 레코드 정의는 여기서만
type Trade struct {
	ExitTime   time.Time `json:"exit_time"`
	Symbol     string    `json:"symbol"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"` // signed quantity (음수 = 숏)
	ProfitLoss float64   `json:"profit_loss"`

	// RunUp is the max favorable excursion (%) before the trade closed.
	// 소스에 없으면 0
	RunUp float64 `json:"run_up,omitempty"`
}

// IsWin returns true for a profitable trade
func (t Trade) IsWin() bool {
	return t.ProfitLoss > 0
}

// IsLoss returns true for a losing trade
func (t Trade) IsLoss() bool {
	return t.ProfitLoss < 0
}

// Notional returns the position value at entry (entry price × |size|)
func (t Trade) Notional() float64 {
	return t.EntryPrice * math.Abs(t.Size)
}

// FractionalReturn returns profit/loss relative to the entry notional.
// Notional이 0 이하이면 0 (호출자가 Notional() > 0을 먼저 확인)
func (t Trade) FractionalReturn() float64 {
	n := t.Notional()
	if n <= 0 {
		return 0
	}
	return t.ProfitLoss / n
}

// IsValid checks the structural invariants required by the engines
func (t Trade) IsValid() bool {
	if t.ExitTime.IsZero() {
		return false
	}
	if t.EntryPrice <= 0 || t.ExitPrice <= 0 {
		return false
	}
	if math.IsNaN(t.ProfitLoss) || math.IsInf(t.ProfitLoss, 0) {
		return false
	}
	return true
}

// TradeTable is a named, normalized collection of closed trades
type TradeTable struct {
	Strategy string  `json:"strategy"`
	Trades   []Trade `json:"trades"`
}

// Len returns the number of trades
func (tt *TradeTable) Len() int {
	return len(tt.Trades)
}

// SortByExitTime orders trades chronologically (stable)
func (tt *TradeTable) SortByExitTime() {
	sort.SliceStable(tt.Trades, func(i, j int) bool {
		return tt.Trades[i].ExitTime.Before(tt.Trades[j].ExitTime)
	})
}

// TotalProfit returns the sum of all profit/loss values
func (tt *TradeTable) TotalProfit() float64 {
	total := 0.0
	for _, t := range tt.Trades {
		total += t.ProfitLoss
	}
	return total
}

// ProfitLosses returns per-trade P/L values in table order
func (tt *TradeTable) ProfitLosses() []float64 {
	out := make([]float64, len(tt.Trades))
	for i, t := range tt.Trades {
		out[i] = t.ProfitLoss
	}
	return out
}

// Span returns the first/last exit time and the elapsed years between them.
// 1년 = 365.25일 (연환산 기준)
func (tt *TradeTable) Span() (first, last time.Time, years float64) {
	if len(tt.Trades) == 0 {
		return time.Time{}, time.Time{}, 0
	}

	first = tt.Trades[0].ExitTime
	last = tt.Trades[0].ExitTime
	for _, t := range tt.Trades[1:] {
		if t.ExitTime.Before(first) {
			first = t.ExitTime
		}
		if t.ExitTime.After(last) {
			last = t.ExitTime
		}
	}

	years = last.Sub(first).Hours() / 24 / 365.25
	return first, last, years
}
