package contracts

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestTrade_IsValid(t *testing.T) {
	exit := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		trade Trade
		want  bool
	}{
		{
			name: "valid trade",
			trade: Trade{
				ExitTime:   exit,
				Symbol:     "NQ1!",
				EntryPrice: 18000,
				ExitPrice:  18100,
				Size:       1,
				ProfitLoss: 100,
			},
			want: true,
		},
		{
			name: "missing exit time",
			trade: Trade{
				Symbol:     "NQ1!",
				EntryPrice: 18000,
				ExitPrice:  18100,
				Size:       1,
				ProfitLoss: 100,
			},
			want: false,
		},
		{
			name: "non-positive entry price",
			trade: Trade{
				ExitTime:   exit,
				Symbol:     "NQ1!",
				EntryPrice: 0,
				ExitPrice:  18100,
				Size:       1,
				ProfitLoss: 100,
			},
			want: false,
		},
		{
			name: "NaN profit loss",
			trade: Trade{
				ExitTime:   exit,
				Symbol:     "NQ1!",
				EntryPrice: 18000,
				ExitPrice:  18100,
				Size:       1,
				ProfitLoss: math.NaN(),
			},
			want: false,
		},
		{
			name: "infinite profit loss",
			trade: Trade{
				ExitTime:   exit,
				Symbol:     "NQ1!",
				EntryPrice: 18000,
				ExitPrice:  18100,
				Size:       1,
				ProfitLoss: math.Inf(1),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trade.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrade_Notional(t *testing.T) {
	// 숏 포지션도 명목가치는 양수
	short := Trade{EntryPrice: 100, Size: -5}
	if got := short.Notional(); got != 500 {
		t.Errorf("Notional() = %v, want 500", got)
	}

	long := Trade{EntryPrice: 250, Size: 2}
	if got := long.Notional(); got != 500 {
		t.Errorf("Notional() = %v, want 500", got)
	}
}

func TestTrade_FractionalReturn(t *testing.T) {
	trade := Trade{EntryPrice: 1000, Size: 1, ProfitLoss: 50}
	if got := trade.FractionalReturn(); got != 0.05 {
		t.Errorf("FractionalReturn() = %v, want 0.05", got)
	}

	// Zero notional yields zero, not NaN
	broken := Trade{EntryPrice: 0, Size: 1, ProfitLoss: 50}
	if got := broken.FractionalReturn(); got != 0 {
		t.Errorf("FractionalReturn() with zero notional = %v, want 0", got)
	}
}

func TestTradeTable_SortByExitTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := &TradeTable{
		Strategy: "alpha",
		Trades: []Trade{
			{ExitTime: base.AddDate(0, 0, 2), Symbol: "C", EntryPrice: 1, ExitPrice: 1, Size: 1},
			{ExitTime: base, Symbol: "A", EntryPrice: 1, ExitPrice: 1, Size: 1},
			{ExitTime: base.AddDate(0, 0, 1), Symbol: "B", EntryPrice: 1, ExitPrice: 1, Size: 1},
		},
	}

	table.SortByExitTime()

	want := []string{"A", "B", "C"}
	for i, sym := range want {
		if table.Trades[i].Symbol != sym {
			t.Errorf("Trades[%d].Symbol = %s, want %s", i, table.Trades[i].Symbol, sym)
		}
	}
}

func TestTradeTable_Span(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	table := &TradeTable{
		Strategy: "alpha",
		Trades: []Trade{
			{ExitTime: base.AddDate(1, 0, 0)}, // 2024-01-01
			{ExitTime: base},                  // 2023-01-01
			{ExitTime: base.AddDate(0, 6, 0)}, // 2023-07-01
		},
	}

	first, last, years := table.Span()
	if !first.Equal(base) {
		t.Errorf("first = %v, want %v", first, base)
	}
	if !last.Equal(base.AddDate(1, 0, 0)) {
		t.Errorf("last = %v, want %v", last, base.AddDate(1, 0, 0))
	}

	// 365 days / 365.25 ≈ 0.99932
	if years < 0.99 || years > 1.01 {
		t.Errorf("years = %v, want ≈1.0", years)
	}
}

func TestTradeTable_SpanEmpty(t *testing.T) {
	table := &TradeTable{Strategy: "empty"}

	first, last, years := table.Span()
	if !first.IsZero() || !last.IsZero() || years != 0 {
		t.Errorf("Span() on empty table = (%v, %v, %v), want zero values", first, last, years)
	}
}

func TestTradeTable_TotalProfit(t *testing.T) {
	table := &TradeTable{
		Trades: []Trade{
			{ProfitLoss: 100},
			{ProfitLoss: -50},
			{ProfitLoss: 200},
		},
	}

	if got := table.TotalProfit(); got != 250 {
		t.Errorf("TotalProfit() = %v, want 250", got)
	}
}

func TestTrade_JSON(t *testing.T) {
	original := Trade{
		ExitTime:   time.Date(2024, 1, 15, 9, 45, 0, 0, time.UTC),
		Symbol:     "ES1!",
		EntryPrice: 4800.25,
		ExitPrice:  4812.50,
		Size:       2,
		ProfitLoss: 24.5,
		RunUp:      1.2,
	}

	// Marshal
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Unmarshal
	var decoded Trade
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	// Verify
	if !decoded.ExitTime.Equal(original.ExitTime) {
		t.Errorf("ExitTime mismatch: got %v, want %v", decoded.ExitTime, original.ExitTime)
	}
	if decoded.Symbol != original.Symbol {
		t.Errorf("Symbol mismatch: got %s, want %s", decoded.Symbol, original.Symbol)
	}
	if decoded.ProfitLoss != original.ProfitLoss {
		t.Errorf("ProfitLoss mismatch: got %f, want %f", decoded.ProfitLoss, original.ProfitLoss)
	}
}

func TestMode_IsValid(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModeAdditive, true},
		{ModeCompounding, true},
		{Mode("geometric"), false},
		{Mode(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()

	if cfg.InitialCapital != 125000 {
		t.Errorf("InitialCapital = %v, want 125000", cfg.InitialCapital)
	}
	if cfg.Mode != ModeAdditive {
		t.Errorf("Mode = %v, want additive", cfg.Mode)
	}
	if cfg.PeriodsPerYear != 252 {
		t.Errorf("PeriodsPerYear = %v, want 252", cfg.PeriodsPerYear)
	}
}
