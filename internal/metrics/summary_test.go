package metrics

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

func analysisConfig() contracts.AnalysisConfig {
	return contracts.AnalysisConfig{
		InitialCapital: 1000,
		Mode:           contracts.ModeAdditive,
		RiskFreeRate:   0,
		PeriodsPerYear: 252,
	}
}

func TestSummarize_ScenarioA(t *testing.T) {
	e := NewEngine()

	table := &contracts.TradeTable{
		Strategy: "alpha",
		Trades:   tradesFromPL(100, -50, 200, -100),
	}

	s, err := e.Summarize(table, analysisConfig())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	wantCurve := []float64{1000, 1100, 1050, 1250, 1150}
	for i, w := range wantCurve {
		if s.EquityCurve[i] != w {
			t.Errorf("EquityCurve[%d] = %v, want %v", i, s.EquityCurve[i], w)
		}
	}

	if s.NetProfit != 150 {
		t.Errorf("NetProfit = %v, want 150", s.NetProfit)
	}
	if s.TotalTrades != 4 {
		t.Errorf("TotalTrades = %v, want 4", s.TotalTrades)
	}
	if s.WinRate != 0.5 {
		t.Errorf("WinRate = %v, want 0.5", s.WinRate)
	}

	// 최대 드로다운 = (1150-1250)/1250 = -8%
	if math.Abs(s.MaxDrawdown-(-0.08)) > 1e-12 {
		t.Errorf("MaxDrawdown = %v, want -0.08", s.MaxDrawdown)
	}

	// 요약의 MaxDrawdown == 시리즈 최솟값
	if s.MaxDrawdown != s.Drawdown.Min() {
		t.Errorf("MaxDrawdown %v != Drawdown.Min() %v", s.MaxDrawdown, s.Drawdown.Min())
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	e := NewEngine()

	table := &contracts.TradeTable{
		Strategy: "alpha",
		Trades:   tradesFromPL(100, -50, 200, -100, 75, -25),
	}
	cfg := analysisConfig()

	s1, err := e.Summarize(table, cfg)
	if err != nil {
		t.Fatalf("first Summarize() error = %v", err)
	}
	s2, err := e.Summarize(table, cfg)
	if err != nil {
		t.Fatalf("second Summarize() error = %v", err)
	}

	// 순수 함수: 동일 입력 → 비트 단위 동일 결과
	j1, _ := json.Marshal(s1)
	j2, _ := json.Marshal(s2)
	if string(j1) != string(j2) {
		t.Error("Summarize() is not deterministic for identical inputs")
	}
}

func TestSummarize_UnsortedInput(t *testing.T) {
	e := NewEngine()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// 역순 입력도 exit_time 기준으로 정렬 후 계산
	table := &contracts.TradeTable{
		Strategy: "alpha",
		Trades: []contracts.Trade{
			{ExitTime: base.AddDate(0, 0, 2), EntryPrice: 1000, ExitPrice: 1200, Size: 1, ProfitLoss: 200},
			{ExitTime: base, EntryPrice: 1000, ExitPrice: 1100, Size: 1, ProfitLoss: 100},
			{ExitTime: base.AddDate(0, 0, 1), EntryPrice: 1000, ExitPrice: 950, Size: 1, ProfitLoss: -50},
		},
	}

	s, err := e.Summarize(table, analysisConfig())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	want := []float64{1000, 1100, 1050, 1250}
	for i, w := range want {
		if s.EquityCurve[i] != w {
			t.Errorf("EquityCurve[%d] = %v, want %v", i, s.EquityCurve[i], w)
		}
	}

	// 원본 순서는 보존
	if table.Trades[0].ProfitLoss != 200 {
		t.Error("Summarize() mutated the caller's table")
	}
}

func TestSummarize_ScenarioB_AllWinning(t *testing.T) {
	e := NewEngine()

	table := &contracts.TradeTable{
		Strategy: "winner",
		Trades:   tradesFromPL(100, 200, 50),
	}

	s, err := e.Summarize(table, analysisConfig())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// 손실 없음 → profit factor unbounded, Sortino undefined — 둘 다 에러 아님
	if s.ProfitFactor.Status != StatusUnbounded {
		t.Errorf("ProfitFactor status = %v, want unbounded", s.ProfitFactor.Status)
	}
	if s.Sortino.Status != StatusUndefined {
		t.Errorf("Sortino status = %v, want undefined", s.Sortino.Status)
	}
	if s.AvgLoss.Status != StatusUndefined {
		t.Errorf("AvgLoss status = %v, want undefined", s.AvgLoss.Status)
	}
	if s.WinRate != 1.0 {
		t.Errorf("WinRate = %v, want 1.0", s.WinRate)
	}
}

func TestSummarize_SingleTradeBoundary(t *testing.T) {
	e := NewEngine()

	table := &contracts.TradeTable{
		Strategy: "single",
		Trades:   tradesFromPL(-100),
	}

	s, err := e.Summarize(table, analysisConfig())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// 단일 트레이드: Sharpe/Sortino는 표본 부족으로 undefined
	if s.Sharpe.Status != StatusUndefined {
		t.Errorf("Sharpe status = %v, want undefined", s.Sharpe.Status)
	}
	if s.Sortino.Status != StatusUndefined {
		t.Errorf("Sortino status = %v, want undefined", s.Sortino.Status)
	}

	// 드로다운은 잘 정의됨: (900-1000)/1000 = -10%
	if math.Abs(s.MaxDrawdown-(-0.1)) > 1e-12 {
		t.Errorf("MaxDrawdown = %v, want -0.1", s.MaxDrawdown)
	}
}

func TestSummarize_InvalidInput(t *testing.T) {
	e := NewEngine()

	if _, err := e.Summarize(&contracts.TradeTable{}, analysisConfig()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty table: error = %v, want ErrInsufficientData", err)
	}

	cfg := analysisConfig()
	cfg.InitialCapital = -1
	table := &contracts.TradeTable{Trades: tradesFromPL(100)}
	if _, err := e.Summarize(table, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad capital: error = %v, want ErrInvalidInput", err)
	}

	cfg = analysisConfig()
	cfg.PeriodsPerYear = 0
	if _, err := e.Summarize(table, cfg); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad periods: error = %v, want ErrInvalidInput", err)
	}
}

func TestSummarize_Slippage(t *testing.T) {
	e := NewEngine()

	table := &contracts.TradeTable{
		Strategy: "alpha",
		Trades:   tradesFromPL(100, -50),
	}
	cfg := analysisConfig()
	cfg.SlippagePerTrade = 10

	s, err := e.Summarize(table, cfg)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// (100-10) + (-50-10) = 30
	if s.NetProfit != 30 {
		t.Errorf("NetProfit = %v, want 30", s.NetProfit)
	}
}

func TestDrawdownDurationDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.AddDate(0, 0, 3),
		base.AddDate(0, 0, 10),
		base.AddDate(0, 0, 12),
	}

	// dd[0]=시작점, 이후 3일~10일 구간이 수면 아래 (7일)
	dd := DrawdownSeries{0, 0, -0.05, -0.02, 0}
	if got := drawdownDurationDays(times, dd); got != 7 {
		t.Errorf("drawdownDurationDays() = %d, want 7", got)
	}

	// 드로다운 없음
	flat := DrawdownSeries{0, 0, 0, 0, 0}
	if got := drawdownDurationDays(times, flat); got != 0 {
		t.Errorf("no-drawdown duration = %d, want 0", got)
	}

	// 회복 없이 끝나는 경우: 마지막까지의 기간
	never := DrawdownSeries{0, 0, -0.05, -0.08, -0.02}
	if got := drawdownDurationDays(times, never); got != 9 {
		t.Errorf("unrecovered duration = %d, want 9", got)
	}
}
