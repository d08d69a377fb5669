package metrics

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

func tradesFromPL(pls ...float64) []contracts.Trade {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := make([]contracts.Trade, len(pls))
	for i, pl := range pls {
		trades[i] = contracts.Trade{
			ExitTime:   base.AddDate(0, 0, i),
			Symbol:     "NQ1!",
			EntryPrice: 1000,
			ExitPrice:  1000 + pl,
			Size:       1,
			ProfitLoss: pl,
		}
	}
	return trades
}

func TestBuildEquityCurve_Additive(t *testing.T) {
	e := NewEngine()

	// 시나리오: [+100, -50, +200, -100] @ 1000
	trades := tradesFromPL(100, -50, 200, -100)
	curve, err := e.BuildEquityCurve(trades, 1000, contracts.ModeAdditive)
	if err != nil {
		t.Fatalf("BuildEquityCurve() error = %v", err)
	}

	want := []float64{1000, 1100, 1050, 1250, 1150}
	if len(curve) != len(want) {
		t.Fatalf("curve length = %d, want %d", len(curve), len(want))
	}
	for i, w := range want {
		if curve[i] != w {
			t.Errorf("curve[%d] = %v, want %v", i, curve[i], w)
		}
	}

	// 가산 모드 재구성: equity[i] - equity[i-1] == profit_loss[i]
	for i, tr := range trades {
		if diff := curve[i+1] - curve[i]; diff != tr.ProfitLoss {
			t.Errorf("equity diff at %d = %v, want %v", i, diff, tr.ProfitLoss)
		}
	}
}

func TestBuildEquityCurve_Compounding(t *testing.T) {
	e := NewEngine()

	trades := tradesFromPL(100, -50) // 10% 이익, 5% 손실 (notional 1000)
	curve, err := e.BuildEquityCurve(trades, 1000, contracts.ModeCompounding)
	if err != nil {
		t.Fatalf("BuildEquityCurve() error = %v", err)
	}

	want := []float64{1000, 1100, 1045}
	for i, w := range want {
		if math.Abs(curve[i]-w) > 1e-9 {
			t.Errorf("curve[%d] = %v, want %v", i, curve[i], w)
		}
	}
}

func TestBuildEquityCurve_InvalidInput(t *testing.T) {
	e := NewEngine()
	trades := tradesFromPL(100)

	if _, err := e.BuildEquityCurve(trades, 0, contracts.ModeAdditive); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero capital: error = %v, want ErrInvalidInput", err)
	}
	if _, err := e.BuildEquityCurve(nil, 1000, contracts.ModeAdditive); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty trades: error = %v, want ErrInsufficientData", err)
	}

	// 컴파운딩은 notional 없는 트레이드에서 실패 (fail-closed)
	broken := []contracts.Trade{{ExitTime: time.Now(), EntryPrice: 0, Size: 0, ProfitLoss: 10}}
	if _, err := e.BuildEquityCurve(broken, 1000, contracts.ModeCompounding); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero notional compounding: error = %v, want ErrInvalidInput", err)
	}
}

func TestDrawdown(t *testing.T) {
	e := NewEngine()

	curve := EquityCurve{1000, 1100, 1050, 1250, 1150}
	dd := e.Drawdown(curve)

	// 모든 값은 <= 0
	for i, v := range dd {
		if v > 0 {
			t.Errorf("dd[%d] = %v, want <= 0", i, v)
		}
	}

	// 최대 드로다운: (1150-1250)/1250 = -8%
	wantMin := (1150.0 - 1250.0) / 1250.0
	if math.Abs(dd.Min()-wantMin) > 1e-12 {
		t.Errorf("dd.Min() = %v, want %v", dd.Min(), wantMin)
	}

	// 중간 피크 대비: (1050-1100)/1100 ≈ -4.545%
	wantMid := (1050.0 - 1100.0) / 1100.0
	if math.Abs(dd[2]-wantMid) > 1e-12 {
		t.Errorf("dd[2] = %v, want %v", dd[2], wantMid)
	}
}

func TestDrawdown_NonPositivePeak(t *testing.T) {
	e := NewEngine()

	// 피크가 0 이하인 구간은 0으로 나누지 않고 드로다운 0 처리
	dd := e.Drawdown(EquityCurve{-100, -50, 10, 5})
	if dd[0] != 0 || dd[1] != 0 {
		t.Errorf("negative-peak drawdowns = %v, want leading zeros", dd[:2])
	}
	if dd[3] >= 0 {
		t.Errorf("dd[3] = %v, want < 0 once a positive peak exists", dd[3])
	}
	for i, v := range dd {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("dd[%d] = %v, want finite", i, v)
		}
	}
}

func TestReturnSeries(t *testing.T) {
	e := NewEngine()
	trades := tradesFromPL(100, -50)

	additive, err := e.ReturnSeries(trades, contracts.AnalysisConfig{InitialCapital: 1000, Mode: contracts.ModeAdditive})
	if err != nil {
		t.Fatalf("ReturnSeries(additive) error = %v", err)
	}
	if additive[0] != 0.1 || additive[1] != -0.05 {
		t.Errorf("additive returns = %v, want [0.1 -0.05]", additive)
	}

	compounding, err := e.ReturnSeries(trades, contracts.AnalysisConfig{InitialCapital: 1000, Mode: contracts.ModeCompounding})
	if err != nil {
		t.Fatalf("ReturnSeries(compounding) error = %v", err)
	}
	if compounding[0] != 0.1 || compounding[1] != -0.05 {
		t.Errorf("compounding returns = %v, want [0.1 -0.05]", compounding)
	}
}

func TestApplySlippage(t *testing.T) {
	trades := tradesFromPL(100, -50)
	adjusted := ApplySlippage(trades, 5)

	if adjusted[0].ProfitLoss != 95 || adjusted[1].ProfitLoss != -55 {
		t.Errorf("adjusted P/L = [%v %v], want [95 -55]", adjusted[0].ProfitLoss, adjusted[1].ProfitLoss)
	}

	// 원본 불변
	if trades[0].ProfitLoss != 100 {
		t.Errorf("original mutated: %v", trades[0].ProfitLoss)
	}

	// 슬리피지 0이면 같은 슬라이스 반환
	same := ApplySlippage(trades, 0)
	if &same[0] != &trades[0] {
		t.Error("zero slippage should return the input unchanged")
	}
}
