package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

func tradeAt(y int, m time.Month, pl float64) contracts.Trade {
	return contracts.Trade{
		ExitTime:   time.Date(y, m, 15, 0, 0, 0, 0, time.UTC),
		EntryPrice: 1000,
		ExitPrice:  1000 + pl,
		Size:       1,
		ProfitLoss: pl,
	}
}

func TestMonthlyMatrix(t *testing.T) {
	e := NewEngine()

	trades := []contracts.Trade{
		tradeAt(2023, time.January, 100),
		tradeAt(2023, time.January, 50),
		tradeAt(2023, time.June, -30),
		tradeAt(2024, time.March, 200),
	}

	m := e.MonthlyMatrix(trades, 1000)
	if len(m.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.Rows))
	}

	y2023 := m.Rows[0]
	if y2023.Year != 2023 {
		t.Errorf("Rows[0].Year = %d, want 2023", y2023.Year)
	}
	if y2023.Months[0] != 150 {
		t.Errorf("Jan 2023 = %v, want 150", y2023.Months[0])
	}
	if y2023.Months[5] != -30 {
		t.Errorf("Jun 2023 = %v, want -30", y2023.Months[5])
	}
	if y2023.Total != 120 {
		t.Errorf("2023 total = %v, want 120", y2023.Total)
	}

	// 2023 ROI는 초기 자본 1000 기준 12%
	if math.Abs(y2023.ROIPct-12) > 1e-12 {
		t.Errorf("2023 ROI = %v, want 12", y2023.ROIPct)
	}

	// 2024 ROI는 그해 시작 자본 1120 기준
	y2024 := m.Rows[1]
	if math.Abs(y2024.ROIPct-200.0/1120*100) > 1e-12 {
		t.Errorf("2024 ROI = %v, want %v", y2024.ROIPct, 200.0/1120*100)
	}

	if m.GrandTotal != 320 {
		t.Errorf("GrandTotal = %v, want 320", m.GrandTotal)
	}
	if math.Abs(m.TotalROI-32) > 1e-12 {
		t.Errorf("TotalROI = %v, want 32", m.TotalROI)
	}
}

func TestMonthlyMatrix_Empty(t *testing.T) {
	e := NewEngine()
	m := e.MonthlyMatrix(nil, 1000)
	if len(m.Rows) != 0 || m.GrandTotal != 0 {
		t.Errorf("empty matrix = %+v, want zero value", m)
	}
}

func TestProject_Linear(t *testing.T) {
	e := NewEngine()

	trades := []contracts.Trade{
		tradeAt(2022, time.March, 1000),
		tradeAt(2023, time.March, 1000),
		tradeAt(2024, time.March, -500),
	}

	rows := e.Project(trades, 10000, ProjectionLinear, 0)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	// 선형: i년차는 (1+i)배
	if rows[0].ScalingFactor != 1 || rows[1].ScalingFactor != 2 || rows[2].ScalingFactor != 3 {
		t.Errorf("scaling factors = [%v %v %v], want [1 2 3]",
			rows[0].ScalingFactor, rows[1].ScalingFactor, rows[2].ScalingFactor)
	}

	// 1000*1 + 1000*2 + (-500)*3 = 1500
	if rows[2].EndBalance != 11500 {
		t.Errorf("final balance = %v, want 11500", rows[2].EndBalance)
	}
}

func TestProject_ProportionalWithTax(t *testing.T) {
	e := NewEngine()

	trades := []contracts.Trade{
		tradeAt(2022, time.March, 1000),
		tradeAt(2023, time.March, 1000),
	}

	rows := e.Project(trades, 10000, ProjectionProportional, 0.38)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// 1년차: factor 1.0, gross 1000, tax 380, net 620 → 10620
	if rows[0].Tax != 380 || rows[0].EndBalance != 10620 {
		t.Errorf("year 1 = %+v, want tax 380, end 10620", rows[0])
	}

	// 2년차: factor 1.062
	if math.Abs(rows[1].ScalingFactor-1.062) > 1e-12 {
		t.Errorf("year 2 factor = %v, want 1.062", rows[1].ScalingFactor)
	}

	// 손실 연도에는 세금 없음 확인용: 음수 gross → tax 0
	lossRows := e.Project([]contracts.Trade{tradeAt(2022, time.March, -1000)}, 10000, ProjectionProportional, 0.38)
	if lossRows[0].Tax != 0 {
		t.Errorf("loss-year tax = %v, want 0", lossRows[0].Tax)
	}
}

func TestProject_ProportionalFloor(t *testing.T) {
	e := NewEngine()

	// 깊은 손실 후에도 배율은 0.1x 아래로 내려가지 않음
	trades := []contracts.Trade{
		tradeAt(2022, time.March, -9900),
		tradeAt(2023, time.March, 100),
	}

	rows := e.Project(trades, 10000, ProjectionProportional, 0)
	if rows[1].ScalingFactor != 0.1 {
		t.Errorf("floored factor = %v, want 0.1", rows[1].ScalingFactor)
	}
}

func TestAnalyzeExcursions(t *testing.T) {
	e := NewEngine()

	trades := []contracts.Trade{
		{ExitTime: time.Now(), EntryPrice: 1, ExitPrice: 1, Size: 1, ProfitLoss: -2000, RunUp: 4000},
		{ExitTime: time.Now(), EntryPrice: 1, ExitPrice: 1, Size: 1, ProfitLoss: -6000, RunUp: 9000},
		{ExitTime: time.Now(), EntryPrice: 1, ExitPrice: 1, Size: 1, ProfitLoss: 500, RunUp: 1000},
	}

	a := e.AnalyzeExcursions(trades)
	if a.LosingTrades != 2 {
		t.Fatalf("LosingTrades = %d, want 2", a.LosingTrades)
	}

	// 손실 심각도: -2000 → Small, -6000 → Large
	if a.LossBuckets[0].Count != 1 || a.LossBuckets[0].TotalLoss != -2000 {
		t.Errorf("small bucket = %+v", a.LossBuckets[0])
	}
	if a.LossBuckets[2].Count != 1 || a.LossBuckets[2].TotalLoss != -6000 {
		t.Errorf("large bucket = %+v", a.LossBuckets[2])
	}

	// Run-up: 4000 → "3k - 5k", 9000 → "8k - 12k"
	if a.RunUpBuckets[0].Count != 1 {
		t.Errorf("3k-5k bucket count = %d, want 1", a.RunUpBuckets[0].Count)
	}
	if !a.RunUpBuckets[0].AvgLoss.IsDefined() || a.RunUpBuckets[0].AvgLoss.Value != -2000 {
		t.Errorf("3k-5k avg loss = %+v, want -2000", a.RunUpBuckets[0].AvgLoss)
	}
	if a.RunUpBuckets[2].Count != 1 {
		t.Errorf("8k-12k bucket count = %d, want 1", a.RunUpBuckets[2].Count)
	}
}

func TestAnalyzeExcursions_NoRunUpData(t *testing.T) {
	e := NewEngine()

	trades := tradesFromPL(-100, 50)
	a := e.AnalyzeExcursions(trades)

	// Run-up이 전혀 없으면 run-up 버킷은 생략, 손실 버킷은 유지
	if len(a.RunUpBuckets) != 0 {
		t.Errorf("RunUpBuckets = %d entries, want 0", len(a.RunUpBuckets))
	}
	if len(a.LossBuckets) != 4 {
		t.Errorf("LossBuckets = %d entries, want 4", len(a.LossBuckets))
	}
}

func TestRollingSortino(t *testing.T) {
	e := NewEngine()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var trades []contracts.Trade
	pls := []float64{100, -50, 30, -20, 60, -10, 40, -30, 20, 10}
	for i, pl := range pls {
		trades = append(trades, contracts.Trade{
			ExitTime:   base.AddDate(0, 0, i),
			EntryPrice: 1000,
			ExitPrice:  1000 + pl,
			Size:       1,
			ProfitLoss: pl,
		})
	}

	cfg := analysisConfig()
	points := e.RollingSortino(trades, cfg, 5)

	// 10일 데이터에 5일 창 → 6개 포인트
	if len(points) != 6 {
		t.Fatalf("points = %d, want 6", len(points))
	}

	// 날짜는 창의 마지막 날
	if !points[0].Date.Equal(base.AddDate(0, 0, 4)) {
		t.Errorf("points[0].Date = %v, want %v", points[0].Date, base.AddDate(0, 0, 4))
	}

	// 손실이 섞인 창은 정의됨
	if !points[0].Value.IsDefined() {
		t.Errorf("points[0] status = %v, want ok", points[0].Value.Status)
	}
}

func TestRollingSortino_MixedTimeZones(t *testing.T) {
	e := NewEngine()
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	seoul := time.FixedZone("KST", 9*60*60)

	// 같은 시각을 UTC/KST로 번갈아 표현 — 달력 날짜 버킷은 동일해야 함
	var utcTrades, mixedTrades []contracts.Trade
	pls := []float64{100, -50, 30, -20, 60, -10, 40, -30, 20, 10}
	for i, pl := range pls {
		exit := base.AddDate(0, 0, i)
		tr := contracts.Trade{
			ExitTime:   exit,
			EntryPrice: 1000,
			ExitPrice:  1000 + pl,
			Size:       1,
			ProfitLoss: pl,
		}
		utcTrades = append(utcTrades, tr)
		if i%2 == 1 {
			tr.ExitTime = exit.In(seoul)
		}
		mixedTrades = append(mixedTrades, tr)
	}

	cfg := analysisConfig()
	want := e.RollingSortino(utcTrades, cfg, 5)
	got := e.RollingSortino(mixedTrades, cfg, 5)

	if len(got) != len(want) {
		t.Fatalf("points = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Value != want[i].Value {
			t.Errorf("points[%d] = %+v, want %+v", i, got[i].Value, want[i].Value)
		}
	}
}

func TestRollingSortino_InsufficientWindow(t *testing.T) {
	e := NewEngine()

	points := e.RollingSortino(tradesFromPL(100, -50), analysisConfig(), 90)
	if points != nil {
		t.Errorf("short history = %v, want nil", points)
	}
}
