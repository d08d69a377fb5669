package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/simulation"
	"github.com/wonny/argus/pkg/logger"
)

// fakeSource serves in-memory tables without any backend
type fakeSource struct {
	tables map[string]*contracts.TradeTable
	err    error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Tables(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeSource) Fetch(ctx context.Context, table string) (*contracts.TradeTable, error) {
	tt, ok := f.tables[table]
	if !ok {
		return nil, errors.New("table not found")
	}
	return tt, nil
}

func testTable(strategy string, pls ...float64) *contracts.TradeTable {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tt := &contracts.TradeTable{Strategy: strategy}
	for i, pl := range pls {
		tt.Trades = append(tt.Trades, contracts.Trade{
			ExitTime:   base.AddDate(0, 0, i*7),
			EntryPrice: 100,
			ExitPrice:  100 + pl,
			Size:       1,
			ProfitLoss: pl,
		})
	}
	return tt
}

func newTestAnalyzer(src contracts.Source) *Analyzer {
	return NewAnalyzer(src, Options{}, logger.NewNop())
}

func TestAnalyzeTable(t *testing.T) {
	src := &fakeSource{tables: map[string]*contracts.TradeTable{
		"alpha": testTable("alpha", 100, -50, 200, -100),
	}}
	a := newTestAnalyzer(src)

	summary, err := a.AnalyzeTable(context.Background(), "alpha", profile.Default())
	if err != nil {
		t.Fatalf("AnalyzeTable() error: %v", err)
	}

	if summary.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", summary.TotalTrades)
	}
	if summary.NetProfit != 150 {
		t.Errorf("NetProfit = %v, want 150", summary.NetProfit)
	}
}

func TestAnalyzeTable_MissingTable(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{tables: map[string]*contracts.TradeTable{}})

	if _, err := a.AnalyzeTable(context.Background(), "ghost", profile.Default()); err == nil {
		t.Error("expected error for missing table, got nil")
	}
}

func TestSimulateTable(t *testing.T) {
	src := &fakeSource{tables: map[string]*contracts.TradeTable{
		"alpha": testTable("alpha", 100, -50, 200, -100, 80, 40, -30, 60, 90, -20),
	}}
	a := newTestAnalyzer(src)

	cfg := simulation.DefaultConfig()
	cfg.Paths = 50
	cfg.Length = 20
	cfg.Seed = 7

	var calls int
	result, err := a.SimulateTable(context.Background(), "alpha", profile.Default(), cfg,
		func(completed, total int) { calls++ })
	if err != nil {
		t.Fatalf("SimulateTable() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID must be populated")
	}
	if len(result.Terminals) != 50 {
		t.Errorf("Terminals = %d paths, want 50", len(result.Terminals))
	}
	if calls != 50 {
		t.Errorf("progress callback fired %d times, want 50", calls)
	}
}

func TestLeaderboard_ToleratesFailures(t *testing.T) {
	src := &fakeSource{tables: map[string]*contracts.TradeTable{
		"winner": testTable("winner", 300, 100),
		"loser":  testTable("loser", -50, -100),
		"broken": {Strategy: "broken"}, // 트레이드 없음 → 분석 실패
	}}
	a := newTestAnalyzer(src)

	board, err := a.Leaderboard(context.Background(), profile.Default())
	if err != nil {
		t.Fatalf("Leaderboard() error: %v", err)
	}

	if len(board.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(board.Entries))
	}
	// 순이익 내림차순
	if board.Entries[0].Strategy != "winner" {
		t.Errorf("top entry = %s, want winner", board.Entries[0].Strategy)
	}
	if _, ok := board.Failures["broken"]; !ok {
		t.Error("expected broken table in failures")
	}
}

func TestLeaderboard_SourceError(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{err: errors.New("backend down")})

	if _, err := a.Leaderboard(context.Background(), profile.Default()); err == nil {
		t.Error("expected error when table listing fails")
	}
}

func TestIngestAll_RequiresRepositories(t *testing.T) {
	a := newTestAnalyzer(&fakeSource{tables: map[string]*contracts.TradeTable{}})

	if _, err := a.IngestAll(context.Background()); err == nil {
		t.Error("expected error when repositories are not wired")
	}
}
