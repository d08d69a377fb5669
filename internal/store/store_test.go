package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/config"
	"github.com/wonny/argus/pkg/database"
)

// 통합 테스트 — DATABASE_URL이 설정된 경우에만 실행
func testPool(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	cfg, err := config.Load()
	require.NoError(t, err, "failed to load config")

	db, err := database.New(cfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(db.Close)

	require.NoError(t, EnsureSchema(ctx, db.Pool), "failed to ensure schema")
	return db
}

func TestStrategyRepo_UpsertAndGet(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	repo := NewStrategyRepo(db.Pool)

	name := "it_" + uuid.NewString()[:8]
	s := &contracts.Strategy{
		Name:       name,
		Source:     "local",
		TradeCount: 3,
		FirstExit:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		LastExit:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, s))

	// 갱신도 충돌 없이 동작해야 한다
	s.TradeCount = 5
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.GetByName(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.TradeCount)

	missing, err := repo.GetByName(ctx, "no_such_strategy")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTradeRepo_SaveAndGetTable(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()

	name := "it_" + uuid.NewString()[:8]
	require.NoError(t, NewStrategyRepo(db.Pool).Upsert(ctx, &contracts.Strategy{Name: name, Source: "local"}),
		"failed to seed strategy")

	repo := NewTradeRepo(db.Pool)
	table := &contracts.TradeTable{
		Strategy: name,
		Trades: []contracts.Trade{
			{ExitTime: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), EntryPrice: 100, ExitPrice: 110, Size: 1, ProfitLoss: 10},
			{ExitTime: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), EntryPrice: 110, ExitPrice: 105, Size: 1, ProfitLoss: -5},
		},
	}
	require.NoError(t, repo.SaveTable(ctx, table))

	// 재저장은 기존 행을 교체
	table.Trades = table.Trades[:1]
	require.NoError(t, repo.SaveTable(ctx, table))

	got, err := repo.GetTable(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, 10.0, got.Trades[0].ProfitLoss)

	empty, err := repo.GetTable(ctx, "no_such_strategy")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestAnalysisRepo_Lifecycle(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	repo := NewAnalysisRepo(db.Pool)

	name := "it_" + uuid.NewString()[:8]
	run := &contracts.AnalysisRun{
		Strategy:    name,
		ProfileHash: "abc123",
		Summary:     json.RawMessage(`{"net_profit": 400}`),
	}
	require.NoError(t, repo.Save(ctx, run))
	assert.NotZero(t, run.ID, "Save() did not populate ID")

	got, err := repo.GetLatest(ctx, name, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, name, got.Strategy)

	missing, err := repo.GetLatest(ctx, name, "other_hash")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSimulationRepo_Lifecycle(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	repo := NewSimulationRepo(db.Pool)

	name := "it_" + uuid.NewString()[:8]
	run := &contracts.SimulationRun{
		RunID:    uuid.NewString(),
		Strategy: name,
		Config:   json.RawMessage(`{"paths": 1000}`),
		Result:   json.RawMessage(`{"ruin_probability": 0.1}`),
	}
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.GetByRunID(ctx, run.RunID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, name, got.Strategy)

	list, err := repo.ListByStrategy(ctx, name, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	missing, err := repo.GetByRunID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
