package contracts

import (
	"context"
	"encoding/json"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// Strategy is the persisted catalog entry for one trade table
type Strategy struct {
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	TradeCount int       `json:"trade_count"`
	FirstExit  time.Time `json:"first_exit"`
	LastExit   time.Time `json:"last_exit"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StrategyRepository manages the strategy catalog
type StrategyRepository interface {
	Upsert(ctx context.Context, s *Strategy) error
	List(ctx context.Context) ([]*Strategy, error)
	GetByName(ctx context.Context, name string) (*Strategy, error)
}

// TradeRepository persists normalized trade tables
type TradeRepository interface {
	// SaveTable replaces the stored trades for the table's strategy
	SaveTable(ctx context.Context, table *TradeTable) error

	// GetTable reconstructs a trade table ordered by exit time.
	// 저장된 트레이드가 없으면 (nil, nil)
	GetTable(ctx context.Context, strategy string) (*TradeTable, error)
}

// AnalysisRun is one persisted metrics computation.
// Summary는 JSONB로 저장 (지표 구조체는 호출측에서 역직렬화)
type AnalysisRun struct {
	ID          int64           `json:"id"`
	Strategy    string          `json:"strategy"`
	ProfileHash string          `json:"profile_hash"`
	Summary     json.RawMessage `json:"summary"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AnalysisRepository stores metrics summaries
type AnalysisRepository interface {
	Save(ctx context.Context, run *AnalysisRun) error
	GetLatest(ctx context.Context, strategy, profileHash string) (*AnalysisRun, error)

	// ListLatest returns the most recent run per strategy
	ListLatest(ctx context.Context) ([]*AnalysisRun, error)

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SimulationRun is one persisted Monte Carlo result
type SimulationRun struct {
	RunID     string          `json:"run_id"`
	Strategy  string          `json:"strategy"`
	Config    json.RawMessage `json:"config"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// SimulationRepository stores Monte Carlo runs
type SimulationRepository interface {
	Save(ctx context.Context, run *SimulationRun) error
	GetByRunID(ctx context.Context, runID string) (*SimulationRun, error)
	ListByStrategy(ctx context.Context, strategy string, limit int) ([]*SimulationRun, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
