package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/argus/internal/contracts"
)

// SimulationRepo stores Monte Carlo runs as JSONB
// ⭐ SSOT: 시뮬레이션 결과 영속화는 여기서만
type SimulationRepo struct {
	pool *pgxpool.Pool
}

// NewSimulationRepo creates a simulation repository
func NewSimulationRepo(pool *pgxpool.Pool) *SimulationRepo {
	return &SimulationRepo{pool: pool}
}

// Save inserts one simulation run (run_id는 호출측에서 생성한 UUID)
func (r *SimulationRepo) Save(ctx context.Context, run *contracts.SimulationRun) error {
	query := `
		INSERT INTO simulation_runs (run_id, strategy, config, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, query,
		run.RunID, run.Strategy, run.Config, run.Result, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save simulation run %s: %w", run.RunID, err)
	}
	return nil
}

// GetByRunID returns one run by ID. 없으면 (nil, nil)
func (r *SimulationRepo) GetByRunID(ctx context.Context, runID string) (*contracts.SimulationRun, error) {
	query := `
		SELECT run_id, strategy, config, result, created_at
		FROM simulation_runs
		WHERE run_id = $1
	`

	run := &contracts.SimulationRun{}
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&run.RunID, &run.Strategy, &run.Config, &run.Result, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get simulation run %s: %w", runID, err)
	}
	return run, nil
}

// ListByStrategy returns the most recent runs for a strategy, newest first
func (r *SimulationRepo) ListByStrategy(ctx context.Context, strategy string, limit int) ([]*contracts.SimulationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, strategy, config, result, created_at
		FROM simulation_runs
		WHERE strategy = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, strategy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulation runs for %s: %w", strategy, err)
	}
	defer rows.Close()

	var runs []*contracts.SimulationRun
	for rows.Next() {
		run := &contracts.SimulationRun{}
		if err := rows.Scan(&run.RunID, &run.Strategy, &run.Config,
			&run.Result, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan simulation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteOlderThan removes runs created before the cutoff
func (r *SimulationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM simulation_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune simulation runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
