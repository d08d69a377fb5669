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

// AnalysisRepo stores metrics summaries as JSONB
// ⭐ SSOT: 분석 결과 영속화는 여기서만
type AnalysisRepo struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepo creates an analysis repository
func NewAnalysisRepo(pool *pgxpool.Pool) *AnalysisRepo {
	return &AnalysisRepo{pool: pool}
}

// Save inserts one analysis run (append-only, 이력 보존)
func (r *AnalysisRepo) Save(ctx context.Context, run *contracts.AnalysisRun) error {
	query := `
		INSERT INTO analysis_runs (strategy, profile_hash, summary, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := r.pool.QueryRow(ctx, query,
		run.Strategy, run.ProfileHash, run.Summary, createdAt).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("failed to save analysis run for %s: %w", run.Strategy, err)
	}
	return nil
}

// GetLatest returns the most recent run for a strategy+profile pair.
// 없으면 (nil, nil)
func (r *AnalysisRepo) GetLatest(ctx context.Context, strategy, profileHash string) (*contracts.AnalysisRun, error) {
	query := `
		SELECT id, strategy, profile_hash, summary, created_at
		FROM analysis_runs
		WHERE strategy = $1 AND profile_hash = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	run := &contracts.AnalysisRun{}
	err := r.pool.QueryRow(ctx, query, strategy, profileHash).Scan(
		&run.ID, &run.Strategy, &run.ProfileHash, &run.Summary, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest analysis for %s: %w", strategy, err)
	}
	return run, nil
}

// ListLatest returns the most recent run per strategy (리더보드용)
func (r *AnalysisRepo) ListLatest(ctx context.Context) ([]*contracts.AnalysisRun, error) {
	query := `
		SELECT DISTINCT ON (strategy) id, strategy, profile_hash, summary, created_at
		FROM analysis_runs
		ORDER BY strategy, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []*contracts.AnalysisRun
	for rows.Next() {
		run := &contracts.AnalysisRun{}
		if err := rows.Scan(&run.ID, &run.Strategy, &run.ProfileHash,
			&run.Summary, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteOlderThan removes runs created before the cutoff.
// 각 전략의 최신 실행은 보존
func (r *AnalysisRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM analysis_runs
		WHERE created_at < $1
		AND id NOT IN (
			SELECT DISTINCT ON (strategy) id
			FROM analysis_runs
			ORDER BY strategy, created_at DESC
		)
	`

	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analysis runs: %w", err)
	}
	return tag.RowsAffected(), nil
}
