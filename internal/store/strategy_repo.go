package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/argus/internal/contracts"
)

// StrategyRepo persists the strategy catalog
// ⭐ SSOT: 전략 카탈로그 저장/조회는 여기서만
type StrategyRepo struct {
	pool *pgxpool.Pool
}

// NewStrategyRepo creates a strategy repository
func NewStrategyRepo(pool *pgxpool.Pool) *StrategyRepo {
	return &StrategyRepo{pool: pool}
}

// Upsert inserts or refreshes one catalog entry
func (r *StrategyRepo) Upsert(ctx context.Context, s *contracts.Strategy) error {
	query := `
		INSERT INTO strategies (name, source, trade_count, first_exit, last_exit, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (name) DO UPDATE SET
			source = EXCLUDED.source,
			trade_count = EXCLUDED.trade_count,
			first_exit = EXCLUDED.first_exit,
			last_exit = EXCLUDED.last_exit,
			updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, s.Name, s.Source, s.TradeCount, s.FirstExit, s.LastExit)
	if err != nil {
		return fmt.Errorf("failed to upsert strategy %s: %w", s.Name, err)
	}
	return nil
}

// List returns all known strategies ordered by name
func (r *StrategyRepo) List(ctx context.Context) ([]*contracts.Strategy, error) {
	query := `
		SELECT name, source, trade_count, first_exit, last_exit, updated_at
		FROM strategies
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	defer rows.Close()

	var out []*contracts.Strategy
	for rows.Next() {
		var s contracts.Strategy
		if err := rows.Scan(&s.Name, &s.Source, &s.TradeCount, &s.FirstExit, &s.LastExit, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		out = append(out, &s)
	}

	return out, rows.Err()
}

// GetByName fetches one strategy. 없으면 (nil, nil)
func (r *StrategyRepo) GetByName(ctx context.Context, name string) (*contracts.Strategy, error) {
	query := `
		SELECT name, source, trade_count, first_exit, last_exit, updated_at
		FROM strategies
		WHERE name = $1
	`

	var s contracts.Strategy
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&s.Name, &s.Source, &s.TradeCount, &s.FirstExit, &s.LastExit, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy %s: %w", name, err)
	}

	return &s, nil
}
