package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is idempotent — 부팅 시마다 실행해도 안전
const schemaDDL = `
CREATE TABLE IF NOT EXISTS strategies (
	name        TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	trade_count INTEGER NOT NULL DEFAULT 0,
	first_exit  TIMESTAMPTZ,
	last_exit   TIMESTAMPTZ,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS trades (
	strategy     TEXT NOT NULL REFERENCES strategies(name) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	exit_time    TIMESTAMPTZ NOT NULL,
	symbol       TEXT NOT NULL DEFAULT '',
	entry_price  DOUBLE PRECISION NOT NULL,
	exit_price   DOUBLE PRECISION NOT NULL,
	size         DOUBLE PRECISION NOT NULL,
	profit_loss  DOUBLE PRECISION NOT NULL,
	run_up       DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (strategy, seq)
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades (strategy, exit_time);

CREATE TABLE IF NOT EXISTS analysis_runs (
	id           BIGSERIAL PRIMARY KEY,
	strategy     TEXT NOT NULL,
	profile_hash TEXT NOT NULL,
	summary      JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analysis_runs_lookup
	ON analysis_runs (strategy, profile_hash, created_at DESC);

CREATE TABLE IF NOT EXISTS simulation_runs (
	run_id     UUID PRIMARY KEY,
	strategy   TEXT NOT NULL,
	config     JSONB NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_simulation_runs_strategy
	ON simulation_runs (strategy, created_at DESC);
`

// EnsureSchema creates the argus tables if they do not exist yet.
// ⭐ SSOT: 스키마 DDL은 이 파일에서만
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
