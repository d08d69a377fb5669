package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/argus/internal/contracts"
)

// TradeRepo persists normalized trade tables
// ⭐ SSOT: 트레이드 저장/복원은 여기서만
type TradeRepo struct {
	pool *pgxpool.Pool
}

// NewTradeRepo creates a trade repository
func NewTradeRepo(pool *pgxpool.Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

// SaveTable replaces the stored trades for the table's strategy.
// seq는 정렬된 테이블 내 위치 — 같은 exit_time의 트레이드를 구분
func (r *TradeRepo) SaveTable(ctx context.Context, table *contracts.TradeTable) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM trades WHERE strategy = $1`, table.Strategy); err != nil {
		return fmt.Errorf("failed to clear trades for %s: %w", table.Strategy, err)
	}

	// 배치 삽입
	batch := &pgx.Batch{}
	query := `
		INSERT INTO trades (strategy, seq, exit_time, symbol, entry_price, exit_price, size, profit_loss, run_up)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for i, t := range table.Trades {
		batch.Queue(query, table.Strategy, i, t.ExitTime, t.Symbol,
			t.EntryPrice, t.ExitPrice, t.Size, t.ProfitLoss, t.RunUp)
	}

	br := tx.SendBatch(ctx, batch)
	for range table.Trades {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert trade for %s: %w", table.Strategy, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// GetTable reconstructs a trade table ordered by exit time.
// 저장된 트레이드가 없으면 (nil, nil)
func (r *TradeRepo) GetTable(ctx context.Context, strategy string) (*contracts.TradeTable, error) {
	query := `
		SELECT exit_time, symbol, entry_price, exit_price, size, profit_loss, run_up
		FROM trades
		WHERE strategy = $1
		ORDER BY exit_time, seq
	`

	rows, err := r.pool.Query(ctx, query, strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for %s: %w", strategy, err)
	}
	defer rows.Close()

	table := &contracts.TradeTable{Strategy: strategy}
	for rows.Next() {
		var t contracts.Trade
		if err := rows.Scan(&t.ExitTime, &t.Symbol, &t.EntryPrice, &t.ExitPrice,
			&t.Size, &t.ProfitLoss, &t.RunUp); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		table.Trades = append(table.Trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if table.Len() == 0 {
		return nil, nil
	}
	return table, nil
}
