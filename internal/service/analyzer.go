package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/simulation"
	"github.com/wonny/argus/pkg/logger"
	"github.com/wonny/argus/pkg/redis"
)

// Analyzer orchestrates source, engines, persistence and cache.
// ⭐ SSOT: 분석 유스케이스 조합은 여기서만 — 엔진은 캐시를 모른다
type Analyzer struct {
	source contracts.Source
	engine *metrics.Engine

	// repositories는 nil일 수 있음 (DB 없는 로컬 분석)
	strategies  contracts.StrategyRepository
	trades      contracts.TradeRepository
	analyses    contracts.AnalysisRepository
	simulations contracts.SimulationRepository

	cache  *redis.Cache
	logger *logger.Logger
}

// Options carries the optional collaborators
type Options struct {
	Strategies  contracts.StrategyRepository
	Trades      contracts.TradeRepository
	Analyses    contracts.AnalysisRepository
	Simulations contracts.SimulationRepository
	Cache       *redis.Cache
}

// NewAnalyzer creates an analyzer over one data source
func NewAnalyzer(source contracts.Source, opts Options, log *logger.Logger) *Analyzer {
	return &Analyzer{
		source:      source,
		engine:      metrics.NewEngine(),
		strategies:  opts.Strategies,
		trades:      opts.Trades,
		analyses:    opts.Analyses,
		simulations: opts.Simulations,
		cache:       opts.Cache,
		logger:      log.Component("analyzer"),
	}
}

// AnalyzeTable computes (or serves from cache) the metrics summary for one table
func (a *Analyzer) AnalyzeTable(ctx context.Context, table string, prof *profile.Profile) (*metrics.Summary, error) {
	hash, err := profile.Hash(prof)
	if err != nil {
		return nil, fmt.Errorf("failed to hash profile: %w", err)
	}

	compute := func() (interface{}, error) {
		return a.analyze(ctx, table, prof, hash)
	}

	// 캐시 비활성 상태에서는 GetOrSet이 곧바로 compute로 내려간다
	if a.cache != nil {
		var summary metrics.Summary
		key := redis.AnalysisKey(table, hash)
		if err := a.cache.GetOrSet(ctx, key, &summary, redis.TTLMedium, compute); err != nil {
			return nil, err
		}
		return &summary, nil
	}

	return a.analyze(ctx, table, prof, hash)
}

// analyze is the uncached path: fetch → summarize → persist
func (a *Analyzer) analyze(ctx context.Context, table string, prof *profile.Profile, hash string) (*metrics.Summary, error) {
	tt, err := a.fetchTable(ctx, table)
	if err != nil {
		return nil, err
	}

	summary, err := a.engine.Summarize(tt, prof.AnalysisConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize %s: %w", table, err)
	}

	if a.analyses != nil {
		raw, err := json.Marshal(summary)
		if err != nil {
			return nil, fmt.Errorf("failed to encode summary: %w", err)
		}
		run := &contracts.AnalysisRun{
			Strategy:    table,
			ProfileHash: hash,
			Summary:     raw,
		}
		if err := a.analyses.Save(ctx, run); err != nil {
			// 영속화 실패는 분석 자체를 막지 않는다
			a.logger.WithError(err).WithField("table", table).Warn("failed to persist analysis run")
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"table":  table,
		"trades": summary.TotalTrades,
	}).Info("analysis complete")

	return summary, nil
}

// SimulateTable runs a Monte Carlo simulation over one table's history.
// progress는 nil 허용 — WebSocket 스트리밍용 배선일 뿐
func (a *Analyzer) SimulateTable(ctx context.Context, table string, prof *profile.Profile, cfg simulation.Config, progress func(completed, total int)) (*simulation.Result, error) {
	tt, err := a.fetchTable(ctx, table)
	if err != nil {
		return nil, err
	}

	acfg := prof.AnalysisConfig()
	trades := metrics.ApplySlippage(tt.Trades, acfg.SlippagePerTrade)
	returns, err := a.engine.ReturnSeries(trades, acfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build return series for %s: %w", table, err)
	}

	sim := simulation.NewSimulator(cfg)
	if progress != nil {
		sim.WithProgress(progress)
	}

	result, err := sim.Run(ctx, returns)
	if err != nil {
		return nil, fmt.Errorf("simulation failed for %s: %w", table, err)
	}

	if a.simulations != nil {
		cfgRaw, err := json.Marshal(result.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to encode simulation config: %w", err)
		}
		resRaw, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode simulation result: %w", err)
		}
		run := &contracts.SimulationRun{
			RunID:    result.RunID,
			Strategy: table,
			Config:   cfgRaw,
			Result:   resRaw,
		}
		if err := a.simulations.Save(ctx, run); err != nil {
			a.logger.WithError(err).WithField("table", table).Warn("failed to persist simulation run")
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"table":  table,
		"run_id": result.RunID,
		"paths":  result.Config.Paths,
	}).Info("simulation complete")

	return result, nil
}

// Entry is one leaderboard row
type Entry struct {
	Strategy string           `json:"strategy"`
	Summary  *metrics.Summary `json:"summary"`
}

// Board is the result of analyzing every discoverable table.
// 일부 테이블 실패는 보드 전체를 막지 않는다
type Board struct {
	Entries  []Entry           `json:"entries"`
	Failures map[string]string `json:"failures,omitempty"`
}

// Leaderboard analyzes every table and ranks by net profit (descending)
func (a *Analyzer) Leaderboard(ctx context.Context, prof *profile.Profile) (*Board, error) {
	tables, err := a.source.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	board := &Board{Failures: map[string]string{}}
	for _, table := range tables {
		summary, err := a.AnalyzeTable(ctx, table, prof)
		if err != nil {
			a.logger.WithError(err).WithField("table", table).Warn("leaderboard entry failed")
			board.Failures[table] = err.Error()
			continue
		}
		board.Entries = append(board.Entries, Entry{Strategy: table, Summary: summary})
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Summary.NetProfit > board.Entries[j].Summary.NetProfit
	})

	if len(board.Failures) == 0 {
		board.Failures = nil
	}
	return board, nil
}

// IngestAll discovers every table and persists strategies + trades
func (a *Analyzer) IngestAll(ctx context.Context) (int, error) {
	if a.strategies == nil || a.trades == nil {
		return 0, fmt.Errorf("ingest requires strategy and trade repositories")
	}

	tables, err := a.source.Tables(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tables: %w", err)
	}

	saved := 0
	for _, table := range tables {
		tt, err := a.source.Fetch(ctx, table)
		if err != nil {
			a.logger.WithError(err).WithField("table", table).Warn("skipping table")
			continue
		}

		first, last, _ := tt.Span()
		s := &contracts.Strategy{
			Name:       table,
			Source:     a.source.Name(),
			TradeCount: tt.Len(),
			FirstExit:  first,
			LastExit:   last,
			UpdatedAt:  time.Now(),
		}
		if err := a.strategies.Upsert(ctx, s); err != nil {
			return saved, fmt.Errorf("failed to save strategy %s: %w", table, err)
		}
		if err := a.trades.SaveTable(ctx, tt); err != nil {
			return saved, fmt.Errorf("failed to save trades for %s: %w", table, err)
		}
		saved++
	}

	a.logger.WithFields(map[string]interface{}{
		"source": a.source.Name(),
		"tables": saved,
	}).Info("ingest complete")

	return saved, nil
}

// Tables lists the discoverable table names
func (a *Analyzer) Tables(ctx context.Context) ([]string, error) {
	return a.source.Tables(ctx)
}

// FetchTable loads one table, trying the DB first when a repository is wired
func (a *Analyzer) FetchTable(ctx context.Context, table string) (*contracts.TradeTable, error) {
	return a.fetchTable(ctx, table)
}

func (a *Analyzer) fetchTable(ctx context.Context, table string) (*contracts.TradeTable, error) {
	if a.trades != nil {
		tt, err := a.trades.GetTable(ctx, table)
		if err != nil {
			a.logger.WithError(err).WithField("table", table).Warn("db fetch failed, falling back to source")
		} else if tt != nil {
			return tt, nil
		}
	}

	tt, err := a.source.Fetch(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	return tt, nil
}
