package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/argus/internal/contracts"
)

// ErrInvalidInput marks malformed simulation parameters
var ErrInvalidInput = errors.New("simulation: invalid input")

// Simulator runs bootstrap Monte Carlo over a historical return series.
// ⭐ SSOT: 부트스트랩 리샘플링 로직은 여기서만
//
// Each call owns a dedicated generator seeded from Config.Seed — never
// a shared/global one — so the same seed and inputs reproduce the
// result bit for bit.
type Simulator struct {
	config   Config
	rng      *rand.Rand
	progress func(completed, total int)
}

// NewSimulator creates a simulator with its own seeded generator.
// Seed 0이면 시간 기반 시드 (호출마다 독립적인 결과)
func NewSimulator(config Config) *Simulator {
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(config.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Simulator{
		config: config,
		rng:    rng,
	}
}

// WithProgress registers a per-path completion callback.
// 콜백은 배선일 뿐 엔진 상태가 아님 — 결과에 영향 없음
func (s *Simulator) WithProgress(fn func(completed, total int)) *Simulator {
	s.progress = fn
	return s
}

// Run draws Paths×Length returns with replacement from the historical
// series, accumulates each path from initial capital, and summarizes
// the terminal distribution. O(N·L) — 경로당 O(L), 추첨당 O(1).
func (s *Simulator) Run(ctx context.Context, returns []float64) (*Result, error) {
	cfg := s.config

	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: empty historical return series", ErrInvalidInput)
	}
	if cfg.Paths < 1 {
		return nil, fmt.Errorf("%w: paths must be >= 1, got %d", ErrInvalidInput, cfg.Paths)
	}
	if cfg.Length < 1 {
		return nil, fmt.Errorf("%w: length must be >= 1, got %d", ErrInvalidInput, cfg.Length)
	}
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("%w: initial capital must be > 0, got %v", ErrInvalidInput, cfg.InitialCapital)
	}
	if cfg.Mode != "" && !cfg.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, cfg.Mode)
	}
	for _, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: non-finite historical return", ErrInvalidInput)
		}
	}
	if cfg.Mode == "" {
		cfg.Mode = contracts.ModeAdditive
	}
	if len(cfg.Percentiles) == 0 {
		cfg.Percentiles = []float64{5, 50, 95}
	}
	if cfg.TargetMultiple <= 0 {
		cfg.TargetMultiple = 2.0
	}

	// paths[p][t]: 경로 p의 t번째 시점 자본 (t=0은 시작 자본)
	paths := make([][]float64, cfg.Paths)
	terminals := make([]float64, cfg.Paths)

	for p := 0; p < cfg.Paths; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := make([]float64, cfg.Length+1)
		path[0] = cfg.InitialCapital

		equity := cfg.InitialCapital
		for t := 0; t < cfg.Length; t++ {
			// 복원 추출: 균등 랜덤 인덱스 (O(1) 룩업)
			r := returns[s.rng.Intn(len(returns))]
			if cfg.Mode == contracts.ModeCompounding {
				equity *= 1 + r
			} else {
				equity += r * cfg.InitialCapital
			}
			path[t+1] = equity
		}

		paths[p] = path
		terminals[p] = equity

		if s.progress != nil {
			s.progress(p+1, cfg.Paths)
		}
	}

	result := &Result{
		RunID:     uuid.New().String(),
		RunDate:   time.Now(),
		Config:    cfg,
		Terminals: terminals,
		Bands:     computeBands(paths, cfg.Percentiles),
	}
	summarizeTerminals(result, cfg)

	return result, nil
}

// computeBands builds per-step percentile tracks across all paths.
// 시점별 교차 단면을 정렬 후 선형 보간
func computeBands(paths [][]float64, percentiles []float64) []Band {
	if len(paths) == 0 {
		return nil
	}
	steps := len(paths[0])

	bands := make([]Band, len(percentiles))
	for i, p := range percentiles {
		bands[i] = Band{Percentile: p, Values: make([]float64, steps)}
	}

	cross := make([]float64, len(paths))
	for t := 0; t < steps; t++ {
		for p := range paths {
			cross[p] = paths[p][t]
		}
		sort.Float64s(cross)
		for i, pct := range percentiles {
			bands[i].Values[t] = percentile(cross, pct)
		}
	}

	return bands
}

// summarizeTerminals fills the terminal-distribution summary fields
func summarizeTerminals(result *Result, cfg Config) {
	terminals := result.Terminals

	sorted := make([]float64, len(terminals))
	copy(sorted, terminals)
	sort.Float64s(sorted)

	result.MinTerminal = sorted[0]
	result.MaxTerminal = sorted[len(sorted)-1]
	result.MedianTerminal = percentile(sorted, 50)
	result.MeanTerminal = mean(terminals)
	result.StdDevTerminal = stdDev(terminals)

	target := cfg.TargetMultiple * cfg.InitialCapital
	var ruined, reached int
	for _, v := range terminals {
		if v < cfg.InitialCapital {
			ruined++
		}
		if v >= target {
			reached++
		}
	}
	result.RuinProbability = float64(ruined) / float64(len(terminals))
	result.TargetProbability = float64(reached) / float64(len(terminals))
}

// =============================================================================
// 통계 유틸리티
// =============================================================================

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// percentile reads the p-th percentile from a sorted slice (선형 보간)
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
