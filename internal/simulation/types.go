package simulation

import (
	"time"

	"github.com/wonny/argus/internal/contracts"
)

// Config holds the Monte Carlo simulation parameters.
// ⭐ SSOT: 재현성을 위해 모든 설정을 명시적으로 기록
type Config struct {
	// Paths is the number of independent simulated paths (N)
	Paths int `json:"paths"`

	// Length is the number of trades simulated forward per path (L)
	Length int `json:"length"`

	// InitialCapital is the starting equity of every path
	InitialCapital float64 `json:"initial_capital"`

	// Mode matches the metrics engine's accumulation rule
	Mode contracts.Mode `json:"mode"`

	// Percentiles are the per-step bands to report (기본: 5/50/95)
	Percentiles []float64 `json:"percentiles"`

	// TargetMultiple is the "reach target" threshold vs initial capital
	TargetMultiple float64 `json:"target_multiple"`

	// Seed drives the per-call generator. 0 = 시간 기반 시드 (재현 불가)
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the standard simulation parameters
func DefaultConfig() Config {
	return Config{
		Paths:          1000,
		Length:         50,
		InitialCapital: 125000,
		Mode:           contracts.ModeAdditive,
		Percentiles:    []float64{5, 50, 95},
		TargetMultiple: 2.0,
		Seed:           0,
	}
}

// Band is one percentile track across all paths, per time step.
// Values 길이 = Length+1 (시작 자본 포함)
type Band struct {
	Percentile float64   `json:"percentile"`
	Values     []float64 `json:"values"`
}

// Result is the outcome of one simulation run.
// Ephemeral value object — 저장 여부는 서비스 계층의 선택
type Result struct {
	RunID   string    `json:"run_id"`
	RunDate time.Time `json:"run_date"`
	Config  Config    `json:"config"`

	// Terminals holds one terminal equity per path
	Terminals []float64 `json:"terminals"`

	// Bands are the per-step percentile tracks (차트용)
	Bands []Band `json:"bands"`

	// 터미널 분포 요약
	MeanTerminal   float64 `json:"mean_terminal"`
	MedianTerminal float64 `json:"median_terminal"`
	StdDevTerminal float64 `json:"std_dev_terminal"`
	MinTerminal    float64 `json:"min_terminal"`
	MaxTerminal    float64 `json:"max_terminal"`

	// RuinProbability is the share of paths ending below initial capital
	RuinProbability float64 `json:"ruin_probability"`

	// TargetProbability is the share of paths reaching
	// TargetMultiple × initial capital
	TargetProbability float64 `json:"target_probability"`
}
