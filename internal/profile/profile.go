package profile

import (
	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/simulation"
)

// Profile is one named analysis parameter set
// ⭐ SSOT: 분석 파라미터의 외부 표현은 여기서만
type Profile struct {
	Name             string         `yaml:"name" json:"name"`
	InitialCapital   float64        `yaml:"initial_capital" json:"initial_capital"`
	RiskFreeRate     float64        `yaml:"risk_free_rate" json:"risk_free_rate"`
	PeriodsPerYear   int            `yaml:"periods_per_year" json:"periods_per_year"`
	Mode             contracts.Mode `yaml:"mode" json:"mode"`
	SlippagePerTrade float64        `yaml:"slippage_per_trade" json:"slippage_per_trade"`

	Simulation SimulationSection `yaml:"simulation" json:"simulation"`
	Projection ProjectionSection `yaml:"projection" json:"projection"`
}

// SimulationSection configures the Monte Carlo engine
type SimulationSection struct {
	Paths          int       `yaml:"paths" json:"paths"`
	Length         int       `yaml:"length" json:"length"`
	Percentiles    []float64 `yaml:"percentiles" json:"percentiles"`
	TargetMultiple float64   `yaml:"target_multiple" json:"target_multiple"`
	Seed           int64     `yaml:"seed" json:"seed"`
}

// ProjectionSection configures the yearly compounding projection
type ProjectionSection struct {
	// Years caps the projected rows (0 = 전체 연도)
	Years   int                    `yaml:"years" json:"years"`
	Mode    metrics.ProjectionMode `yaml:"mode" json:"mode"`
	TaxRate float64                `yaml:"tax_rate" json:"tax_rate"`
}

// Default returns the built-in profile used when no file is given
func Default() *Profile {
	return &Profile{
		Name:             "default",
		InitialCapital:   125000,
		RiskFreeRate:     0.0,
		PeriodsPerYear:   252,
		Mode:             contracts.ModeAdditive,
		SlippagePerTrade: 0.0,
		Simulation: SimulationSection{
			Paths:          1000,
			Length:         50,
			Percentiles:    []float64{5, 50, 95},
			TargetMultiple: 2.0,
			Seed:           0,
		},
		Projection: ProjectionSection{
			Years:   10,
			Mode:    metrics.ProjectionProportional,
			TaxRate: 0.38,
		},
	}
}

// AnalysisConfig converts the profile to engine parameters
func (p *Profile) AnalysisConfig() contracts.AnalysisConfig {
	return contracts.AnalysisConfig{
		InitialCapital:   p.InitialCapital,
		Mode:             p.Mode,
		RiskFreeRate:     p.RiskFreeRate,
		PeriodsPerYear:   p.PeriodsPerYear,
		SlippagePerTrade: p.SlippagePerTrade,
	}
}

// SimulationConfig converts the profile to Monte Carlo parameters
func (p *Profile) SimulationConfig() simulation.Config {
	return simulation.Config{
		Paths:          p.Simulation.Paths,
		Length:         p.Simulation.Length,
		InitialCapital: p.InitialCapital,
		Mode:           p.Mode,
		Percentiles:    p.Simulation.Percentiles,
		TargetMultiple: p.Simulation.TargetMultiple,
		Seed:           p.Simulation.Seed,
	}
}
