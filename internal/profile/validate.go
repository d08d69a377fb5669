package profile

import (
	"fmt"
	"strings"
)

// ValidationError collects every violation found in one pass.
// 첫 오류에서 멈추지 않음 — 사용자가 한 번에 전부 고치도록
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile: %s", strings.Join(e.Violations, "; "))
}

// Validate checks all profile constraints
func Validate(p *Profile) error {
	var v []string

	if p.Name == "" {
		v = append(v, "name: required")
	}
	if p.InitialCapital <= 0 {
		v = append(v, "initial_capital: must be > 0")
	}
	if p.PeriodsPerYear <= 0 {
		v = append(v, "periods_per_year: must be > 0")
	}
	if !p.Mode.IsValid() {
		v = append(v, fmt.Sprintf("mode: must be additive or compounding, got %q", p.Mode))
	}
	if p.SlippagePerTrade < 0 {
		v = append(v, "slippage_per_trade: must be >= 0")
	}

	// === Simulation ===
	if p.Simulation.Paths < 1 {
		v = append(v, "simulation.paths: must be >= 1")
	}
	if p.Simulation.Length < 1 {
		v = append(v, "simulation.length: must be >= 1")
	}
	if len(p.Simulation.Percentiles) == 0 {
		v = append(v, "simulation.percentiles: must not be empty")
	}
	for i, pct := range p.Simulation.Percentiles {
		if pct < 0 || pct > 100 {
			v = append(v, fmt.Sprintf("simulation.percentiles[%d]: must be in [0, 100], got %g", i, pct))
		}
	}
	if p.Simulation.TargetMultiple <= 0 {
		v = append(v, "simulation.target_multiple: must be > 0")
	}

	// === Projection ===
	if p.Projection.Years < 0 {
		v = append(v, "projection.years: must be >= 0")
	}
	if !p.Projection.Mode.IsValid() {
		v = append(v, fmt.Sprintf("projection.mode: must be linear or proportional, got %q", p.Projection.Mode))
	}
	if p.Projection.TaxRate < 0 || p.Projection.TaxRate >= 1 {
		v = append(v, "projection.tax_rate: must be in [0, 1)")
	}

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}
