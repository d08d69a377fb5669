package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/pkg/logger"
)

// SimulationRefreshJob reruns the stored-profile simulation weekly
type SimulationRefreshJob struct {
	analyzer *service.Analyzer
	profile  *profile.Profile
	logger   *logger.Logger
}

// NewSimulationRefreshJob creates the weekly simulation job
func NewSimulationRefreshJob(analyzer *service.Analyzer, prof *profile.Profile, log *logger.Logger) *SimulationRefreshJob {
	return &SimulationRefreshJob{
		analyzer: analyzer,
		profile:  prof,
		logger:   log,
	}
}

// Name returns the job name
func (j *SimulationRefreshJob) Name() string {
	return "simulation_refresh"
}

// Schedule returns the cron schedule (Sunday 05:00)
func (j *SimulationRefreshJob) Schedule() string {
	return "0 0 5 * * 0"
}

// Run simulates every strategy with the stored profile.
// 개별 실패는 기록만 하고 계속 진행
func (j *SimulationRefreshJob) Run(ctx context.Context) error {
	tables, err := j.analyzer.Tables(ctx)
	if err != nil {
		return fmt.Errorf("simulation refresh failed to list tables: %w", err)
	}

	cfg := j.profile.SimulationConfig()
	ok, failed := 0, 0

	for _, table := range tables {
		if _, err := j.analyzer.SimulateTable(ctx, table, j.profile, cfg, nil); err != nil {
			j.logger.WithError(err).WithField("table", table).Warn("Simulation refresh skipped table")
			failed++
			continue
		}
		ok++
	}

	j.logger.WithFields(map[string]interface{}{
		"simulated": ok,
		"failed":    failed,
	}).Info("Weekly simulation refresh completed")

	if ok == 0 && failed > 0 {
		return fmt.Errorf("simulation refresh failed for all %d tables", failed)
	}
	return nil
}
