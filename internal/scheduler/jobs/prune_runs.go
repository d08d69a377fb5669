package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/logger"
)

// PruneRunsJob deletes stored runs older than the retention window
type PruneRunsJob struct {
	analyses      contracts.AnalysisRepository
	simulations   contracts.SimulationRepository
	retentionDays int
	logger        *logger.Logger
}

// NewPruneRunsJob creates the daily retention job
func NewPruneRunsJob(analyses contracts.AnalysisRepository, simulations contracts.SimulationRepository,
	retentionDays int, log *logger.Logger) *PruneRunsJob {
	return &PruneRunsJob{
		analyses:      analyses,
		simulations:   simulations,
		retentionDays: retentionDays,
		logger:        log,
	}
}

// Name returns the job name
func (j *PruneRunsJob) Name() string {
	return "prune_runs"
}

// Schedule returns the cron schedule (daily at 03:30)
func (j *PruneRunsJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run deletes analysis and simulation runs past retention
func (j *PruneRunsJob) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)

	analysesDeleted, err := j.analyses.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune analysis runs: %w", err)
	}

	simulationsDeleted, err := j.simulations.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune simulation runs: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"cutoff":            cutoff.Format("2006-01-02"),
		"analyses_deleted":  analysesDeleted,
		"simulations_deleted": simulationsDeleted,
	}).Info("Run pruning completed")

	return nil
}
