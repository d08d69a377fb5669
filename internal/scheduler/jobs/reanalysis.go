package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/pkg/logger"
)

// ReanalysisJob re-ingests and re-analyzes every table nightly.
// 저장된 분석 실행을 갱신하고 Redis 캐시를 덥힌다
type ReanalysisJob struct {
	analyzer *service.Analyzer
	profile  *profile.Profile
	logger   *logger.Logger
}

// NewReanalysisJob creates a nightly reanalysis job
func NewReanalysisJob(analyzer *service.Analyzer, prof *profile.Profile, log *logger.Logger) *ReanalysisJob {
	return &ReanalysisJob{
		analyzer: analyzer,
		profile:  prof,
		logger:   log,
	}
}

// Name returns the job name
func (j *ReanalysisJob) Name() string {
	return "reanalysis"
}

// Schedule returns the cron schedule (daily at 04:10)
func (j *ReanalysisJob) Schedule() string {
	return "0 10 4 * * *"
}

// Run re-ingests every table then rebuilds the leaderboard
func (j *ReanalysisJob) Run(ctx context.Context) error {
	saved, err := j.analyzer.IngestAll(ctx)
	if err != nil {
		return fmt.Errorf("reanalysis ingest failed: %w", err)
	}

	// Leaderboard가 테이블별 분석을 호출하며 캐시를 채운다
	board, err := j.analyzer.Leaderboard(ctx, j.profile)
	if err != nil {
		return fmt.Errorf("reanalysis board failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"ingested": saved,
		"analyzed": len(board.Entries),
		"failed":   len(board.Failures),
	}).Info("Nightly reanalysis completed")

	return nil
}
