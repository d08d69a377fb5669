package jobs

import (
	"context"

	"github.com/wonny/argus/pkg/logger"
	"github.com/wonny/argus/pkg/redis"
)

// CacheCleanupJob sweeps stale leaderboard keys from Redis.
// TTL로도 만료되지만, 프로파일 변경 후 남는 고아 키를 정리
type CacheCleanupJob struct {
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCacheCleanupJob creates the hourly cache sweep
func NewCacheCleanupJob(cache *redis.Cache, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (hourly)
func (j *CacheCleanupJob) Schedule() string {
	return "0 0 * * * *"
}

// Run deletes every leaderboard key; 다음 조회가 다시 채운다
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	count, err := j.cache.DeleteByPattern(ctx, "leaderboard:*")
	if err != nil {
		return err
	}

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}
	return nil
}
