package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching utilities
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// DeleteByPattern removes all cached values matching a key pattern
// 스케줄러의 캐시 정리 작업에서 사용
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	fullPattern := fmt.Sprintf("%s:cache:%s", c.prefix, pattern)
	keys, err := c.client.Redis().Keys(ctx, fullPattern).Result()
	if err != nil {
		return 0, fmt.Errorf("cache key scan failed: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}

	if err := c.client.Redis().Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("cache delete failed: %w", err)
	}

	return len(keys), nil
}

// GetOrSet retrieves from cache or calls fn to populate it
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	// Try cache first
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return err
	}

	// Store in cache
	if err := c.Set(ctx, key, value, ttl); err != nil {
		// Log but don't fail
		return nil
	}

	// Unmarshal into dest
	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 1 * time.Minute  // 시뮬레이션 진행 상태
	TTLMedium = 15 * time.Minute // 분석 요약
	TTLLong   = 1 * time.Hour    // 리더보드
	TTLDaily  = 24 * time.Hour   // 전략 트레이드 테이블
)

// Common cache key generators

// AnalysisKey keys a metrics summary by table and profile hash.
func AnalysisKey(table string, profileHash string) string {
	return fmt.Sprintf("analysis:%s:%s", table, profileHash)
}

// TableKey keys a fetched trade table.
func TableKey(table string) string {
	return fmt.Sprintf("table:%s", table)
}

// LeaderboardKey keys the ranked strategy board by profile hash.
func LeaderboardKey(profileHash string) string {
	return fmt.Sprintf("leaderboard:%s", profileHash)
}

// SimulationKey keys a stored simulation result by run ID.
func SimulationKey(runID string) string {
	return fmt.Sprintf("simulation:%s", runID)
}
