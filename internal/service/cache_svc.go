package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/model"
)

// SnapshotCacheTTL bounds staleness if invalidation is ever missed; every
// write path invalidates explicitly.
const SnapshotCacheTTL = 30 * time.Second

const snapshotKey = "features:snapshot"

// CacheService provides a Redis cache-aside layer for the feature
// snapshot. With no client it degrades to a no-op.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a CacheService. If redisURL is empty or the
// connection fails, caching is disabled rather than fatal.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// NewCacheServiceWithClient creates a CacheService from an existing client.
func NewCacheServiceWithClient(rdb *redis.Client) *CacheService {
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetSnapshot retrieves the cached record set. Returns nil if not cached
// or cache is disabled.
func (c *CacheService) GetSnapshot(ctx context.Context) ([]model.FeatureRequest, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var features []model.FeatureRequest
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, err
	}
	return features, nil
}

// SetSnapshot stores the current record set.
func (c *CacheService) SetSnapshot(ctx context.Context, features []model.FeatureRequest) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, snapshotKey, b, SnapshotCacheTTL).Err()
}

// InvalidateSnapshot removes the cached record set (called after any write).
func (c *CacheService) InvalidateSnapshot(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, snapshotKey).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
