package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// storeHealthChecker probes the key-value store abstraction; it covers the
// in-memory backend, which has no client to ping.
type storeHealthChecker struct{ store ports.KeyValueStore }

func (s *storeHealthChecker) Name() string { return "store" }
func (s *storeHealthChecker) Check(ctx context.Context) error {
	_, _, err := s.store.Get(ctx, "health:probe")
	return err
}

// NewStoreHealthChecker creates a health checker for the key-value store.
func NewStoreHealthChecker(store ports.KeyValueStore) ports.HealthChecker {
	return &storeHealthChecker{store: store}
}
