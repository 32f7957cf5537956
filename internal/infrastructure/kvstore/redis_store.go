package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// RedisStore implements ports.KeyValueStore on a Redis client. Atomicity of
// Increment is delegated to the store's native INCR; every backend failure is
// wrapped in ports.ErrStoreUnavailable so callers can degrade uniformly.
type RedisStore struct {
	r redis.Cmdable
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(r redis.Cmdable) *RedisStore {
	return &RedisStore{r: r}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ports.ErrStoreUnavailable, err)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.r.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.r.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := s.r.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	// First increment created the key; attach the window TTL exactly once.
	if count == 1 && ttl > 0 {
		if err := s.r.Expire(ctx, key, ttl).Err(); err != nil {
			return count, unavailable(err)
		}
	}
	return count, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.r.Del(ctx, key).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}
