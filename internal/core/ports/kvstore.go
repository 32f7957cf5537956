package ports

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable wraps any backend failure of the key-value store.
// Callers treat it as "miss"/"no data" and degrade; it never crosses the
// orchestrator boundary.
var ErrStoreUnavailable = errors.New("key-value store unavailable")

// KeyValueStore is the uniform storage contract shared by the cache manager,
// the rate limiter and the session repository. The in-memory and Redis
// backends must be indistinguishable to callers: same semantics for absent
// keys, same TTL honoring.
type KeyValueStore interface {
	// Get returns the value for key. ok=false if absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key with the given TTL (0 or negative means no expiration).
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Increment atomically bumps the counter at key. A missing key is created
	// with count=1 and the given TTL; an existing key keeps its TTL untouched.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
}
