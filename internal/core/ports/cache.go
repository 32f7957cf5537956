package ports

import "context"

// CacheManager stores generated and translated text keyed by a deterministic
// digest of the request content. It is strictly best-effort: a failing store
// shows up as misses and dropped writes, never as errors to the caller.
type CacheManager interface {
	// MakeKey derives the cache key for (sourceText, targetLanguage).
	// Deterministic and fixed-length; raw user text is never used as a key.
	MakeKey(sourceText, targetLanguage string) string
	// Lookup returns the cached text for key. ok=false on miss, expiry,
	// disabled cache or store failure.
	Lookup(ctx context.Context, key string) (value string, ok bool)
	// Store writes value under key with the configured TTL. Silent no-op when
	// the cache is disabled or the store is unavailable.
	Store(ctx context.Context, key, value string)
}
