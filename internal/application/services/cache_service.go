package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/pharmagen/pharmagen/configs"
	"github.com/pharmagen/pharmagen/internal/core/ports"
)

// cacheKeyPrefix namespaces cache entries away from rate-limit counters in the
// shared key-value store.
const cacheKeyPrefix = "cache:"

// CacheService implements ports.CacheManager on the key-value store. The cache
// is best-effort by contract: store failures degrade to misses and dropped
// writes so a broken backend can never fail a caller's request.
type CacheService struct {
	store   ports.KeyValueStore
	ttl     time.Duration
	enabled bool
	logger  *logrus.Logger
}

func NewCacheService(store ports.KeyValueStore, cfg *config.CacheConfig, logger *logrus.Logger) *CacheService {
	ttl := time.Hour
	enabled := true
	if cfg != nil {
		if cfg.TTL > 0 {
			ttl = cfg.TTL
		}
		enabled = cfg.Enabled
	}
	return &CacheService{store: store, ttl: ttl, enabled: enabled, logger: logger}
}

// MakeKey collapses whitespace in the source text and digests it together with
// the target language. The digest keeps keys fixed-length and keeps raw user
// text out of the store's keyspace.
func (s *CacheService) MakeKey(sourceText, targetLanguage string) string {
	normalized := strings.Join(strings.Fields(sourceText), " ")
	sum := sha256.Sum256([]byte(normalized + "|" + targetLanguage))
	return hex.EncodeToString(sum[:])
}

// Lookup implements CacheManager.Lookup. Store failures count as misses.
func (s *CacheService) Lookup(ctx context.Context, key string) (string, bool) {
	if !s.enabled {
		return "", false
	}
	val, ok, err := s.store.Get(ctx, cacheKeyPrefix+key)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Debug("cache lookup failed; treating as miss")
		}
		cacheLookups.WithLabelValues("error").Inc()
		return "", false
	}
	if !ok {
		cacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}
	cacheLookups.WithLabelValues("hit").Inc()
	return val, true
}

// Store implements CacheManager.Store. Write failures are swallowed.
func (s *CacheService) Store(ctx context.Context, key, value string) {
	if !s.enabled {
		return
	}
	if err := s.store.Set(ctx, cacheKeyPrefix+key, value, s.ttl); err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Debug("cache store failed; dropping entry")
		}
	}
}
