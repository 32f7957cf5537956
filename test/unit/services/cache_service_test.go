package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	config "github.com/pharmagen/pharmagen/configs"
	impl "github.com/pharmagen/pharmagen/internal/application/services"
	"github.com/pharmagen/pharmagen/internal/core/ports"
	"github.com/pharmagen/pharmagen/internal/infrastructure/kvstore"
	"github.com/pharmagen/pharmagen/test/mocks"
)

func newCacheService(store ports.KeyValueStore, ttl time.Duration) *impl.CacheService {
	return impl.NewCacheService(store, &config.CacheConfig{Enabled: true, TTL: ttl}, logrus.New())
}

func TestCacheService_MakeKeyDeterministic(t *testing.T) {
	svc := newCacheService(kvstore.NewMemoryStore(), time.Hour)
	k1 := svc.MakeKey("I have a headache", "es")
	k2 := svc.MakeKey("I have a headache", "es")
	require.Equal(t, k1, k2)
	require.Len(t, k1, 64)
}

func TestCacheService_MakeKeyNormalizesWhitespace(t *testing.T) {
	svc := newCacheService(kvstore.NewMemoryStore(), time.Hour)
	require.Equal(t, svc.MakeKey("I have a   headache", "es"), svc.MakeKey("  I have a\nheadache ", "es"))
}

func TestCacheService_MakeKeySeparatesLanguages(t *testing.T) {
	svc := newCacheService(kvstore.NewMemoryStore(), time.Hour)
	require.NotEqual(t, svc.MakeKey("I have a headache", "es"), svc.MakeKey("I have a headache", "fr"))
	require.NotEqual(t, svc.MakeKey("I have a headache", "es"), svc.MakeKey("I have a migraine", "es"))
}

func TestCacheService_StoreLookupRoundTrip(t *testing.T) {
	svc := newCacheService(kvstore.NewMemoryStore(), time.Hour)
	key := svc.MakeKey("hello", "fr")

	_, ok := svc.Lookup(context.Background(), key)
	require.False(t, ok)

	svc.Store(context.Background(), key, "bonjour")
	val, ok := svc.Lookup(context.Background(), key)
	require.True(t, ok)
	require.Equal(t, "bonjour", val)
}

func TestCacheService_EntriesExpire(t *testing.T) {
	now := time.Now()
	store := kvstore.NewMemoryStoreWithClock(func() time.Time { return now })
	svc := newCacheService(store, time.Minute)

	key := svc.MakeKey("hello", "fr")
	svc.Store(context.Background(), key, "bonjour")

	now = now.Add(2 * time.Minute)
	_, ok := svc.Lookup(context.Background(), key)
	require.False(t, ok)
}

func TestCacheService_DisabledAlwaysMisses(t *testing.T) {
	svc := impl.NewCacheService(kvstore.NewMemoryStore(), &config.CacheConfig{Enabled: false, TTL: time.Hour}, logrus.New())
	key := svc.MakeKey("hello", "fr")
	svc.Store(context.Background(), key, "bonjour")
	_, ok := svc.Lookup(context.Background(), key)
	require.False(t, ok)
}

func TestCacheService_StoreFailureDegradesToMiss(t *testing.T) {
	broken := &mocks.KeyValueStoreMock{
		GetFn: func(ctx context.Context, key string) (string, bool, error) {
			return "", false, ports.ErrStoreUnavailable
		},
		SetFn: func(ctx context.Context, key, value string, ttl time.Duration) error {
			return ports.ErrStoreUnavailable
		},
	}
	svc := newCacheService(broken, time.Hour)
	key := svc.MakeKey("hello", "fr")

	// Neither call may surface an error to the caller.
	svc.Store(context.Background(), key, "bonjour")
	_, ok := svc.Lookup(context.Background(), key)
	require.False(t, ok)
}
