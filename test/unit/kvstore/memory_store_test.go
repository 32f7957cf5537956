package kvstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pharmagen/pharmagen/internal/infrastructure/kvstore"
)

func TestMemoryStore_GetAbsentKey(t *testing.T) {
	s := kvstore.NewMemoryStore()
	_, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_SetGetRoundTrip(t *testing.T) {
	s := kvstore.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "k", "v", 0))
	val, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	now := time.Now()
	s := kvstore.NewMemoryStoreWithClock(func() time.Time { return now })

	require.NoError(t, s.Set(context.Background(), "k", "v", time.Minute))
	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(time.Minute + time.Second)
	_, ok, err = s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	s := kvstore.NewMemoryStoreWithClock(func() time.Time { return now })

	require.NoError(t, s.Set(context.Background(), "k", "v", 0))
	now = now.Add(240 * time.Hour)
	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStore_IncrementCreatesAndCounts(t *testing.T) {
	s := kvstore.NewMemoryStore()
	for want := int64(1); want <= 5; want++ {
		got, err := s.Increment(context.Background(), "counter", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	// Counters read back as decimal strings, same as the Redis backend.
	val, ok, err := s.Get(context.Background(), "counter")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "5", val)
}

func TestMemoryStore_IncrementKeepsExistingTTL(t *testing.T) {
	now := time.Now()
	s := kvstore.NewMemoryStoreWithClock(func() time.Time { return now })

	_, err := s.Increment(context.Background(), "counter", time.Minute)
	require.NoError(t, err)

	// A second increment 30s in must not push the expiry out.
	now = now.Add(30 * time.Second)
	_, err = s.Increment(context.Background(), "counter", time.Minute)
	require.NoError(t, err)

	now = now.Add(31 * time.Second)
	_, ok, err := s.Get(context.Background(), "counter")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_IncrementRestartsAfterExpiry(t *testing.T) {
	now := time.Now()
	s := kvstore.NewMemoryStoreWithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		_, err := s.Increment(context.Background(), "counter", time.Minute)
		require.NoError(t, err)
	}

	now = now.Add(2 * time.Minute)
	got, err := s.Increment(context.Background(), "counter", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), got)
}

func TestMemoryStore_IncrementRejectsNonInteger(t *testing.T) {
	s := kvstore.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "k", "not-a-number", 0))
	_, err := s.Increment(context.Background(), "k", 0)
	require.Error(t, err)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	s := kvstore.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "k", "v", 0))
	require.NoError(t, s.Delete(context.Background(), "k"))
	require.NoError(t, s.Delete(context.Background(), "k"))
	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}
