package periods

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *StatusCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStatusCache(client, time.Minute)
}

func TestStatusCacheRoundTrip(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	_, ok := cache.GetOpen(ctx, 1, date)
	require.False(t, ok, "empty cache must miss")

	cache.SetOpen(ctx, 1, date, true)
	open, ok := cache.GetOpen(ctx, 1, date)
	require.True(t, ok)
	require.True(t, open)

	cache.SetOpen(ctx, 1, date, false)
	open, ok = cache.GetOpen(ctx, 1, date)
	require.True(t, ok)
	require.False(t, open)
}

func TestStatusCacheInvalidate(t *testing.T) {
	cache := testCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	cache.SetOpen(ctx, 1, date, true)
	cache.SetOpen(ctx, 2, date, true)

	cache.Invalidate(ctx, 1)

	_, ok := cache.GetOpen(ctx, 1, date)
	require.False(t, ok, "invalidate must drop the company's cached answers")

	open, ok := cache.GetOpen(ctx, 2, date)
	require.True(t, ok, "other companies keep their entries")
	require.True(t, open)
}

func TestStatusCacheNilSafe(t *testing.T) {
	var cache *StatusCache
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	_, ok := cache.GetOpen(ctx, 1, date)
	require.False(t, ok, "nil cache must always miss")
	cache.SetOpen(ctx, 1, date, true)
	cache.Invalidate(ctx, 1)
}
