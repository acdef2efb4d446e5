//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenMemoryStore(t *testing.T) {
	store := openTestStore(t)
	require.Equal(t, "libsql", store.Driver())
}

func TestRateLimitRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	state, err := store.GetRateLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Nil(t, state)

	windowStart := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateRateLimit(ctx, "203.0.113.7", &core.RateLimitState{
		RequestCount: 3,
		WindowStart:  windowStart,
	}))

	state, err = store.GetRateLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, 3, state.RequestCount)
	require.True(t, state.WindowStart.Equal(windowStart))

	// Upsert replaces the stored window.
	require.NoError(t, store.UpdateRateLimit(ctx, "203.0.113.7", &core.RateLimitState{
		RequestCount: 9,
		WindowStart:  windowStart.Add(time.Minute),
	}))

	state, err = store.GetRateLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.Equal(t, 9, state.RequestCount)
}

func TestListAndResetRateLimits(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	now := time.Now().UTC()
	require.NoError(t, store.UpdateRateLimit(ctx, "198.51.100.4", &core.RateLimitState{RequestCount: 1, WindowStart: now}))
	require.NoError(t, store.UpdateRateLimit(ctx, "203.0.113.7", &core.RateLimitState{RequestCount: 2, WindowStart: now}))

	entries, err := store.ListRateLimits(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "198.51.100.4", entries[0].Client)
	require.Equal(t, "203.0.113.7", entries[1].Client)

	deleted, err := store.ResetRateLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = store.ResetRateLimit(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, deleted)

	entries, err = store.ListRateLimits(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestScanCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	report := &core.Report{
		ScanID:       "scan-1",
		URL:          "https://example.com",
		OverallScore: 88,
		ScoreLevel:   "EXCELLENT",
		Checks: map[core.CheckName]core.Verdict{
			core.CheckSSL: {Status: core.StatusPass, Score: 10},
		},
	}

	cached, err := store.GetCachedReport(ctx, "https://example.com", now)
	require.NoError(t, err)
	require.Nil(t, cached)

	require.NoError(t, store.PutCachedReport(ctx, "https://example.com", report, now, 10*time.Minute))

	cached, err = store.GetCachedReport(ctx, "https://example.com", now.Add(5*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "scan-1", cached.ScanID)
	require.Equal(t, 88, cached.OverallScore)
	require.Equal(t, 10, cached.Checks[core.CheckSSL].Score)

	// Expired entries read as absent.
	cached, err = store.GetCachedReport(ctx, "https://example.com", now.Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestScanCacheUpsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Now().UTC()

	first := &core.Report{ScanID: "scan-1", URL: "https://example.com"}
	second := &core.Report{ScanID: "scan-2", URL: "https://example.com"}

	require.NoError(t, store.PutCachedReport(ctx, "https://example.com", first, now, time.Hour))
	require.NoError(t, store.PutCachedReport(ctx, "https://example.com", second, now, time.Hour))

	cached, err := store.GetCachedReport(ctx, "https://example.com", now)
	require.NoError(t, err)
	require.Equal(t, "scan-2", cached.ScanID)
}

func TestPruneCache(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.PutCachedReport(ctx, "https://stale.example", &core.Report{ScanID: "old"}, now.Add(-2*time.Hour), time.Hour))
	require.NoError(t, store.PutCachedReport(ctx, "https://fresh.example", &core.Report{ScanID: "new"}, now, time.Hour))

	pruned, err := store.PruneCache(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	cached, err := store.GetCachedReport(ctx, "https://fresh.example", now)
	require.NoError(t, err)
	require.NotNil(t, cached)
}

func TestMigrateIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Migrate(ctx))
}
