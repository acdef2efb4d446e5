package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/core"
)

type memoryRateStore struct {
	mu    sync.Mutex
	state map[string]*core.RateLimitState
	err   error
}

func (m *memoryRateStore) GetRateLimit(ctx context.Context, client string) (*core.RateLimitState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.state == nil {
		return nil, nil
	}
	if val, ok := m.state[client]; ok {
		copied := *val
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRateStore) UpdateRateLimit(ctx context.Context, client string, state *core.RateLimitState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.state == nil {
		m.state = make(map[string]*core.RateLimitState)
	}
	m.state[client] = state
	return nil
}

func (m *memoryRateStore) count(client string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil || m.state[client] == nil {
		return 0
	}
	return m.state[client].RequestCount
}

func TestRateLimiterWindow(t *testing.T) {
	store := &memoryRateStore{}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := &RateLimiter{
		Store:  store,
		Limit:  2,
		Window: time.Minute,
		Clock:  func() time.Time { return now },
	}

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Reserve(context.Background(), "203.0.113.7")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, wait, err := limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, time.Minute, wait)
	require.Equal(t, 2, store.count("203.0.113.7"))
}

func TestRateLimiterWindowExpiryResets(t *testing.T) {
	store := &memoryRateStore{}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := &RateLimiter{
		Store:  store,
		Limit:  1,
		Window: time.Minute,
		Clock:  func() time.Time { return now },
	}

	allowed, _, err := limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.False(t, allowed)

	now = now.Add(2 * time.Minute)

	allowed, _, err = limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, 1, store.count("203.0.113.7"))
	require.Equal(t, now, store.state["203.0.113.7"].WindowStart)
}

func TestRateLimiterClientsIndependent(t *testing.T) {
	store := &memoryRateStore{}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := &RateLimiter{
		Store:  store,
		Limit:  1,
		Window: time.Minute,
		Clock:  func() time.Time { return now },
	}

	allowed, _, err := limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.Reserve(context.Background(), "198.51.100.4")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRateLimiterConcurrentSameClient(t *testing.T) {
	store := &memoryRateStore{}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := &RateLimiter{
		Store:  store,
		Limit:  5,
		Window: time.Minute,
		Clock:  func() time.Time { return now },
	}

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, err := limiter.Reserve(context.Background(), "203.0.113.7")
			if err != nil {
				t.Errorf("reserve failed: %v", err)
			}
			results <- allowed
		}()
	}
	wg.Wait()
	close(results)

	allowedCount := 0
	for allowed := range results {
		if allowed {
			allowedCount++
		}
	}
	require.Equal(t, 5, allowedCount)
	require.Equal(t, 5, store.count("203.0.113.7"))
}

func TestRateLimiterAllowsWithoutStore(t *testing.T) {
	limiter := &RateLimiter{Limit: 1, Window: time.Minute}

	allowed, wait, err := limiter.Reserve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Zero(t, wait)
}

func TestRateLimiterAllowsEmptyClient(t *testing.T) {
	limiter := &RateLimiter{Store: &memoryRateStore{}, Limit: 1}

	allowed, _, err := limiter.Reserve(context.Background(), "   ")
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestRateLimiterSurfacesStoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	limiter := &RateLimiter{Store: &memoryRateStore{err: storeErr}, Limit: 1}

	allowed, _, err := limiter.Reserve(context.Background(), "203.0.113.7")
	require.ErrorIs(t, err, storeErr)
	require.True(t, allowed)
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := &RateLimiter{}
	require.Equal(t, 10, limiter.limit())
	require.Equal(t, time.Minute, limiter.window())
}
