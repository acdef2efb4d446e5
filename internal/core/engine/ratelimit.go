package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// RateLimiter enforces a per-client sliding window over persisted
// counters. The store is the only cross-request shared state; the
// mutex serializes the check-and-increment so concurrent requests from
// one process cannot overshoot the limit.
type RateLimiter struct {
	Store  RateLimitStore
	Limit  int
	Window time.Duration
	Clock  func() time.Time

	mu sync.Mutex
}

// RateLimitStore persists per-client window state.
type RateLimitStore interface {
	GetRateLimit(ctx context.Context, client string) (*core.RateLimitState, error)
	UpdateRateLimit(ctx context.Context, client string, state *core.RateLimitState) error
}

// Reserve consumes one request slot for the client, returning the wait
// duration when the window is exhausted. A limiter without a store
// allows everything, and store errors allow the request so a degraded
// database never blocks scans.
func (r *RateLimiter) Reserve(ctx context.Context, client string) (bool, time.Duration, error) {
	if r == nil || r.Store == nil {
		return true, 0, nil
	}

	client = strings.TrimSpace(client)
	if client == "" {
		return true, 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.Store.GetRateLimit(ctx, client)
	if err != nil {
		return true, 0, err
	}
	if state == nil {
		state = &core.RateLimitState{WindowStart: r.now()}
	}

	windowEnd := state.WindowStart.Add(r.window())
	if r.now().After(windowEnd) {
		state.RequestCount = 0
		state.WindowStart = r.now()
		windowEnd = state.WindowStart.Add(r.window())
	}

	if state.RequestCount >= r.limit() {
		return false, windowEnd.Sub(r.now()), nil
	}

	state.RequestCount++
	if err := r.Store.UpdateRateLimit(ctx, client, state); err != nil {
		return true, 0, err
	}

	return true, 0, nil
}

func (r *RateLimiter) limit() int {
	if r != nil && r.Limit > 0 {
		return r.Limit
	}
	return 10
}

func (r *RateLimiter) window() time.Duration {
	if r != nil && r.Window > 0 {
		return r.Window
	}
	return time.Minute
}

func (r *RateLimiter) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
