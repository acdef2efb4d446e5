package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// GetRateLimit returns the persisted rate limit window for a client, or nil
// when the client has no recorded requests.
func (s *Store) GetRateLimit(ctx context.Context, client string) (*core.RateLimitState, error) {
	if s == nil || s.DB == nil {
		return nil, fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT request_count, window_start FROM rate_limits WHERE client = ?`, client)

	var (
		count       int
		windowStart string
	)
	if err := row.Scan(&count, &windowStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query rate limit: %w", err)
	}

	start, err := time.Parse(time.RFC3339Nano, windowStart)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit window: %w", err)
	}

	return &core.RateLimitState{RequestCount: count, WindowStart: start}, nil
}

// UpdateRateLimit upserts the rate limit window for a client.
func (s *Store) UpdateRateLimit(ctx context.Context, client string, state *core.RateLimitState) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("store is not open")
	}
	if state == nil {
		return fmt.Errorf("rate limit state is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO rate_limits (client, request_count, window_start)
		 VALUES (?, ?, ?)
		 ON CONFLICT (client) DO UPDATE SET
			request_count = excluded.request_count,
			window_start = excluded.window_start`,
		client, state.RequestCount, state.WindowStart.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("update rate limit: %w", err)
	}
	return nil
}

// RateLimitEntry pairs a client with its persisted window, used by the
// ratelimit admin commands.
type RateLimitEntry struct {
	Client string
	State  core.RateLimitState
}

// ListRateLimits returns every persisted rate limit window.
func (s *Store) ListRateLimits(ctx context.Context) ([]RateLimitEntry, error) {
	if s == nil || s.DB == nil {
		return nil, fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT client, request_count, window_start FROM rate_limits ORDER BY client`)
	if err != nil {
		return nil, fmt.Errorf("list rate limits: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	var entries []RateLimitEntry
	for rows.Next() {
		var (
			entry       RateLimitEntry
			windowStart string
		)
		if err := rows.Scan(&entry.Client, &entry.State.RequestCount, &windowStart); err != nil {
			return nil, fmt.Errorf("scan rate limit row: %w", err)
		}
		start, err := time.Parse(time.RFC3339Nano, windowStart)
		if err != nil {
			return nil, fmt.Errorf("parse rate limit window: %w", err)
		}
		entry.State.WindowStart = start
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate limits: %w", err)
	}
	return entries, nil
}

// ResetRateLimit removes the persisted window for a client. It reports
// whether a row was deleted.
func (s *Store) ResetRateLimit(ctx context.Context, client string) (bool, error) {
	if s == nil || s.DB == nil {
		return false, fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM rate_limits WHERE client = ?`, client)
	if err != nil {
		return false, fmt.Errorf("reset rate limit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reset rate limit: %w", err)
	}
	return affected > 0, nil
}
