package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// GetCachedReport returns the cached report for a normalized URL, or nil when
// no fresh entry exists. Expired entries are treated as absent.
func (s *Store) GetCachedReport(ctx context.Context, url string, now time.Time) (*core.Report, error) {
	if s == nil || s.DB == nil {
		return nil, fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT report, expires_at FROM scan_cache WHERE url = ?`, url)

	var (
		payload   string
		expiresAt string
	)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query scan cache: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse cache expiry: %w", err)
	}
	if !now.Before(expiry) {
		return nil, nil
	}

	var report core.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

// PutCachedReport stores a report for a normalized URL with the given TTL.
func (s *Store) PutCachedReport(ctx context.Context, url string, report *core.Report, now time.Time, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("store is not open")
	}
	if report == nil {
		return fmt.Errorf("report is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO scan_cache (url, report, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET
			report = excluded.report,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		url, string(payload),
		now.UTC().Format(time.RFC3339Nano),
		now.UTC().Add(ttl).Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store cached report: %w", err)
	}
	return nil
}

// PruneCache removes expired cache entries and returns the number removed.
func (s *Store) PruneCache(ctx context.Context, now time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM scan_cache WHERE expires_at <= ?`,
		now.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune scan cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune scan cache: %w", err)
	}
	return affected, nil
}
