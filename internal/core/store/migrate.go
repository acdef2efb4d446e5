package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS rate_limits (
		client TEXT PRIMARY KEY,
		request_count INTEGER NOT NULL DEFAULT 0,
		window_start TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scan_cache (
		url TEXT PRIMARY KEY,
		report TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_cache_expires_at ON scan_cache (expires_at)`,
}

// Migrate applies the store schema. Statements are idempotent so Migrate can
// run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("store is not open")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply store schema: %w", err)
		}
	}
	return nil
}
