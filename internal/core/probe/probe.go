package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sitepulse/sitepulse/internal/core"
)

// Probe is the interface all diagnostic probes implement. Check is total:
// every internal failure is converted into a degraded Verdict, never an
// error.
type Probe interface {
	// Check runs the probe against the target and always returns a Verdict.
	Check(ctx context.Context, target *Target) core.Verdict

	// Name returns the check this probe produces.
	Name() core.CheckName
}

// Target is the normalized scan target shared by all probes.
type Target struct {
	URL      *url.URL
	Hostname string
	IsHTTPS  bool
}

// String returns the normalized target URL.
func (t *Target) String() string {
	if t == nil || t.URL == nil {
		return ""
	}
	return t.URL.String()
}

// NormalizeTarget validates a raw target URL and defaults the scheme to
// https when absent. Invalid input is rejected here, before any probe runs.
func NormalizeTarget(raw string) (*Target, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, errors.New("target url is required")
	}

	if !strings.Contains(value, "://") {
		value = "https://" + value
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid target url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, errors.New("target url has no hostname")
	}

	return &Target{
		URL:      parsed,
		Hostname: strings.ToLower(parsed.Hostname()),
		IsHTTPS:  parsed.Scheme == "https",
	}, nil
}
