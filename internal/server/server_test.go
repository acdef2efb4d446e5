package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/core"
	"github.com/sitepulse/sitepulse/internal/core/engine"
	"github.com/sitepulse/sitepulse/internal/core/probe"
	"github.com/sitepulse/sitepulse/internal/server/handlers"
)

type routedProbe struct {
	name  core.CheckName
	score int
}

func (p *routedProbe) Check(ctx context.Context, target *probe.Target) core.Verdict {
	return core.Verdict{Status: core.StatusPass, Score: p.score}
}

func (p *routedProbe) Name() core.CheckName {
	return p.name
}

func testServer(t *testing.T, limiter *engine.RateLimiter) *Server {
	t.Helper()
	scanner := &engine.Scanner{
		SSL:          &routedProbe{name: core.CheckSSL, score: 10},
		DNS:          &routedProbe{name: core.CheckDNS, score: 10},
		Response:     &routedProbe{name: core.CheckServerResponse, score: 15},
		PageSpeed:    &routedProbe{name: core.CheckPageSpeed, score: 15},
		Availability: &routedProbe{name: core.CheckAvailability, score: 15},
		Email:        &routedProbe{name: core.CheckEmail, score: 10},
	}
	scan := handlers.NewScanHandlers(scanner, nil, 0)
	handlers.InitHealthManager("test")
	cfg := config.ServerConfig{Host: "localhost", Port: 0}

	srv := New(cfg, scan, limiter)
	t.Cleanup(handlers.ResetHTTPErrorResponder)
	return srv
}

func TestServerScanEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan?url=example.com", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report core.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, "https://example.com", report.URL)
	require.Len(t, report.Checks, len(core.CheckNames))
}

func TestServerNotFoundEnvelope(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestServerMethodNotAllowedEnvelope(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/scan", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Contains(t, rec.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestServerRateLimitAppliesToScanRoutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &blockedRateStore{now: now}
	limiter := &engine.RateLimiter{
		Store:  store,
		Limit:  1,
		Window: time.Minute,
		Clock:  func() time.Time { return now },
	}
	srv := testServer(t, limiter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan?url=example.com", nil)
	req.RemoteAddr = "203.0.113.7:50000"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Rate limiting is scoped to the scan API; health stays reachable.
	req = httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.RemoteAddr = "203.0.113.7:50000"
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServerRequestIDHeader(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scan?url=example.com", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

type blockedRateStore struct {
	now time.Time
}

func (s *blockedRateStore) GetRateLimit(ctx context.Context, client string) (*core.RateLimitState, error) {
	return &core.RateLimitState{RequestCount: 100, WindowStart: s.now}, nil
}

func (s *blockedRateStore) UpdateRateLimit(ctx context.Context, client string, state *core.RateLimitState) error {
	return nil
}
