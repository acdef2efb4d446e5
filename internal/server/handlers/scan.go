package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/core"
	"github.com/sitepulse/sitepulse/internal/core/engine"
	"github.com/sitepulse/sitepulse/internal/core/probe"
	apperrors "github.com/sitepulse/sitepulse/internal/errors"
	"github.com/sitepulse/sitepulse/internal/metrics"
	"github.com/sitepulse/sitepulse/internal/observability"
)

const maxScanBodyBytes = 64 << 10

// ReportCache abstracts the scan report cache so handlers can be tested with
// a stub store.
type ReportCache interface {
	GetCachedReport(ctx context.Context, url string, now time.Time) (*core.Report, error)
	PutCachedReport(ctx context.Context, url string, report *core.Report, now time.Time, ttl time.Duration) error
}

// ScanHandlers serves the scan API backed by the diagnostic engine.
type ScanHandlers struct {
	Scanner  *engine.Scanner
	Cache    ReportCache
	CacheTTL time.Duration

	// Clock allows tests to control time. Defaults to time.Now.
	Clock func() time.Time
}

// ScanRequest is the POST body for scan requests.
type ScanRequest struct {
	URL string `json:"url"`
}

// NewScanHandlers creates scan handlers around a configured scanner.
func NewScanHandlers(scanner *engine.Scanner, cache ReportCache, cacheTTL time.Duration) *ScanHandlers {
	return &ScanHandlers{
		Scanner:  scanner,
		Cache:    cache,
		CacheTTL: cacheTTL,
	}
}

// ScanPostHandler handles POST /api/v1/scan with a JSON body.
func (h *ScanHandlers) ScanPostHandler(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScanBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Request body must be JSON with a url field"))
		return
	}

	h.serveScan(w, r, req.URL)
}

// ScanGetHandler handles GET /api/v1/scan?url=example.com.
func (h *ScanHandlers) ScanGetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveScan(w, r, r.URL.Query().Get("url"))
}

func (h *ScanHandlers) serveScan(w http.ResponseWriter, r *http.Request, rawURL string) {
	if strings.TrimSpace(rawURL) == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("A url is required"))
		return
	}

	target, err := probe.NormalizeTarget(rawURL)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Invalid URL"))
		return
	}

	ctx := r.Context()
	now := h.now()

	if h.Cache != nil {
		cached, err := h.Cache.GetCachedReport(ctx, target.String(), now)
		if err != nil && observability.ServerLogger != nil {
			observability.ServerLogger.Warn("Report cache lookup failed",
				zap.String("url", target.String()),
				zap.Error(err))
		}
		if cached != nil {
			cached.FromCache = true
			metrics.RecordCacheHit()
			metrics.RecordScan(true, true, 0)
			writeReport(w, cached)
			return
		}
	}

	start := time.Now()
	report, err := h.Scanner.Scan(ctx, rawURL)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(ctx, err, "Invalid URL"))
		return
	}

	metrics.RecordScan(true, false, time.Since(start))
	metrics.RecordScanScore(report.OverallScore)

	if h.Cache != nil && h.CacheTTL > 0 {
		if err := h.Cache.PutCachedReport(ctx, target.String(), report, h.now(), h.CacheTTL); err != nil && observability.ServerLogger != nil {
			observability.ServerLogger.Warn("Failed to cache scan report",
				zap.String("url", target.String()),
				zap.Error(err))
		}
	}

	writeReport(w, report)
}

func (h *ScanHandlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func writeReport(w http.ResponseWriter, report *core.Report) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(report)
}
