package metrics

import (
	"time"

	"github.com/sitepulse/sitepulse/internal/observability"
)

// Application-level metrics following Prometheus conventions
var (
	// Scan metrics
	ScansTotal       = "app_scans_total"
	ScanDuration     = "app_scan_duration_ms"
	ScanScore        = "app_scan_score"
	CacheHitsTotal   = "app_scan_cache_hits_total"
	RateLimitedTotal = "app_rate_limited_total"
	ProbeDuration    = "app_probe_duration_ms"
	ProbeStatusTotal = "app_probe_status_total"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordScan records a completed scan with its outcome and duration.
func RecordScan(success bool, fromCache bool, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}
	source := "live"
	if fromCache {
		source = "cache"
	}

	_ = observability.TelemetrySystem.Counter(
		ScansTotal,
		1,
		map[string]string{
			"status": status,
			"source": source,
		},
	)

	_ = observability.TelemetrySystem.Histogram(
		ScanDuration,
		duration,
		map[string]string{"source": source},
	)
}

// RecordScanScore records the overall score of a completed scan.
func RecordScanScore(score int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ScanScore,
			float64(score),
			nil,
		)
	}
}

// RecordCacheHit records a scan served from the report cache.
func RecordCacheHit() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(CacheHitsTotal, 1, nil)
	}
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited(client string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			RateLimitedTotal,
			1,
			map[string]string{"client": client},
		)
	}
}

// RecordProbe records a single probe execution with its verdict status.
func RecordProbe(check string, status string, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}

	_ = observability.TelemetrySystem.Counter(
		ProbeStatusTotal,
		1,
		map[string]string{
			"check":  check,
			"status": status,
		},
	)

	_ = observability.TelemetrySystem.Histogram(
		ProbeDuration,
		duration,
		map[string]string{"check": check},
	)
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
