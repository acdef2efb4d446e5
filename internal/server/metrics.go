package server

import (
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/observability"
)

var metricsProxyClient = &http.Client{
	Timeout: 5 * time.Second,
}

// hopByHopHeaders are connection-scoped and must not be copied from the
// exporter response; net/http manages them per hop.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// MetricsHandler exposes the scan and probe counters on the main HTTP
// server by proxying the loopback Prometheus exporter, so operators
// scrape one port for both the API and its metrics.
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	exporter := observability.PrometheusExporter
	if exporter == nil {
		err := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", "Metrics exporter not initialized")
		HandleError(w, r, err)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, exporterMetricsURL(), nil)
	if err != nil {
		wrappedErr, _ := errors.NewErrorEnvelope("INTERNAL_ERROR", "Unable to construct metrics request").
			WithContext(map[string]interface{}{
				"original_error": err.Error(),
			})
		HandleError(w, r, wrappedErr)
		return
	}

	// Preserve caller hint for content negotiation
	if accept := r.Header.Get("Accept"); accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := metricsProxyClient.Do(req)
	if err != nil {
		wrappedErr, _ := errors.NewErrorEnvelope("EXTERNAL_SERVICE_ERROR", "Prometheus exporter unavailable").
			WithContext(map[string]interface{}{
				"original_error": err.Error(),
			})
		HandleError(w, r, wrappedErr)
		return
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			observability.ServerLogger.Warn("Failed to close metrics response body",
				zap.Error(err))
		}
	}()

	for key, values := range resp.Header {
		if _, skip := hopByHopHeaders[textproto.CanonicalMIMEHeaderKey(key)]; skip {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	if resp.Header.Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	}

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil && observability.ServerLogger != nil {
		observability.ServerLogger.Warn("Failed to write metrics response",
			zap.Error(err))
	}
}

// exporterMetricsURL resolves the loopback address of the Prometheus
// exporter, preferring the port it actually bound over configuration.
func exporterMetricsURL() string {
	port := observability.GetMetricsPort()
	if port == 0 {
		port = viper.GetInt("metrics.port")
	}
	if port == 0 {
		port = 9090
	}
	return fmt.Sprintf("http://127.0.0.1:%d/metrics", port)
}
