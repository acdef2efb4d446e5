package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/fulmenhq/gofulmen/errors"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/core/engine"
	"github.com/sitepulse/sitepulse/internal/metrics"
	"github.com/sitepulse/sitepulse/internal/observability"
)

// RateLimit enforces the per-client request limit on scan endpoints. A nil
// limiter disables enforcement. Store failures fail open so a degraded
// database never blocks scans.
func RateLimit(limiter *engine.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			client := clientIP(r)

			allowed, wait, err := limiter.Reserve(r.Context(), client)
			if err != nil {
				if observability.ServerLogger != nil {
					observability.ServerLogger.Warn("Rate limit check failed, allowing request",
						zap.String("client", client),
						zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.RecordRateLimited(client)

				retryAfter := int(math.Ceil(wait.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				envelope := errors.NewErrorEnvelope("RATE_LIMITED", "Too many scan requests, slow down").
					WithCorrelationID(GetRequestID(r.Context()))
				envelope, _ = envelope.WithContext(map[string]interface{}{
					"retry_after_seconds": retryAfter,
				})

				writeErrorResponse(w, envelope, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address without the port. RealIP
// middleware has already folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
