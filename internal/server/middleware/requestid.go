package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation ID that ties a scan request to
// its report, error envelopes, and log lines.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey string

const RequestIDContextKey requestIDContextKey = "request_id"

// RequestID ensures every request carries a correlation ID: the ID from
// chi's RequestID middleware when present, otherwise the caller-supplied
// header, otherwise a fresh UUID. The resolved ID is echoed back in the
// response header so clients can quote it when reporting a failed scan.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		if requestID == "" {
			requestID = r.Header.Get(RequestIDHeader)
		}

		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the correlation ID for the request, falling back
// to chi's context key when only its middleware ran.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}

	if requestID := middleware.GetReqID(ctx); requestID != "" {
		return requestID
	}

	return ""
}
