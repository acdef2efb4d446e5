package handlers

import (
	"net/http"

	apperrors "github.com/sitepulse/sitepulse/internal/errors"
)

// Scan and health handlers report failures through a single responder so
// every endpoint emits the same error envelope shape. The server package
// swaps in its request-ID-aware handler at startup.

var defaultHTTPErrorResponder = func(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}

var httpErrorResponder = defaultHTTPErrorResponder

// SetHTTPErrorResponder overrides how handlers write error responses.
// Passing nil restores the default envelope writer.
func SetHTTPErrorResponder(responder func(http.ResponseWriter, *http.Request, error)) {
	if responder == nil {
		httpErrorResponder = defaultHTTPErrorResponder
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder (useful for tests).
func ResetHTTPErrorResponder() {
	httpErrorResponder = defaultHTTPErrorResponder
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}
