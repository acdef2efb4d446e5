package probe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes bounds how much of an upstream response body is read.
const maxBodyBytes = 4 << 20

// ErrAborted marks a fetch that was cancelled by its own deadline, so
// probes can special-case timeout messaging.
var ErrAborted = errors.New("request aborted")

// Response is the reduced view of an upstream HTTP response that probes
// operate on.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport is the capability-scoped HTTP fetch wrapper every probe is
// built on. Each call enforces its own timeout via context cancellation.
type Transport struct {
	Client    *http.Client
	UserAgent string
}

// Fetch performs a single HTTP request under the given timeout. Timeouts
// surface as ErrAborted; other transport failures are returned as-is.
func (t *Transport) Fetch(ctx context.Context, method, rawURL string, headers http.Header, timeout time.Duration) (*Response, error) {
	return t.fetch(ctx, method, rawURL, headers, timeout, false)
}

// FetchSite is Fetch with the identifying User-Agent header set. Used for
// requests sent directly to the scanned site, never for third-party APIs.
func (t *Transport) FetchSite(ctx context.Context, method, rawURL string, headers http.Header, timeout time.Duration) (*Response, error) {
	return t.fetch(ctx, method, rawURL, headers, timeout, true)
}

func (t *Transport) fetch(ctx context.Context, method, rawURL string, headers http.Header, timeout time.Duration, identify bool) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if identify && t != nil && t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	client := t.client()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrAborted
		}
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrAborted
		}
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (t *Transport) client() *http.Client {
	if t != nil && t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

// IsAborted reports whether err represents a timed-out fetch.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted) || errors.Is(err, context.DeadlineExceeded)
}
