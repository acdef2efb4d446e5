package probe

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// ResponseProbe measures time to first byte against the target directly.
type ResponseProbe struct {
	Transport *Transport
	Timeout   time.Duration
	Clock     func() time.Time
}

// Name returns the check this probe produces.
func (p *ResponseProbe) Name() core.CheckName {
	return core.CheckServerResponse
}

// Check issues a HEAD request and grades the elapsed wall time.
func (p *ResponseProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.URL == nil {
		return core.Verdict{Status: core.StatusFail, Message: "No target to probe", Score: 0}
	}

	start := p.now()
	resp, err := p.transport().FetchSite(ctx, http.MethodHead, target.String(), nil, p.timeout())
	elapsed := math.Round(float64(p.now().Sub(start).Microseconds()) / 1000)

	if err != nil {
		if IsAborted(err) {
			return core.Verdict{
				Status:  core.StatusFail,
				Message: "Server response timed out",
				Score:   0,
				Details: map[string]any{"timeout": true},
			}
		}
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "Could not connect to server",
			Score:   0,
			Details: map[string]any{"error": err.Error()},
		}
	}

	details := map[string]any{
		"responseTime": elapsed,
		"statusCode":   resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Server answered with status %d", resp.StatusCode),
			Score:   5,
			Details: details,
		}
	}

	switch {
	case elapsed < 200:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: fmt.Sprintf("Fast server response (%.0fms)", elapsed),
			Score:   15,
			Details: details,
		}
	case elapsed < 500:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Moderate server response (%.0fms)", elapsed),
			Score:   10,
			Details: details,
		}
	default:
		return core.Verdict{
			Status:  core.StatusFail,
			Message: fmt.Sprintf("Slow server response (%.0fms)", elapsed),
			Score:   5,
			Details: details,
		}
	}
}

func (p *ResponseProbe) transport() *Transport {
	if p != nil && p.Transport != nil {
		return p.Transport
	}
	return &Transport{}
}

func (p *ResponseProbe) timeout() time.Duration {
	if p != nil && p.Timeout > 0 {
		return p.Timeout
	}
	return 10 * time.Second
}

func (p *ResponseProbe) now() time.Time {
	if p != nil && p.Clock != nil {
		return p.Clock()
	}
	return time.Now().UTC()
}
