package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// AvailabilityProbe answers the basic up/down question for the target.
type AvailabilityProbe struct {
	Transport *Transport
	Timeout   time.Duration
}

// Name returns the check this probe produces.
func (p *AvailabilityProbe) Name() core.CheckName {
	return core.CheckAvailability
}

// Check issues a HEAD request, following redirects. Redirect targets
// count as online.
func (p *AvailabilityProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.URL == nil {
		return core.Verdict{Status: core.StatusFail, Message: "No target to probe", Score: 0}
	}

	resp, err := p.transport().FetchSite(ctx, http.MethodHead, target.String(), nil, p.timeout())
	if err != nil {
		message := "Site is unreachable"
		if IsAborted(err) {
			message = "Site did not respond before the deadline"
		}
		return core.Verdict{
			Status:  core.StatusFail,
			Message: message,
			Score:   0,
			Details: map[string]any{"online": false},
		}
	}

	details := map[string]any{
		"online":     true,
		"statusCode": resp.StatusCode,
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: "Site is online",
			Score:   15,
			Details: details,
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Site answered with client error %d", resp.StatusCode),
			Score:   8,
			Details: details,
		}
	default:
		details["online"] = false
		return core.Verdict{
			Status:  core.StatusFail,
			Message: fmt.Sprintf("Site answered with server error %d", resp.StatusCode),
			Score:   0,
			Details: details,
		}
	}
}

func (p *AvailabilityProbe) transport() *Transport {
	if p != nil && p.Transport != nil {
		return p.Transport
	}
	return &Transport{}
}

func (p *AvailabilityProbe) timeout() time.Duration {
	if p != nil && p.Timeout > 0 {
		return p.Timeout
	}
	return 5 * time.Second
}
