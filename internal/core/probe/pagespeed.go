package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

const defaultPageSpeedURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// PageSpeedProbe queries the third-party performance scoring API. A
// third-party outage degrades to a warning instead of tanking the report.
type PageSpeedProbe struct {
	Transport *Transport
	BaseURL   string
	APIKey    string
	Strategy  string
	Timeout   time.Duration
}

// Name returns the check this probe produces.
func (p *PageSpeedProbe) Name() core.CheckName {
	return core.CheckPageSpeed
}

type pagespeedPayload struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			DisplayValue string `json:"displayValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Check runs the performance probe against the scoring API.
func (p *PageSpeedProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.URL == nil {
		return degradedPageSpeed("no target url")
	}

	query := url.Values{}
	query.Set("url", target.String())
	query.Set("strategy", p.strategy())
	if p != nil && p.APIKey != "" {
		query.Set("key", p.APIKey)
	}

	resp, err := p.transport().Fetch(ctx, http.MethodGet, p.baseURL()+"?"+query.Encode(), nil, p.timeout())
	if err != nil {
		if IsAborted(err) {
			return degradedPageSpeed("performance API timed out")
		}
		return degradedPageSpeed(err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return degradedPageSpeed(fmt.Sprintf("performance API returned status %d", resp.StatusCode))
	}

	var payload pagespeedPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return degradedPageSpeed("performance API returned malformed body")
	}

	score := 0.0
	if raw := payload.LighthouseResult.Categories.Performance.Score; raw != nil {
		score = math.Round(*raw * 100)
	}

	details := map[string]any{
		"performanceScore":       score,
		"firstContentfulPaint":   payload.audit("first-contentful-paint"),
		"largestContentfulPaint": payload.audit("largest-contentful-paint"),
		"cumulativeLayoutShift":  payload.audit("cumulative-layout-shift"),
	}

	switch {
	case score >= 90:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: fmt.Sprintf("Excellent page performance (%.0f/100)", score),
			Score:   15,
			Details: details,
		}
	case score >= 50:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Page performance needs improvement (%.0f/100)", score),
			Score:   10,
			Details: details,
		}
	default:
		return core.Verdict{
			Status:  core.StatusFail,
			Message: fmt.Sprintf("Poor page performance (%.0f/100)", score),
			Score:   5,
			Details: details,
		}
	}
}

func (p *pagespeedPayload) audit(name string) string {
	if p == nil || p.LighthouseResult.Audits == nil {
		return ""
	}
	return p.LighthouseResult.Audits[name].DisplayValue
}

func degradedPageSpeed(reason string) core.Verdict {
	return core.Verdict{
		Status:  core.StatusWarn,
		Message: "Performance data unavailable",
		Score:   8,
		Details: map[string]any{"degraded": true, "reason": reason},
	}
}

func (p *PageSpeedProbe) transport() *Transport {
	if p != nil && p.Transport != nil {
		return p.Transport
	}
	return &Transport{}
}

func (p *PageSpeedProbe) baseURL() string {
	if p != nil && p.BaseURL != "" {
		return p.BaseURL
	}
	return defaultPageSpeedURL
}

func (p *PageSpeedProbe) strategy() string {
	if p != nil && p.Strategy != "" {
		return p.Strategy
	}
	return "mobile"
}

func (p *PageSpeedProbe) timeout() time.Duration {
	if p != nil && p.Timeout > 0 {
		return p.Timeout
	}
	return 30 * time.Second
}
