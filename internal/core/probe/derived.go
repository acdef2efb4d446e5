package probe

import (
	"github.com/sitepulse/sitepulse/internal/core"
)

// The derived checks are pure functions over other probes' verdicts.
// They run after their sources resolve and perform no I/O, which keeps
// them directly unit-testable without running the underlying probes.

// MobileVerdict derives the mobile check from the performance verdict.
func MobileVerdict(pageSpeed core.Verdict) core.Verdict {
	score := performanceScore(pageSpeed)

	switch {
	case pageSpeed.Status == core.StatusFail || score < 50:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: "Mobile experience likely poor",
			Score:   5,
			Details: map[string]any{"performanceScore": score},
		}
	case score < 90:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: "Mobile experience acceptable",
			Score:   12,
			Details: map[string]any{"performanceScore": score},
		}
	default:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: "Mobile experience excellent",
			Score:   15,
			Details: map[string]any{"performanceScore": score},
		}
	}
}

// HTTPSVerdict derives the HTTPS-quality check from the target scheme and
// the certificate verdict.
func HTTPSVerdict(isHTTPS bool, ssl core.Verdict) core.Verdict {
	if !isHTTPS {
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "Site does not use HTTPS",
			Score:   0,
		}
	}

	switch ssl.Status {
	case core.StatusPass:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: "HTTPS properly configured",
			Score:   10,
		}
	case core.StatusWarn:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: "HTTPS configured with certificate warnings",
			Score:   5,
		}
	default:
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "HTTPS not working",
			Score:   0,
		}
	}
}

func performanceScore(pageSpeed core.Verdict) float64 {
	if pageSpeed.Details == nil {
		return 0
	}
	switch value := pageSpeed.Details["performanceScore"].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return 0
	}
}
