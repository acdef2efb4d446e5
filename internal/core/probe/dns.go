package probe

import (
	"context"
	"fmt"
	"math"

	"github.com/sitepulse/sitepulse/internal/core"
)

// DNS speed thresholds in milliseconds over the average provider time.
const (
	dnsExcellentMs = 20
	dnsFastMs      = 75
	dnsSlowMs      = 150
)

// DNSProbe measures resolution speed and security posture by querying
// two independent DNS-over-HTTPS providers in parallel and reconciling
// their answers.
type DNSProbe struct {
	DoH *DoHClient
}

// Name returns the check this probe produces.
func (p *DNSProbe) Name() core.CheckName {
	return core.CheckDNS
}

// Check runs the dual-provider DNS probe. A provider's failure never
// blocks the other; at least one must succeed for a non-fail verdict.
func (p *DNSProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.Hostname == "" {
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "No hostname to resolve",
			Score:   0,
		}
	}

	google, cloudflare := p.doh().QueryBoth(ctx, target.Hostname, "A")

	var successTimes []float64
	for _, result := range []DoHResult{google, cloudflare} {
		if result.OK() {
			successTimes = append(successTimes, durationMs(result))
		}
	}

	if len(successTimes) == 0 {
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "DNS lookup failed on all providers",
			Score:   0,
			Details: map[string]any{
				"responseTime": math.Round(math.Min(durationMs(google), durationMs(cloudflare))),
			},
		}
	}

	// Google's record set is preferred for analysis when it answered.
	chosen := google
	if !google.OK() {
		chosen = cloudflare
	}

	answers := chosen.Response.Answer
	if len(answers) == 0 {
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "DNS records not found",
			Score:   0,
			Details: map[string]any{"provider": chosen.Provider},
		}
	}

	minTime, maxTime := successTimes[0], successTimes[0]
	var total float64
	for _, t := range successTimes {
		if t < minTime {
			minTime = t
		}
		if t > maxTime {
			maxTime = t
		}
		total += t
	}
	average := total / float64(len(successTimes))

	dnssec := chosen.Response.AuthenticatedData
	cdnProvider, cdnDetected := detectCDN(answers)

	details := map[string]any{
		"provider":    chosen.Provider,
		"minTime":     minTime,
		"maxTime":     maxTime,
		"averageTime": average,
		// Legacy display field: rounded average, kept for compatibility.
		"responseTime": math.Round(average),
		"dnssec":       dnssec,
		"cdn":          cdnDetected,
		"ttl":          firstTTL(answers),
	}
	if cdnDetected {
		details["cdnProvider"] = cdnProvider
	}

	status, score, label := dnsSpeedBand(average)

	message := fmt.Sprintf("%s DNS response (%.0fms average)", label, average)
	if dnssec {
		message += ", DNSSEC validated by resolver"
	}
	if cdnDetected {
		message += fmt.Sprintf(", served via %s", cdnProvider)
	}

	return core.Verdict{
		Status:  status,
		Message: message,
		Score:   score,
		Details: details,
	}
}

func dnsSpeedBand(averageMs float64) (core.Status, int, string) {
	switch {
	case averageMs < dnsExcellentMs:
		return core.StatusPass, 10, "Excellent"
	case averageMs < dnsFastMs:
		return core.StatusPass, 10, "Fast"
	case averageMs < dnsSlowMs:
		return core.StatusWarn, 5, "Moderate"
	default:
		return core.StatusFail, 0, "Slow"
	}
}

func durationMs(result DoHResult) float64 {
	return float64(result.Elapsed.Microseconds()) / 1000
}

func firstTTL(answers []DoHAnswer) int {
	if len(answers) == 0 {
		return 0
	}
	return answers[0].TTL
}

func (p *DNSProbe) doh() *DoHClient {
	if p != nil && p.DoH != nil {
		return p.DoH
	}
	return &DoHClient{}
}
