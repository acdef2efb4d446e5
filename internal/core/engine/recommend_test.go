package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/core"
)

func healthyChecks() map[core.CheckName]core.Verdict {
	return map[core.CheckName]core.Verdict{
		core.CheckSSL:            {Status: core.StatusPass, Score: 10},
		core.CheckDNS:            {Status: core.StatusPass, Score: 10, Details: map[string]any{"dnssec": true, "cdn": true}},
		core.CheckServerResponse: {Status: core.StatusPass, Score: 15},
		core.CheckPageSpeed:      {Status: core.StatusPass, Score: 15},
		core.CheckMobile:         {Status: core.StatusPass, Score: 15},
		core.CheckHTTPS:          {Status: core.StatusPass, Score: 10},
		core.CheckAvailability:   {Status: core.StatusPass, Score: 15},
		core.CheckEmail:          {Status: core.StatusPass, Score: 10},
	}
}

func TestRecommendationsFallbackWhenAllHealthy(t *testing.T) {
	recs := Recommendations(healthyChecks())
	require.Equal(t, []string{"Great job! Your website passes all health checks."}, recs)
}

func TestRecommendationsPriorityOrder(t *testing.T) {
	checks := healthyChecks()
	checks[core.CheckSSL] = core.Verdict{Status: core.StatusWarn}
	checks[core.CheckPageSpeed] = core.Verdict{Status: core.StatusFail}
	checks[core.CheckServerResponse] = core.Verdict{Status: core.StatusWarn}
	checks[core.CheckMobile] = core.Verdict{Status: core.StatusWarn}

	recs := Recommendations(checks)
	require.Equal(t, []string{
		"Renew or fix your SSL certificate before it expires",
		"Optimize images and reduce JavaScript to improve page speed",
		"Enable server-side caching to speed up responses",
		"Improve mobile usability and performance",
	}, recs)
}

func TestRecommendationsHTTPSRedirectSuppressedBySSLFail(t *testing.T) {
	checks := healthyChecks()
	checks[core.CheckSSL] = core.Verdict{Status: core.StatusFail}
	checks[core.CheckHTTPS] = core.Verdict{Status: core.StatusFail}

	recs := Recommendations(checks)
	require.Contains(t, recs, "Install a valid SSL certificate and enable HTTPS")
	require.NotContains(t, recs, "Redirect all HTTP traffic to HTTPS")

	checks[core.CheckSSL] = core.Verdict{Status: core.StatusPass}
	recs = Recommendations(checks)
	require.Contains(t, recs, "Redirect all HTTP traffic to HTTPS")
}

func TestRecommendationsDNSSECFiresRegardlessOfDNSStatus(t *testing.T) {
	checks := healthyChecks()
	checks[core.CheckDNS] = core.Verdict{
		Status:  core.StatusPass,
		Details: map[string]any{"dnssec": false, "cdn": true},
	}

	recs := Recommendations(checks)
	require.Equal(t, []string{"Enable DNSSEC to protect against DNS spoofing"}, recs)
}

func TestRecommendationsCDNOnlyWhenDNSDegraded(t *testing.T) {
	checks := healthyChecks()
	checks[core.CheckDNS] = core.Verdict{
		Status:  core.StatusPass,
		Details: map[string]any{"dnssec": true, "cdn": false},
	}
	recs := Recommendations(checks)
	require.NotContains(t, recs, "Use a CDN to improve DNS and content latency")

	checks[core.CheckDNS] = core.Verdict{
		Status:  core.StatusWarn,
		Details: map[string]any{"dnssec": true, "cdn": false},
	}
	recs = Recommendations(checks)
	require.Contains(t, recs, "Consider a faster DNS provider")
	require.Contains(t, recs, "Use a CDN to improve DNS and content latency")
}

func TestRecommendationsEmailWarnOnly(t *testing.T) {
	checks := healthyChecks()
	checks[core.CheckEmail] = core.Verdict{Status: core.StatusWarn}

	recs := Recommendations(checks)
	require.Equal(t, []string{"Add MX records if this domain should receive mail"}, recs)

	checks[core.CheckEmail] = core.Verdict{Status: core.StatusFail}
	recs = Recommendations(checks)
	require.Equal(t, []string{"Great job! Your website passes all health checks."}, recs)
}
