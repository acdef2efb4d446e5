package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/core"
	"github.com/sitepulse/sitepulse/internal/core/probe"
)

type stubProbe struct {
	name    core.CheckName
	verdict core.Verdict
}

func (s *stubProbe) Check(ctx context.Context, target *probe.Target) core.Verdict {
	return s.verdict
}

func (s *stubProbe) Name() core.CheckName {
	return s.name
}

func healthyScanner() *Scanner {
	return &Scanner{
		SSL: &stubProbe{name: core.CheckSSL, verdict: core.Verdict{
			Status: core.StatusPass, Message: "Certificate valid", Score: 10,
		}},
		DNS: &stubProbe{name: core.CheckDNS, verdict: core.Verdict{
			Status: core.StatusPass, Message: "DNS resolves quickly", Score: 10,
			Details: map[string]any{"dnssec": true, "cdn": true},
		}},
		Response: &stubProbe{name: core.CheckServerResponse, verdict: core.Verdict{
			Status: core.StatusPass, Message: "Server responds quickly", Score: 15,
		}},
		PageSpeed: &stubProbe{name: core.CheckPageSpeed, verdict: core.Verdict{
			Status: core.StatusPass, Message: "Page loads fast", Score: 15,
			Details: map[string]any{"performanceScore": float64(95)},
		}},
		Availability: &stubProbe{name: core.CheckAvailability, verdict: core.Verdict{
			Status: core.StatusPass, Message: "Site is reachable", Score: 15,
		}},
		Email: &stubProbe{name: core.CheckEmail, verdict: core.Verdict{
			Status: core.StatusPass, Message: "MX records configured", Score: 10,
		}},
		ToolVersion: "test",
		Clock: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestScannerHealthySite(t *testing.T) {
	scanner := healthyScanner()

	report, err := scanner.Scan(context.Background(), "example.com")
	require.NoError(t, err)

	require.Equal(t, "https://example.com", report.URL)
	require.NotEmpty(t, report.ScanID)
	require.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), report.Timestamp)
	require.Equal(t, "test", report.ToolVersion)

	require.Len(t, report.Checks, len(core.CheckNames))
	for _, name := range core.CheckNames {
		require.Contains(t, report.Checks, name, "check %s", name)
	}

	require.Equal(t, 100, report.OverallScore)
	require.Equal(t, "EXCELLENT", report.ScoreLevel)
	require.Equal(t, "#22c55e", report.ScoreColor)
	require.Empty(t, report.CriticalIssues)
	require.Equal(t, []string{"Great job! Your website passes all health checks."}, report.Recommendations)
}

func TestScannerDerivesMobileAndHTTPS(t *testing.T) {
	scanner := healthyScanner()

	report, err := scanner.Scan(context.Background(), "https://example.com")
	require.NoError(t, err)

	mobile := report.Checks[core.CheckMobile]
	require.Equal(t, core.StatusPass, mobile.Status)
	require.Equal(t, 15, mobile.Score)

	https := report.Checks[core.CheckHTTPS]
	require.Equal(t, core.StatusPass, https.Status)
	require.Equal(t, 10, https.Score)
}

func TestScannerHTTPTargetFailsHTTPSCheck(t *testing.T) {
	scanner := healthyScanner()
	// The real certificate probe decides from the scheme before any
	// network traffic, so no transport wiring is needed here.
	scanner.SSL = &probe.SSLProbe{}

	report, err := scanner.Scan(context.Background(), "http://example.com")
	require.NoError(t, err)

	ssl := report.Checks[core.CheckSSL]
	require.Equal(t, core.StatusFail, ssl.Status)
	require.Equal(t, 0, ssl.Score)

	https := report.Checks[core.CheckHTTPS]
	require.Equal(t, core.StatusFail, https.Status)
	require.Equal(t, 0, https.Score)

	require.Equal(t, 80, report.OverallScore)
	require.Contains(t, report.CriticalIssues, "Site does not use HTTPS encryption")
	require.Contains(t, report.Recommendations, "Install a valid SSL certificate and enable HTTPS")
}

func TestScannerFailingSiteAggregation(t *testing.T) {
	scanner := healthyScanner()
	scanner.SSL = &stubProbe{name: core.CheckSSL, verdict: core.Verdict{
		Status: core.StatusFail, Message: "SSL certificate check failed", Score: 0,
	}}
	scanner.Availability = &stubProbe{name: core.CheckAvailability, verdict: core.Verdict{
		Status: core.StatusFail, Message: "Site is not responding", Score: 0,
	}}

	report, err := scanner.Scan(context.Background(), "example.com")
	require.NoError(t, err)

	require.Contains(t, report.CriticalIssues, "Site does not use HTTPS encryption")
	require.Contains(t, report.CriticalIssues, "Site is offline or unreachable")
	require.Contains(t, report.Recommendations, "Install a valid SSL certificate and enable HTTPS")

	https := report.Checks[core.CheckHTTPS]
	require.Equal(t, core.StatusFail, https.Status)
}

func TestScannerRejectsInvalidTarget(t *testing.T) {
	scanner := healthyScanner()

	_, err := scanner.Scan(context.Background(), "")
	require.Error(t, err)

	_, err = scanner.Scan(context.Background(), "ftp://example.com")
	require.Error(t, err)
}

func TestScannerNilContext(t *testing.T) {
	scanner := healthyScanner()

	report, err := scanner.Scan(nil, "example.com") //nolint:staticcheck // nil context handling is part of the contract
	require.NoError(t, err)
	require.Equal(t, 100, report.OverallScore)
}
