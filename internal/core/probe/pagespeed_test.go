package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/core"
)

func pagespeedServer(t *testing.T, score float64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := fmt.Sprintf(`{"lighthouseResult":{"categories":{"performance":{"score":%g}},"audits":{
			"first-contentful-paint":{"displayValue":"1.2 s"},
			"largest-contentful-paint":{"displayValue":"2.1 s"},
			"cumulative-layout-shift":{"displayValue":"0.02"}
		}}}`, score)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPageSpeedProbeExcellent(t *testing.T) {
	server := pagespeedServer(t, 0.93)
	probe := &PageSpeedProbe{BaseURL: server.URL}

	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))
	require.Equal(t, core.StatusPass, verdict.Status)
	require.Equal(t, 15, verdict.Score)
	require.Equal(t, "Excellent page performance (93/100)", verdict.Message)
	require.Equal(t, float64(93), verdict.Details["performanceScore"])
	require.Equal(t, "1.2 s", verdict.Details["firstContentfulPaint"])
	require.Equal(t, "2.1 s", verdict.Details["largestContentfulPaint"])
	require.Equal(t, "0.02", verdict.Details["cumulativeLayoutShift"])
}

func TestPageSpeedProbeNeedsImprovement(t *testing.T) {
	server := pagespeedServer(t, 0.62)
	probe := &PageSpeedProbe{BaseURL: server.URL}

	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))
	require.Equal(t, core.StatusWarn, verdict.Status)
	require.Equal(t, 10, verdict.Score)
}

func TestPageSpeedProbePoor(t *testing.T) {
	server := pagespeedServer(t, 0.2)
	probe := &PageSpeedProbe{BaseURL: server.URL}

	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))
	require.Equal(t, core.StatusFail, verdict.Status)
	require.Equal(t, 5, verdict.Score)
}

func TestPageSpeedProbeAPIOutageDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	probe := &PageSpeedProbe{BaseURL: server.URL}
	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))

	require.Equal(t, core.StatusWarn, verdict.Status)
	require.Equal(t, 8, verdict.Score)
	require.Equal(t, "Performance data unavailable", verdict.Message)
	require.Equal(t, true, verdict.Details["degraded"])
	require.Equal(t, "performance API returned status 500", verdict.Details["reason"])
}

func TestPageSpeedProbeMalformedBodyDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	probe := &PageSpeedProbe{BaseURL: server.URL}
	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))

	require.Equal(t, core.StatusWarn, verdict.Status)
	require.Equal(t, 8, verdict.Score)
	require.Equal(t, "performance API returned malformed body", verdict.Details["reason"])
}

func TestPageSpeedProbeTimeoutDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	probe := &PageSpeedProbe{BaseURL: server.URL, Timeout: 30 * time.Millisecond}
	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))

	require.Equal(t, core.StatusWarn, verdict.Status)
	require.Equal(t, "performance API timed out", verdict.Details["reason"])
}

func TestPageSpeedProbeRequestParameters(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"lighthouseResult":{"categories":{"performance":{"score":1}}}}`))
	}))
	defer server.Close()

	probe := &PageSpeedProbe{BaseURL: server.URL, APIKey: "secret", Strategy: "desktop"}
	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))
	require.Equal(t, core.StatusPass, verdict.Status)

	require.Equal(t, []string{"https://example.com"}, query["url"])
	require.Equal(t, []string{"desktop"}, query["strategy"])
	require.Equal(t, []string{"secret"}, query["key"])
}

func TestPageSpeedProbeMissingScoreIsPoor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lighthouseResult":{"categories":{"performance":{}}}}`))
	}))
	defer server.Close()

	probe := &PageSpeedProbe{BaseURL: server.URL}
	verdict := probe.Check(context.Background(), mustTarget(t, "example.com"))

	require.Equal(t, core.StatusFail, verdict.Status)
	require.Equal(t, float64(0), verdict.Details["performanceScore"])
}
