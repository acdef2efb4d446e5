package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransportFetchSiteSetsUserAgent(t *testing.T) {
	var siteUA, plainUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/site" {
			siteUA = r.Header.Get("User-Agent")
		} else {
			plainUA = r.Header.Get("User-Agent")
		}
	}))
	defer server.Close()

	transport := &Transport{UserAgent: "sitepulse/test (+https://sitepulse.dev/bot)"}

	_, err := transport.FetchSite(context.Background(), http.MethodGet, server.URL+"/site", nil, time.Second)
	require.NoError(t, err)
	require.Equal(t, "sitepulse/test (+https://sitepulse.dev/bot)", siteUA)

	_, err = transport.Fetch(context.Background(), http.MethodGet, server.URL+"/plain", nil, time.Second)
	require.NoError(t, err)
	require.NotEqual(t, "sitepulse/test (+https://sitepulse.dev/bot)", plainUA)
}

func TestTransportTimeoutIsAborted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	transport := &Transport{}
	_, err := transport.Fetch(context.Background(), http.MethodGet, server.URL, nil, 30*time.Millisecond)
	require.Error(t, err)
	require.True(t, IsAborted(err))
}

func TestTransportLimitsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxBodyBytes+1024)))
	}))
	defer server.Close()

	transport := &Transport{}
	resp, err := transport.Fetch(context.Background(), http.MethodGet, server.URL, nil, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, resp.Body, maxBodyBytes)
}

func TestTransportForwardsHeaders(t *testing.T) {
	var accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
	}))
	defer server.Close()

	transport := &Transport{}
	headers := http.Header{"Accept": []string{"application/dns-json"}}
	_, err := transport.Fetch(context.Background(), http.MethodGet, server.URL, headers, time.Second)
	require.NoError(t, err)
	require.Equal(t, "application/dns-json", accept)
}
