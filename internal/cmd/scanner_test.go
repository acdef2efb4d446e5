package cmd

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/core/probe"
)

func defaultTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestBuildScannerWiresAllProbes(t *testing.T) {
	cfg := defaultTestConfig(t)

	scanner := buildScanner(cfg)
	require.NotNil(t, scanner.SSL)
	require.NotNil(t, scanner.DNS)
	require.NotNil(t, scanner.Response)
	require.NotNil(t, scanner.PageSpeed)
	require.NotNil(t, scanner.Availability)
	require.NotNil(t, scanner.Email)
	require.NotNil(t, scanner.Registration)

	dns, ok := scanner.DNS.(*probe.DNSProbe)
	require.True(t, ok)
	require.Equal(t, "https://dns.google/resolve", dns.DoH.GoogleURL)
	require.Equal(t, "https://cloudflare-dns.com/dns-query", dns.DoH.CloudflareURL)

	ssl, ok := scanner.SSL.(*probe.SSLProbe)
	require.True(t, ok)
	require.Equal(t, "https://crt.sh/", ssl.CT.BaseURL)
	require.NotNil(t, ssl.CT.Limiter)
	require.Equal(t, 5*time.Second, ssl.HandshakeTimeout)
}

func TestBuildScannerRegistrationDisabled(t *testing.T) {
	cfg := defaultTestConfig(t)
	cfg.Scan.Registration.Enabled = false

	scanner := buildScanner(cfg)
	require.Nil(t, scanner.Registration)
}
