package cmd

import (
	"fmt"
	"net/http"

	"github.com/openrdap/rdap"
	"golang.org/x/time/rate"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/core/engine"
	"github.com/sitepulse/sitepulse/internal/core/probe"
)

// buildScanner wires the diagnostic probes from configuration. Shared by the
// scan command and serve mode.
func buildScanner(cfg *config.Config) *engine.Scanner {
	transport := &probe.Transport{
		Client:    &http.Client{},
		UserAgent: fmt.Sprintf("sitepulse/%s (+https://sitepulse.dev/bot)", versionInfo.Version),
	}

	doh := &probe.DoHClient{
		Transport:     transport,
		GoogleURL:     cfg.Scan.DNS.GoogleURL,
		CloudflareURL: cfg.Scan.DNS.CloudflareURL,
		Timeout:       cfg.Scan.DNS.Timeout,
	}

	ct := &probe.CTClient{
		Transport: transport,
		BaseURL:   cfg.Scan.SSL.CTBaseURL,
		Timeout:   cfg.Scan.SSL.CTTimeout,
		// crt.sh is a shared community service, keep request pressure low
		Limiter: rate.NewLimiter(rate.Limit(1), 2),
	}

	scanner := &engine.Scanner{
		SSL: &probe.SSLProbe{
			Transport:        transport,
			CT:               ct,
			HandshakeTimeout: cfg.Scan.SSL.HandshakeTimeout,
		},
		DNS: &probe.DNSProbe{DoH: doh},
		Response: &probe.ResponseProbe{
			Transport: transport,
			Timeout:   cfg.Scan.Response.Timeout,
		},
		PageSpeed: &probe.PageSpeedProbe{
			Transport: transport,
			BaseURL:   cfg.Scan.PageSpeed.BaseURL,
			APIKey:    cfg.Scan.PageSpeed.APIKey,
			Strategy:  cfg.Scan.PageSpeed.Strategy,
			Timeout:   cfg.Scan.PageSpeed.Timeout,
		},
		Availability: &probe.AvailabilityProbe{
			Transport: transport,
			Timeout:   cfg.Scan.Availability.Timeout,
		},
		Email: &probe.EmailProbe{
			DoH:     doh,
			Timeout: cfg.Scan.Email.Timeout,
		},
		ToolVersion: versionInfo.Version,
	}

	if cfg.Scan.Registration.Enabled {
		scanner.Registration = &probe.RegistrationClient{
			Client:  &rdap.Client{},
			Timeout: cfg.Scan.Registration.Timeout,
		}
	}

	return scanner
}
