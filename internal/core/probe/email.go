package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// EmailProbe looks up mail-exchange records over DNS-over-HTTPS. Absent
// mail configuration is common and never a hard failure.
type EmailProbe struct {
	DoH     *DoHClient
	Timeout time.Duration
}

// Name returns the check this probe produces.
func (p *EmailProbe) Name() core.CheckName {
	return core.CheckEmail
}

// Check queries for MX records, falling back to the second provider if
// the first errors.
func (p *EmailProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.Hostname == "" {
		return noMailVerdict("no hostname to query")
	}

	if p != nil && p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	result := p.doh().Query(ctx, ProviderGoogle, target.Hostname, "MX")
	if !result.OK() {
		result = p.doh().Query(ctx, ProviderCloudflare, target.Hostname, "MX")
	}
	if !result.OK() {
		reason := "lookup failed"
		if result.Err != nil {
			reason = result.Err.Error()
		}
		return noMailVerdict(reason)
	}

	hosts := mxHosts(result.Response.Answer)
	if len(hosts) == 0 {
		return noMailVerdict("no MX records found")
	}

	return core.Verdict{
		Status:  core.StatusPass,
		Message: fmt.Sprintf("Mail configured (%d MX record(s))", len(hosts)),
		Score:   10,
		Details: map[string]any{
			"mxRecords": hosts,
			"count":     len(hosts),
		},
	}
}

func noMailVerdict(reason string) core.Verdict {
	return core.Verdict{
		Status:  core.StatusWarn,
		Message: "No mail configuration found",
		Score:   5,
		Details: map[string]any{"reason": reason},
	}
}

// mxHosts extracts exchange hostnames from "<preference> <host>" data.
func mxHosts(answers []DoHAnswer) []string {
	hosts := make([]string, 0, len(answers))
	for _, answer := range answers {
		fields := strings.Fields(answer.Data)
		if len(fields) == 0 {
			continue
		}
		host := strings.TrimSuffix(fields[len(fields)-1], ".")
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

func (p *EmailProbe) doh() *DoHClient {
	if p != nil && p.DoH != nil {
		return p.DoH
	}
	return &DoHClient{}
}
