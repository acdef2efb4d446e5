package engine

import (
	"github.com/sitepulse/sitepulse/internal/core"
)

// allChecksPassMessage is emitted when no recommendation rule fires.
const allChecksPassMessage = "Great job! Your website passes all health checks."

// Recommendations evaluates each check independently against the fixed
// rule table, in priority order: SSL/HTTPS, performance, server response,
// DNS, DNSSEC, CDN, mobile, email.
func Recommendations(checks map[core.CheckName]core.Verdict) []string {
	recs := make([]string, 0, 8)

	ssl := checks[core.CheckSSL]
	switch ssl.Status {
	case core.StatusFail:
		recs = append(recs, "Install a valid SSL certificate and enable HTTPS")
	case core.StatusWarn:
		recs = append(recs, "Renew or fix your SSL certificate before it expires")
	}
	if checks[core.CheckHTTPS].Status == core.StatusFail && ssl.Status != core.StatusFail {
		recs = append(recs, "Redirect all HTTP traffic to HTTPS")
	}

	switch checks[core.CheckPageSpeed].Status {
	case core.StatusFail:
		recs = append(recs, "Optimize images and reduce JavaScript to improve page speed")
	case core.StatusWarn:
		recs = append(recs, "Compress assets and enable browser caching to improve performance")
	}

	switch checks[core.CheckServerResponse].Status {
	case core.StatusFail:
		recs = append(recs, "Upgrade hosting or add server-side caching to cut response time")
	case core.StatusWarn:
		recs = append(recs, "Enable server-side caching to speed up responses")
	}

	dns := checks[core.CheckDNS]
	switch dns.Status {
	case core.StatusFail:
		recs = append(recs, "Review your DNS hosting; lookups are failing or very slow")
	case core.StatusWarn:
		recs = append(recs, "Consider a faster DNS provider")
	}

	// Cross-cutting advisories from DNS details.
	if dns.Details != nil {
		if dnssec, ok := dns.Details["dnssec"].(bool); ok && !dnssec {
			recs = append(recs, "Enable DNSSEC to protect against DNS spoofing")
		}
		if cdn, ok := dns.Details["cdn"].(bool); ok && !cdn && dns.Status != core.StatusPass {
			recs = append(recs, "Use a CDN to improve DNS and content latency")
		}
	}

	if checks[core.CheckMobile].Status != core.StatusPass {
		recs = append(recs, "Improve mobile usability and performance")
	}

	if checks[core.CheckEmail].Status == core.StatusWarn {
		recs = append(recs, "Add MX records if this domain should receive mail")
	}

	if len(recs) == 0 {
		recs = append(recs, allChecksPassMessage)
	}
	return recs
}
