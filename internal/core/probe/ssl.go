package probe

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sitepulse/sitepulse/internal/core"
)

// expiringSoonDays is the advisory window before certificate expiry.
const expiringSoonDays = 30

// SSLProbe verifies the live HTTPS handshake, then cross-checks the
// certificate lifecycle against the certificate-transparency index.
type SSLProbe struct {
	Transport        *Transport
	CT               *CTClient
	HandshakeTimeout time.Duration
	Clock            func() time.Time
}

// Name returns the check this probe produces.
func (p *SSLProbe) Name() core.CheckName {
	return core.CheckSSL
}

// Check runs the two-stage certificate probe. A plain-HTTP target fails
// outright on its scheme; for HTTPS targets the live handshake is
// authoritative for connectivity and CT data refines the expiry picture.
func (p *SSLProbe) Check(ctx context.Context, target *Target) core.Verdict {
	if target == nil || target.Hostname == "" {
		return core.Verdict{Status: core.StatusFail, Message: "No hostname to check", Score: 0}
	}

	if !target.IsHTTPS {
		return core.Verdict{
			Status:  core.StatusFail,
			Message: "Site does not use HTTPS",
			Score:   0,
			Details: map[string]any{"https": false},
		}
	}

	// Stage 1: live handshake over HTTPS, following redirects.
	handshakeURL := "https://" + target.Hostname
	_, err := p.transport().FetchSite(ctx, http.MethodHead, handshakeURL, nil, p.handshakeTimeout())
	if err != nil {
		if isTLSError(err) {
			return core.Verdict{
				Status:  core.StatusFail,
				Message: "SSL certificate validation failed",
				Score:   0,
				Details: map[string]any{"error": err.Error()},
			}
		}
		// Site may be reachable but flaky; the certificate itself did not
		// fail, so this is a warning rather than a hard failure.
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: "HTTPS connection could not be completed",
			Score:   5,
			Details: map[string]any{"error": err.Error()},
		}
	}

	// Stage 2: certificate-transparency lookup. Unavailable or unmatched
	// CT data falls through to a pass: the handshake already succeeded.
	records, ctErr := p.ct().Search(ctx, target.Hostname)
	if ctErr != nil {
		return ctUnavailableVerdict()
	}

	var matching []CertificateRecord
	for _, record := range records {
		if record.Matches(target.Hostname) {
			matching = append(matching, record)
		}
	}
	if len(matching) == 0 {
		return ctUnavailableVerdict()
	}

	now := p.now()
	selected := selectCertificate(matching, now)

	daysUntilExpiry := daysUntil(now, selected.NotAfter)
	expiringSoon := daysUntilExpiry >= 0 && daysUntilExpiry <= expiringSoonDays

	details := map[string]any{
		"certTransparency": true,
		"issuer":           selected.IssuerName,
		"validTo":          selected.NotAfter.Format(time.RFC3339),
		"daysUntilExpiry":  daysUntilExpiry,
		"expiringSoon":     expiringSoon,
	}

	switch {
	case daysUntilExpiry < 0:
		// CT logs can lag renewal by up to 48 hours, so an apparent expiry
		// with a passing handshake is flagged, not failed.
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Certificate appears expired in transparency logs (%d days ago)", -daysUntilExpiry),
			Score:   5,
			Details: details,
		}
	case expiringSoon:
		return core.Verdict{
			Status:  core.StatusWarn,
			Message: fmt.Sprintf("Certificate expires in %d days", daysUntilExpiry),
			Score:   8,
			Details: details,
		}
	default:
		return core.Verdict{
			Status:  core.StatusPass,
			Message: fmt.Sprintf("Valid certificate from %s, expires in %d days", issuerLabel(selected.IssuerName), daysUntilExpiry),
			Score:   10,
			Details: details,
		}
	}
}

// selectCertificate picks the latest-issued still-valid record, which
// handles overlapping renewal windows. With no valid record it falls back
// to the most recently expired one for informational purposes.
func selectCertificate(records []CertificateRecord, now time.Time) CertificateRecord {
	var (
		validIdx    int
		expiredIdx  int
		haveValid   bool
		haveExpired bool
	)

	for i := range records {
		record := records[i]
		if record.NotAfter.After(now) {
			if !haveValid || record.NotBefore.After(records[validIdx].NotBefore) {
				validIdx = i
				haveValid = true
			}
		} else {
			if !haveExpired || record.NotAfter.After(records[expiredIdx].NotAfter) {
				expiredIdx = i
				haveExpired = true
			}
		}
	}

	if haveValid {
		return records[validIdx]
	}
	if haveExpired {
		return records[expiredIdx]
	}
	return records[0]
}

// daysUntil computes floor((notAfter - now) / 24h); negative once expired.
func daysUntil(now, notAfter time.Time) int {
	return int(math.Floor(notAfter.Sub(now).Hours() / 24))
}

func ctUnavailableVerdict() core.Verdict {
	return core.Verdict{
		Status:  core.StatusPass,
		Message: "HTTPS handshake succeeded; certificate transparency data unavailable",
		Score:   10,
		Details: map[string]any{"certTransparency": false},
	}
}

func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "certificate") ||
		strings.Contains(text, "ssl") ||
		strings.Contains(text, "tls")
}

func issuerLabel(issuer string) string {
	// Issuer names from the index look like "C=US, O=Let's Encrypt, CN=R3";
	// surface the organization when present.
	for _, part := range strings.Split(issuer, ",") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, "O="); ok && value != "" {
			return value
		}
	}
	if issuer == "" {
		return "unknown issuer"
	}
	return issuer
}

func (p *SSLProbe) transport() *Transport {
	if p != nil && p.Transport != nil {
		return p.Transport
	}
	return &Transport{}
}

func (p *SSLProbe) ct() *CTClient {
	if p != nil && p.CT != nil {
		return p.CT
	}
	return &CTClient{}
}

func (p *SSLProbe) handshakeTimeout() time.Duration {
	if p != nil && p.HandshakeTimeout > 0 {
		return p.HandshakeTimeout
	}
	return 5 * time.Second
}

func (p *SSLProbe) now() time.Time {
	if p != nil && p.Clock != nil {
		return p.Clock()
	}
	return time.Now().UTC()
}
