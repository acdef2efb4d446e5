package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultCTSearchURL = "https://crt.sh/"

// ctRecordWindow caps how many CT records are processed, oldest-first as
// returned by the search index. Kept as-is even though a domain with many
// historical certificates could have its current one fall outside the
// window.
const ctRecordWindow = 50

// CertificateRecord is one certificate-transparency log entry reduced to
// the fields the lifecycle probe selects on.
type CertificateRecord struct {
	IssuerName      string
	SubjectAltNames []string
	NotBefore       time.Time
	NotAfter        time.Time
}

// Matches reports whether the record covers the hostname, either exactly
// or via a wildcard entry. A wildcard covers the bare domain and one
// subdomain label, so *.domain matches sub.domain but not a.b.domain.
func (r CertificateRecord) Matches(hostname string) bool {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	for _, san := range r.SubjectAltNames {
		san = strings.ToLower(strings.TrimSpace(san))
		if san == "" {
			continue
		}
		if san == hostname {
			return true
		}
		if base, ok := strings.CutPrefix(san, "*."); ok {
			if hostname == base {
				return true
			}
			if label, ok := strings.CutSuffix(hostname, "."+base); ok && label != "" && !strings.Contains(label, ".") {
				return true
			}
		}
	}
	return false
}

// CTClient queries the certificate-transparency log search index.
type CTClient struct {
	Transport *Transport
	BaseURL   string
	Timeout   time.Duration

	// Limiter throttles outbound queries against the public index.
	Limiter *rate.Limiter
}

type ctEntry struct {
	IssuerName string `json:"issuer_name"`
	NameValue  string `json:"name_value"`
	NotBefore  string `json:"not_before"`
	NotAfter   string `json:"not_after"`
}

// Search returns up to ctRecordWindow records for the hostname, in the
// order the index returned them.
func (c *CTClient) Search(ctx context.Context, hostname string) ([]CertificateRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c != nil && c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := defaultCTSearchURL
	if c != nil && c.BaseURL != "" {
		endpoint = c.BaseURL
	}

	query := url.Values{}
	query.Set("q", hostname)
	query.Set("output", "json")

	resp, err := c.transport().Fetch(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil, c.timeout())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ct search returned status %d", resp.StatusCode)
	}

	var entries []ctEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("ct search returned malformed body: %w", err)
	}

	if len(entries) > ctRecordWindow {
		entries = entries[:ctRecordWindow]
	}

	records := make([]CertificateRecord, 0, len(entries))
	for _, entry := range entries {
		record := CertificateRecord{
			IssuerName:      entry.IssuerName,
			SubjectAltNames: splitSANs(entry.NameValue),
			NotBefore:       parseCTTime(entry.NotBefore),
			NotAfter:        parseCTTime(entry.NotAfter),
		}
		records = append(records, record)
	}

	return records, nil
}

func (c *CTClient) transport() *Transport {
	if c != nil && c.Transport != nil {
		return c.Transport
	}
	return &Transport{}
}

func (c *CTClient) timeout() time.Duration {
	if c != nil && c.Timeout > 0 {
		return c.Timeout
	}
	return 10 * time.Second
}

func splitSANs(raw string) []string {
	parts := strings.Split(raw, "\n")
	sans := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			sans = append(sans, value)
		}
	}
	return sans
}

// parseCTTime handles the index's timezone-less timestamps alongside
// RFC3339. A zero time is returned for unparseable values.
func parseCTTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}
