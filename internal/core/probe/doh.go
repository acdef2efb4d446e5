package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DoH provider names. Google is the preferred record source when both
// providers answer.
const (
	ProviderGoogle     = "google"
	ProviderCloudflare = "cloudflare"
)

const (
	defaultGoogleDoHURL     = "https://dns.google/resolve"
	defaultCloudflareDoHURL = "https://cloudflare-dns.com/dns-query"
)

// DoHAnswer is a single answer record from a DNS-over-HTTPS response.
type DoHAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	TTL  int    `json:"TTL"`
	Data string `json:"data"`
}

// DoHResponse is the JSON body both providers return.
type DoHResponse struct {
	Status            int         `json:"Status"`
	AuthenticatedData bool        `json:"AD"`
	Answer            []DoHAnswer `json:"Answer"`
}

// DoHResult pairs one provider's response with its elapsed query time.
type DoHResult struct {
	Provider string
	Elapsed  time.Duration
	Response *DoHResponse
	Err      error
}

// OK reports whether the provider answered with DNS status 0.
func (r DoHResult) OK() bool {
	return r.Err == nil && r.Response != nil && r.Response.Status == 0
}

// DoHClient queries the two independent DNS-over-HTTPS providers.
type DoHClient struct {
	Transport     *Transport
	GoogleURL     string
	CloudflareURL string
	Timeout       time.Duration
	Clock         func() time.Time
}

// Query asks a single provider for records of the given type.
func (c *DoHClient) Query(ctx context.Context, provider, hostname, recordType string) DoHResult {
	start := c.now()
	result := DoHResult{Provider: provider}

	endpoint, headers := c.providerRequest(provider)
	if endpoint == "" {
		result.Err = fmt.Errorf("unknown doh provider: %s", provider)
		return result
	}

	query := url.Values{}
	query.Set("name", hostname)
	query.Set("type", recordType)

	resp, err := c.transport().Fetch(ctx, http.MethodGet, endpoint+"?"+query.Encode(), headers, c.timeout())
	result.Elapsed = c.now().Sub(start)
	if err != nil {
		result.Err = err
		return result
	}
	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("doh %s returned status %d", provider, resp.StatusCode)
		return result
	}

	var payload DoHResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		result.Err = fmt.Errorf("doh %s returned malformed body: %w", provider, err)
		return result
	}

	result.Response = &payload
	return result
}

// QueryBoth runs the Google and Cloudflare queries concurrently, each
// under its own timeout. One provider's failure never blocks the other.
func (c *DoHClient) QueryBoth(ctx context.Context, hostname, recordType string) (DoHResult, DoHResult) {
	results := make(chan DoHResult, 2)
	for _, provider := range []string{ProviderGoogle, ProviderCloudflare} {
		go func(p string) {
			results <- c.Query(ctx, p, hostname, recordType)
		}(provider)
	}

	var google, cloudflare DoHResult
	for i := 0; i < 2; i++ {
		r := <-results
		if r.Provider == ProviderGoogle {
			google = r
		} else {
			cloudflare = r
		}
	}
	return google, cloudflare
}

func (c *DoHClient) providerRequest(provider string) (string, http.Header) {
	switch provider {
	case ProviderGoogle:
		endpoint := defaultGoogleDoHURL
		if c != nil && c.GoogleURL != "" {
			endpoint = c.GoogleURL
		}
		return endpoint, nil
	case ProviderCloudflare:
		endpoint := defaultCloudflareDoHURL
		if c != nil && c.CloudflareURL != "" {
			endpoint = c.CloudflareURL
		}
		return endpoint, http.Header{"Accept": []string{"application/dns-json"}}
	default:
		return "", nil
	}
}

func (c *DoHClient) transport() *Transport {
	if c != nil && c.Transport != nil {
		return c.Transport
	}
	return &Transport{}
}

func (c *DoHClient) timeout() time.Duration {
	if c != nil && c.Timeout > 0 {
		return c.Timeout
	}
	return 3 * time.Second
}

func (c *DoHClient) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now().UTC()
}
