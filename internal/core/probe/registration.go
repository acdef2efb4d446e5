package probe

import (
	"context"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/sitepulse/sitepulse/internal/core"
)

// RegistrationClient fetches advisory domain-registration data over RDAP.
// Lookups are best-effort: any failure yields nil and never affects the
// scan score.
type RegistrationClient struct {
	Client  *rdap.Client
	Timeout time.Duration
}

// Lookup queries RDAP for the registrable domain of the hostname.
func (c *RegistrationClient) Lookup(ctx context.Context, hostname string) *core.Registration {
	domain := registrableDomain(hostname)
	if domain == "" {
		return nil
	}

	client := c.client()
	req := rdap.NewDomainRequest(domain)
	if c != nil && c.Timeout > 0 {
		req.Timeout = c.Timeout
	}
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil || resp == nil {
		return nil
	}

	record, ok := resp.Object.(*rdap.Domain)
	if !ok || record == nil {
		return nil
	}

	registration := &core.Registration{
		Registrar:  findRegistrar(record),
		Expiration: findEventDate(record.Events, "expiration"),
	}
	if len(record.Status) > 0 {
		registration.Statuses = record.Status
	}

	if registration.Registrar == "" && registration.Expiration == "" && len(registration.Statuses) == 0 {
		return nil
	}
	return registration
}

// registrableDomain reduces a hostname to its last two labels. Public
// suffix awareness is not needed for an advisory lookup.
func registrableDomain(hostname string) string {
	value := strings.ToLower(strings.TrimSpace(hostname))
	parts := strings.Split(value, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

func findRegistrar(domain *rdap.Domain) string {
	for _, entity := range domain.Entities {
		for _, role := range entity.Roles {
			if role == "registrar" && entity.VCard != nil {
				return entity.VCard.Name()
			}
		}
	}
	return ""
}

func findEventDate(events []rdap.Event, action string) string {
	for _, event := range events {
		if event.Action == action {
			return event.Date
		}
	}
	return ""
}

func (c *RegistrationClient) client() *rdap.Client {
	if c != nil && c.Client != nil {
		return c.Client
	}
	return &rdap.Client{}
}
