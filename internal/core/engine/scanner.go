package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sitepulse/sitepulse/internal/core"
	"github.com/sitepulse/sitepulse/internal/core/probe"
)

// Scanner coordinates one scan: it fans out the independent probes
// concurrently, derives the dependent checks, and aggregates everything
// into a single Report. All probe state is scan-scoped; the Scanner
// itself holds no mutable state across scans.
type Scanner struct {
	SSL          probe.Probe
	DNS          probe.Probe
	Response     probe.Probe
	PageSpeed    probe.Probe
	Availability probe.Probe
	Email        probe.Probe

	// Registration is optional advisory enrichment; nil disables it.
	Registration *probe.RegistrationClient

	ToolVersion string
	Clock       func() time.Time
}

// Scan runs all probes against the target URL and builds the Report.
// The only error it returns is input validation; probe failures surface
// as degraded verdicts inside an otherwise complete Report.
func (s *Scanner) Scan(ctx context.Context, rawURL string) (*core.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := probe.NormalizeTarget(rawURL)
	if err != nil {
		return nil, err
	}

	checks := make(map[core.CheckName]core.Verdict, len(core.CheckNames))
	var (
		mu           sync.Mutex
		wg           sync.WaitGroup
		registration *core.Registration
	)

	// Independent probes run concurrently; each owns its own timeout and
	// a timed-out probe never cancels its siblings.
	for _, p := range []probe.Probe{s.SSL, s.DNS, s.Response, s.PageSpeed, s.Availability, s.Email} {
		if p == nil {
			continue
		}
		wg.Add(1)
		go func(p probe.Probe) {
			defer wg.Done()
			verdict := p.Check(ctx, target)
			mu.Lock()
			checks[p.Name()] = verdict
			mu.Unlock()
		}(p)
	}

	if s.Registration != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registration = s.Registration.Lookup(ctx, target.Hostname)
		}()
	}

	wg.Wait()

	// Derived checks are pure functions over resolved verdicts.
	checks[core.CheckMobile] = probe.MobileVerdict(checks[core.CheckPageSpeed])
	checks[core.CheckHTTPS] = probe.HTTPSVerdict(target.IsHTTPS, checks[core.CheckSSL])

	report := &core.Report{
		ScanID:          uuid.New().String(),
		URL:             target.String(),
		Timestamp:       s.now(),
		Checks:          checks,
		Registration:    registration,
		ToolVersion:     s.ToolVersion,
		OverallScore:    OverallScore(checks),
		CriticalIssues:  CriticalIssues(checks),
		Recommendations: Recommendations(checks),
	}
	report.ScoreLevel, report.ScoreColor = ScoreLevel(report.OverallScore)

	return report, nil
}

func (s *Scanner) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}
