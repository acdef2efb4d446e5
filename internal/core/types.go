package core

import "time"

// CheckName identifies one of the scored health checks in a Report.
type CheckName string

const (
	CheckSSL            CheckName = "ssl"
	CheckDNS            CheckName = "dns"
	CheckServerResponse CheckName = "serverResponse"
	CheckPageSpeed      CheckName = "pageSpeed"
	CheckMobile         CheckName = "mobile"
	CheckHTTPS          CheckName = "https"
	CheckAvailability   CheckName = "availability"
	CheckEmail          CheckName = "email"
)

// CheckNames lists every scored check in Report order.
var CheckNames = []CheckName{
	CheckSSL,
	CheckDNS,
	CheckServerResponse,
	CheckPageSpeed,
	CheckMobile,
	CheckHTTPS,
	CheckAvailability,
	CheckEmail,
}

// MaxScores holds the per-check score ceilings. They sum to 100 so the
// overall score is bounded by construction.
var MaxScores = map[CheckName]int{
	CheckSSL:            10,
	CheckDNS:            10,
	CheckServerResponse: 15,
	CheckPageSpeed:      15,
	CheckMobile:         15,
	CheckHTTPS:          10,
	CheckAvailability:   15,
	CheckEmail:          10,
}

// Status is the three-state outcome of a probe.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Verdict is the atomic output of every probe. A probe always produces
// exactly one Verdict; internal failures (timeouts, network errors,
// malformed upstream data) are converted to a degraded Verdict rather
// than surfacing as errors.
type Verdict struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Score   int            `json:"score"`
	Details map[string]any `json:"details,omitempty"`
}

// Registration carries advisory RDAP registration data for the scanned
// domain. It never contributes to the score.
type Registration struct {
	Registrar  string   `json:"registrar,omitempty"`
	Expiration string   `json:"expiration,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
}

// Report is the full per-scan output. Built once per scan and never
// mutated after construction.
type Report struct {
	ScanID          string                `json:"scan_id"`
	URL             string                `json:"url"`
	Timestamp       time.Time             `json:"timestamp"`
	OverallScore    int                   `json:"overall_score"`
	ScoreLevel      string                `json:"score_level"`
	ScoreColor      string                `json:"score_color"`
	Checks          map[CheckName]Verdict `json:"checks"`
	CriticalIssues  []string              `json:"critical_issues"`
	Recommendations []string              `json:"recommendations"`
	Registration    *Registration         `json:"registration,omitempty"`
	FromCache       bool                  `json:"from_cache,omitempty"`
	ToolVersion     string                `json:"tool_version,omitempty"`
}

// RateLimitState is the persisted sliding-window counter for one client.
type RateLimitState struct {
	RequestCount int
	WindowStart  time.Time
}
