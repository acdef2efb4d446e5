package engine

import (
	"github.com/sitepulse/sitepulse/internal/core"
)

// Score tier boundaries and display colors.
const (
	levelExcellent = "EXCELLENT"
	levelGood      = "GOOD"
	levelNeedsWork = "NEEDS WORK"
	levelPoor      = "POOR"
	levelUnknown   = "Unknown"

	colorExcellent = "#22c55e"
	colorGood      = "#84cc16"
	colorNeedsWork = "#f59e0b"
	colorPoor      = "#ef4444"
	colorUnknown   = "#6b7280"
)

// OverallScore sums the eight check scores, each capped to its documented
// maximum, yielding a 0-100 total by construction.
func OverallScore(checks map[core.CheckName]core.Verdict) int {
	total := 0
	for _, name := range core.CheckNames {
		score := checks[name].Score
		if score < 0 {
			score = 0
		}
		if max := core.MaxScores[name]; score > max {
			score = max
		}
		total += score
	}
	return total
}

// ScoreLevel maps a score to its tier label and display color. Total over
// [0,100]; out-of-range values map to the Unknown tier.
func ScoreLevel(score int) (string, string) {
	switch {
	case score >= 85 && score <= 100:
		return levelExcellent, colorExcellent
	case score >= 70 && score <= 84:
		return levelGood, colorGood
	case score >= 50 && score <= 69:
		return levelNeedsWork, colorNeedsWork
	case score >= 0 && score <= 49:
		return levelPoor, colorPoor
	default:
		return levelUnknown, colorUnknown
	}
}

// CriticalIssues extracts hard failures worth surfacing at the top of a
// Report, by fixed rule.
func CriticalIssues(checks map[core.CheckName]core.Verdict) []string {
	issues := make([]string, 0, 4)
	if checks[core.CheckSSL].Status == core.StatusFail {
		issues = append(issues, "Site does not use HTTPS encryption")
	}
	if checks[core.CheckAvailability].Status == core.StatusFail {
		issues = append(issues, "Site is offline or unreachable")
	}
	if checks[core.CheckServerResponse].Status == core.StatusFail {
		issues = append(issues, "Server response is very slow")
	}
	if checks[core.CheckPageSpeed].Status == core.StatusFail {
		issues = append(issues, "Page performance is poor")
	}
	return issues
}
