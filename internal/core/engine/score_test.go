package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sitepulse/sitepulse/internal/core"
)

func TestOverallScoreSumsAllChecks(t *testing.T) {
	checks := map[core.CheckName]core.Verdict{
		core.CheckSSL:            {Score: 10},
		core.CheckDNS:            {Score: 8},
		core.CheckServerResponse: {Score: 15},
		core.CheckPageSpeed:      {Score: 12},
		core.CheckMobile:         {Score: 15},
		core.CheckHTTPS:          {Score: 10},
		core.CheckAvailability:   {Score: 15},
		core.CheckEmail:          {Score: 5},
	}

	require.Equal(t, 90, OverallScore(checks))
}

func TestOverallScoreClampsPerCheck(t *testing.T) {
	checks := map[core.CheckName]core.Verdict{
		core.CheckSSL: {Score: 50},
		core.CheckDNS: {Score: -4},
	}

	require.Equal(t, 10, OverallScore(checks))
}

func TestOverallScoreMissingChecksScoreZero(t *testing.T) {
	require.Equal(t, 0, OverallScore(map[core.CheckName]core.Verdict{}))
}

func TestScoreLevelBoundaries(t *testing.T) {
	cases := []struct {
		score int
		level string
		color string
	}{
		{100, "EXCELLENT", "#22c55e"},
		{85, "EXCELLENT", "#22c55e"},
		{84, "GOOD", "#84cc16"},
		{70, "GOOD", "#84cc16"},
		{69, "NEEDS WORK", "#f59e0b"},
		{50, "NEEDS WORK", "#f59e0b"},
		{49, "POOR", "#ef4444"},
		{0, "POOR", "#ef4444"},
		{101, "Unknown", "#6b7280"},
		{-1, "Unknown", "#6b7280"},
	}

	for _, tc := range cases {
		level, color := ScoreLevel(tc.score)
		require.Equal(t, tc.level, level, "score %d", tc.score)
		require.Equal(t, tc.color, color, "score %d", tc.score)
	}
}

func TestCriticalIssuesCollectsHardFailures(t *testing.T) {
	checks := map[core.CheckName]core.Verdict{
		core.CheckSSL:            {Status: core.StatusFail},
		core.CheckAvailability:   {Status: core.StatusFail},
		core.CheckServerResponse: {Status: core.StatusWarn},
		core.CheckPageSpeed:      {Status: core.StatusFail},
	}

	issues := CriticalIssues(checks)
	require.Equal(t, []string{
		"Site does not use HTTPS encryption",
		"Site is offline or unreachable",
		"Page performance is poor",
	}, issues)
}

func TestCriticalIssuesEmptyWhenNothingFails(t *testing.T) {
	checks := map[core.CheckName]core.Verdict{
		core.CheckSSL:          {Status: core.StatusPass},
		core.CheckAvailability: {Status: core.StatusWarn},
	}

	require.Empty(t, CriticalIssues(checks))
}
