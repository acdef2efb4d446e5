package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sitepulse/sitepulse/internal/core"
)

// TableFormatter renders reports as an ASCII table.
type TableFormatter struct{}

var checkLabels = map[core.CheckName]string{
	core.CheckSSL:            "SSL Certificate",
	core.CheckDNS:            "DNS",
	core.CheckServerResponse: "Server Response",
	core.CheckPageSpeed:      "Page Speed",
	core.CheckMobile:         "Mobile",
	core.CheckHTTPS:          "HTTPS",
	core.CheckAvailability:   "Availability",
	core.CheckEmail:          "Email",
}

// FormatReport renders a scan report as a table with issue and
// recommendation sections beneath it.
func (f *TableFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(report.URL)
	t.AppendHeader(table.Row{"Check", "Status", "Score", "Details"})

	for _, name := range core.CheckNames {
		verdict, ok := report.Checks[name]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{
			checkLabel(name),
			statusLabel(verdict.Status),
			fmt.Sprintf("%d/%d", verdict.Score, core.MaxScores[name]),
			verdict.Message,
		})
	}

	t.AppendFooter(table.Row{
		"Overall",
		report.ScoreLevel,
		fmt.Sprintf("%d/100", report.OverallScore),
		"",
	})

	var b strings.Builder
	b.WriteString(t.Render())

	if len(report.CriticalIssues) > 0 {
		b.WriteString("\n\nCritical Issues:\n")
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(&b, "  ! %s\n", issue)
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	if report.Registration != nil {
		b.WriteString("\nRegistration:\n")
		if report.Registration.Registrar != "" {
			fmt.Fprintf(&b, "  Registrar: %s\n", report.Registration.Registrar)
		}
		if report.Registration.Expiration != "" {
			fmt.Fprintf(&b, "  Expires: %s\n", report.Registration.Expiration)
		}
		if len(report.Registration.Statuses) > 0 {
			fmt.Fprintf(&b, "  Status: %s\n", strings.Join(report.Registration.Statuses, ", "))
		}
	}

	if report.FromCache {
		b.WriteString("\n(cached result)\n")
	}

	return b.String(), nil
}

func checkLabel(name core.CheckName) string {
	if label, ok := checkLabels[name]; ok {
		return label
	}
	return string(name)
}

func statusLabel(status core.Status) string {
	switch status {
	case core.StatusPass:
		return "PASS"
	case core.StatusWarn:
		return "WARN"
	case core.StatusFail:
		return "FAIL"
	default:
		return strings.ToUpper(string(status))
	}
}
