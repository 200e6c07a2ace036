// Package report renders digest reports for human consumption. Layout and
// styling live here; the numbers are computed upstream and never re-parsed
// from rendered output.
package report

import (
	"fmt"
	"strings"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// Section display names, in render order.
var sectionTitles = map[domain.Source]string{
	domain.SourceEmail:  "Email Alerts",
	domain.SourcePaging: "Paging Incidents",
	domain.SourceSheet:  "Spreadsheet Alerts",
}

// RenderMarkdown renders a complete digest as a markdown document.
func RenderMarkdown(rpt *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# On-Call Alert Digest\n\n")
	fmt.Fprintf(&b, "Generated %s, covering the last %d days.\n",
		rpt.GeneratedAt.Format("2006-01-02 15:04 MST"), rpt.WindowDays)

	for i := range rpt.Sections {
		b.WriteString("\n")
		renderSection(&b, &rpt.Sections[i])
	}

	fmt.Fprintf(&b, "\nGrand total: %d alerts across %d sources.\n",
		rpt.TotalCount(), len(rpt.Sections))

	return b.String()
}

func renderSection(b *strings.Builder, sec *domain.ReportSection) {
	title, ok := sectionTitles[sec.Source]
	if !ok {
		title = string(sec.Source)
	}
	fmt.Fprintf(b, "## %s\n\n", title)

	if sec.FetchError != "" {
		fmt.Fprintf(b, "_Source unavailable: %s_\n", sec.FetchError)
		return
	}

	if len(sec.Alerts) == 0 {
		b.WriteString("No alerts in this window.\n")
		return
	}

	b.WriteString("| Alert | Count |\n")
	b.WriteString("|---|---|\n")
	for _, a := range sec.Alerts {
		fmt.Fprintf(b, "| %s | %d |\n", escapePipes(a.Label), a.Count)
	}

	fmt.Fprintf(b, "\nTotal: %d. Top %d account for %s%% of all alerts.\n",
		sec.Total, sec.TopN, sec.TopPercent)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
