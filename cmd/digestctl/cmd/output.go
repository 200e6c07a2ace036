package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printReportRunsTable(runs []domain.Report) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tGENERATED\tWINDOW\n")
	for i := range runs {
		tw.writef("%s\t%s\t%dd\n",
			runs[i].ID,
			runs[i].GeneratedAt.Format("2006-01-02 15:04:05"),
			runs[i].WindowDays,
		)
	}
	return tw.finish()
}

func printReportDetail(rpt *domain.Report) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", rpt.ID)
	tw.writef("Generated:\t%s\n", rpt.GeneratedAt.Format("2006-01-02 15:04:05"))
	tw.writef("Window:\t%d days\n", rpt.WindowDays)
	tw.writef("Total alerts:\t%d\n", rpt.TotalCount())

	for i := range rpt.Sections {
		sec := &rpt.Sections[i]
		tw.writef("\n[%s]\n", sec.Source)
		if sec.FetchError != "" {
			tw.writef("  unavailable:\t%s\n", truncate(sec.FetchError, 60))
			continue
		}
		for _, a := range sec.Alerts {
			tw.writef("  %d\t%s\n", a.Count, a.Label)
		}
		tw.writef("  total %d, top %d = %s%%\n", sec.Total, sec.TopN, sec.TopPercent)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
