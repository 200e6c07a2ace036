// Package domain defines the core business types for alert-digest.
package domain

import (
	"time"
)

// Source identifies where a batch of alert records came from.
type Source string

// Source constants.
const (
	SourceEmail  Source = "email"
	SourcePaging Source = "paging"
	SourceSheet  Source = "sheet"
)

// AggregatedAlert is a normalized alert label paired with its accumulated
// occurrence count. Within one result set each label appears exactly once.
type AggregatedAlert struct {
	Label string `json:"label" db:"label"`
	Count int    `json:"count" db:"count"`
}

// ReportSection holds the aggregated alerts for a single source plus the
// derived totals. A section produced from a failed fetch under the degrade
// policy carries an empty alert list and a non-empty FetchError.
type ReportSection struct {
	Source     Source            `json:"source"`
	Alerts     []AggregatedAlert `json:"alerts"`
	Total      int               `json:"total"`
	TopN       int               `json:"top_n"`
	TopPercent string            `json:"top_percent"`
	FetchError string            `json:"fetch_error,omitempty"`
}

// Report is one complete digest run across all configured sources.
type Report struct {
	ID          string          `json:"id"           db:"id"`
	GeneratedAt time.Time       `json:"generated_at" db:"generated_at"`
	WindowDays  int             `json:"window_days"  db:"window_days"`
	Sections    []ReportSection `json:"sections"`
}

// Section returns the section for the given source, or nil when the report
// does not contain one.
func (r *Report) Section(src Source) *ReportSection {
	for i := range r.Sections {
		if r.Sections[i].Source == src {
			return &r.Sections[i]
		}
	}
	return nil
}

// TotalCount sums the counts of every section in the report.
func (r *Report) TotalCount() int {
	var total int
	for i := range r.Sections {
		total += r.Sections[i].Total
	}
	return total
}
