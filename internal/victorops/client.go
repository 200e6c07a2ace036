// Package victorops provides a Splunk On-Call (VictorOps) reporting API
// client abstracted behind interfaces for testability.
package victorops

import (
	"context"
	"time"
)

// Incident is one paging incident as returned by the reporting API. Only
// the fields the digest consumes are mapped.
type Incident struct {
	IncidentNumber string `json:"incidentNumber"`
	Service        string `json:"service"`
	CurrentPhase   string `json:"currentPhase"`
	StartTime      string `json:"startTime"`
}

// IncidentQuery defines the parameters for an incident listing.
type IncidentQuery struct {
	// Limit caps the number of incidents returned. Defaults to 100.
	Limit int

	// StartedAfter restricts results to incidents started at or after
	// this instant.
	StartedAfter time.Time
}

// IncidentClient defines the interface for listing paging incidents.
type IncidentClient interface {
	Incidents(ctx context.Context, q IncidentQuery) ([]Incident, error)
}

// ServiceNames extracts the service name of every incident, in order.
// Service names are the raw labels fed into aggregation.
func ServiceNames(incidents []Incident) []string {
	names := make([]string, 0, len(incidents))
	for i := range incidents {
		names = append(names, incidents[i].Service)
	}
	return names
}
