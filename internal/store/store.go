// Package store defines the datastore abstraction for alert-digest report
// history. Business logic depends on the Store interface, never on concrete
// implementations, so report generation works with or without a database.
package store

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// ErrNotFound is returned when no report matches a lookup.
var ErrNotFound = errors.New("report not found")

// Store defines all data access operations for alert-digest.
type Store interface {
	// SaveReport persists a report run with all its sections and alerts.
	SaveReport(ctx context.Context, rpt *domain.Report) error

	// GetReport loads a report run by ID, including sections and alerts.
	GetReport(ctx context.Context, id string) (*domain.Report, error)

	// LatestReport loads the most recently generated report.
	LatestReport(ctx context.Context) (*domain.Report, error)

	// ListReports returns up to limit report runs, newest first, without
	// their sections.
	ListReports(ctx context.Context, limit int) ([]domain.Report, error)
}
