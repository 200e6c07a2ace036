// Package notify defines the notification interface and implementations
// for digest report delivery.
package notify

import (
	"context"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// Notifier defines the interface for delivering a generated digest report.
type Notifier interface {
	SendReport(ctx context.Context, rpt *domain.Report) error
}
