package notify

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded reports. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards reports with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendReport logs and discards a report.
func (n *NoOpNotifier) SendReport(_ context.Context, rpt *domain.Report) error {
	n.log.Debug("report notification discarded (no backend configured)",
		"report_id", rpt.ID,
		"sections", len(rpt.Sections),
		"total", rpt.TotalCount(),
	)
	return nil
}
