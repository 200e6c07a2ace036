package client

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// TriggerDigest asks the server to generate a digest now and returns the
// resulting report.
func (c *Client) TriggerDigest(ctx context.Context) (*domain.Report, error) {
	var rpt domain.Report
	if err := c.post(ctx, "/api/v1/digest", nil, &rpt); err != nil {
		return nil, err
	}
	return &rpt, nil
}

// LatestReport returns the most recently generated report.
func (c *Client) LatestReport(ctx context.Context) (*domain.Report, error) {
	var rpt domain.Report
	if err := c.get(ctx, "/api/v1/reports/latest", &rpt); err != nil {
		return nil, err
	}
	return &rpt, nil
}

// GetReport returns one stored report by ID.
func (c *Client) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var rpt domain.Report
	if err := c.get(ctx, fmt.Sprintf("/api/v1/reports/%s", id), &rpt); err != nil {
		return nil, err
	}
	return &rpt, nil
}

// ListReports returns up to limit recent report runs, newest first.
func (c *Client) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	var out struct {
		Reports []domain.Report `json:"reports"`
	}
	path := fmt.Sprintf("/api/v1/reports?limit=%d", limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}
