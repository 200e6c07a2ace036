// Package sheet reads pre-aggregated alert counts from a spreadsheet tab
// exported as CSV. Rows arrive already aggregated upstream, so labels are
// taken verbatim with no normalization.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// Required header column names, matched exactly.
const (
	colService = "Service"
	colCount   = "Number Of Alerts"
)

// ErrSchema is returned when the header row lacks a required column. There
// is no partial recovery for this source.
var ErrSchema = errors.New("sheet schema error")

// Parse reads CSV data whose header row names the Service and
// Number Of Alerts columns, in any position. Each data row becomes one
// pre-aggregated alert record.
func Parse(r io.Reader) ([]domain.AggregatedAlert, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty sheet", ErrSchema)
		}
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	serviceIdx, countIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colService:
			serviceIdx = i
		case colCount:
			countIdx = i
		}
	}
	if serviceIdx < 0 || countIdx < 0 {
		return nil, fmt.Errorf(
			"%w: header must contain %q and %q columns, got %v",
			ErrSchema, colService, colCount, header,
		)
	}

	var out []domain.AggregatedAlert
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}

		count, err := strconv.Atoi(strings.TrimSpace(record[countIdx]))
		if err != nil {
			return nil, fmt.Errorf(
				"row %d: parsing count %q: %w",
				row, record[countIdx], err,
			)
		}

		out = append(out, domain.AggregatedAlert{
			Label: record[serviceIdx],
			Count: count,
		})
	}
	return out, nil
}

// Client fetches a published CSV export of the alert sheet over HTTP.
type Client struct {
	exportURL string
	client    *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithSheetHTTPClient overrides the default HTTP client.
func WithSheetHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a sheet client reading from the given CSV export URL.
func NewClient(exportURL string, opts ...ClientOption) *Client {
	c := &Client{
		exportURL: exportURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Alerts downloads and parses the sheet.
func (c *Client) Alerts(ctx context.Context) ([]domain.AggregatedAlert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.exportURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing sheet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf(
			"sheet export error (status %d): %s",
			resp.StatusCode, string(body),
		)
	}

	return Parse(resp.Body)
}
