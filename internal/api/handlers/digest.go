package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/alert-digest/internal/store"
	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

// DigestRunner defines the interface for triggering a digest run.
type DigestRunner interface {
	Run(ctx context.Context) (*domain.Report, error)
}

// ReportReader defines the interface for loading stored reports.
type ReportReader interface {
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	LatestReport(ctx context.Context) (*domain.Report, error)
	ListReports(ctx context.Context, limit int) ([]domain.Report, error)
}

// DigestHandler handles manual digest trigger requests.
type DigestHandler struct {
	runner DigestRunner
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(r DigestRunner) *DigestHandler {
	return &DigestHandler{runner: r}
}

// DigestOutput is the response body for the digest trigger endpoint.
type DigestOutput struct {
	Body domain.Report
}

// Trigger generates a digest report immediately.
func (h *DigestHandler) Trigger(ctx context.Context, _ *struct{}) (*DigestOutput, error) {
	rpt, err := h.runner.Run(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("digest failed: " + err.Error())
	}

	return &DigestOutput{Body: *rpt}, nil
}

// ReportsHandler handles report history lookups.
type ReportsHandler struct {
	reader ReportReader
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(r ReportReader) *ReportsHandler {
	return &ReportsHandler{reader: r}
}

// ReportOutput is the response body for single-report endpoints.
type ReportOutput struct {
	Body domain.Report
}

// GetReportInput identifies one report run.
type GetReportInput struct {
	ID string `path:"id" doc:"Report run ID"`
}

// Get returns one stored report by ID.
func (h *ReportsHandler) Get(ctx context.Context, in *GetReportInput) (*ReportOutput, error) {
	rpt, err := h.reader.GetReport(ctx, in.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("report " + in.ID + " not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading report: " + err.Error())
	}

	return &ReportOutput{Body: *rpt}, nil
}

// Latest returns the most recently generated report.
func (h *ReportsHandler) Latest(ctx context.Context, _ *struct{}) (*ReportOutput, error) {
	rpt, err := h.reader.LatestReport(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("no reports generated yet")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("loading report: " + err.Error())
	}

	return &ReportOutput{Body: *rpt}, nil
}

// ListReportsInput holds list query parameters.
type ListReportsInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"500" doc:"Maximum runs to return"`
}

// ListReportsOutput is the response body for the report listing endpoint.
type ListReportsOutput struct {
	Body struct {
		Reports []domain.Report `json:"reports"`
	}
}

// List returns recent report runs, newest first, without their sections.
func (h *ReportsHandler) List(
	ctx context.Context,
	in *ListReportsInput,
) (*ListReportsOutput, error) {
	runs, err := h.reader.ListReports(ctx, in.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing reports: " + err.Error())
	}

	resp := &ListReportsOutput{}
	resp.Body.Reports = runs
	return resp, nil
}

// RegisterDigestRoutes registers the digest trigger endpoint with the Huma
// API.
func RegisterDigestRoutes(api huma.API, digestH *DigestHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "trigger-digest",
		Method:      http.MethodPost,
		Path:        "/api/v1/digest",
		Summary:     "Generate a digest now",
		Description: "Fetches alerts from all configured sources, aggregates them, " +
			"and delivers the report.",
		Tags:   []string{"digest"},
		Errors: []int{http.StatusInternalServerError},
	}, digestH.Trigger)
}

// RegisterReportRoutes registers report history endpoints with the Huma API.
// Only called when a store is configured.
func RegisterReportRoutes(api huma.API, reportsH *ReportsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-latest-report",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports/latest",
		Summary:     "Get the latest report",
		Tags:        []string{"reports"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, reportsH.Latest)

	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports/{id}",
		Summary:     "Get a report by ID",
		Tags:        []string{"reports"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, reportsH.Get)

	huma.Register(api, huma.Operation{
		OperationID: "list-reports",
		Method:      http.MethodGet,
		Path:        "/api/v1/reports",
		Summary:     "List report runs",
		Tags:        []string{"reports"},
		Errors:      []int{http.StatusInternalServerError},
	}, reportsH.List)
}
