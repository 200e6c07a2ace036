package victorops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/donaldgifford/alert-digest/internal/metrics"
)

const (
	defaultBaseURL = "https://api.victorops.com/api-reporting/v2/incidents"
	defaultLimit   = 100
)

// ErrIncidentFetch is returned when the reporting API answers with an error
// body or a response that does not contain an incident list.
var ErrIncidentFetch = errors.New("incident fetch failed")

// RESTClient implements IncidentClient against the Splunk On-Call
// reporting REST API.
type RESTClient struct {
	apiID       string
	apiKey      string
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
}

// RESTOption configures the RESTClient.
type RESTOption func(*RESTClient)

// WithBaseURL overrides the default reporting API endpoint.
func WithBaseURL(u string) RESTOption {
	return func(c *RESTClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) RESTOption {
	return func(c *RESTClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter. When set, every Incidents() call
// goes through Wait() first.
func WithRateLimiter(r *RateLimiter) RESTOption {
	return func(c *RESTClient) {
		c.rateLimiter = r
	}
}

// NewRESTClient creates an incident client authenticating with the given
// API id/key pair.
func NewRESTClient(apiID, apiKey string, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		apiID:   apiID,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// incidentAPIResponse covers both the success and the error shape of the
// reporting endpoint. Incidents stays nil when the key is absent, which is
// how a malformed success response is detected.
type incidentAPIResponse struct {
	Incidents []Incident `json:"incidents"`
	Error     string     `json:"error"`
}

// Incidents implements IncidentClient.Incidents.
func (c *RESTClient) Incidents(ctx context.Context, q IncidentQuery) ([]Incident, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.PagingAPICallsTotal.Inc()

	u := c.buildIncidentsURL(q)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VO-Api-Id", c.apiID)
	httpReq.Header.Set("X-VO-Api-Key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing incidents request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"%w: status %d: %s",
			ErrIncidentFetch, resp.StatusCode, string(body),
		)
	}

	var apiResp incidentAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing incidents response: %w", err)
	}

	if apiResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrIncidentFetch, apiResp.Error)
	}
	if apiResp.Incidents == nil {
		return nil, fmt.Errorf("%w: response has no incidents field", ErrIncidentFetch)
	}

	return apiResp.Incidents, nil
}

func (c *RESTClient) buildIncidentsURL(q IncidentQuery) string {
	params := url.Values{}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	if !q.StartedAfter.IsZero() {
		params.Set("startedAfter", q.StartedAfter.UTC().Format(time.RFC3339))
	}

	return c.baseURL + "?" + params.Encode()
}
