package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.LatestReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.LatestReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_TriggerDigest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/digest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Report{ID: "run-1", WindowDays: 7})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rpt, err := c.TriggerDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", rpt.ID)
}

func TestClient_LatestReport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Report{
			ID: "run-2",
			Sections: []domain.ReportSection{
				{Source: domain.SourceEmail, Total: 3},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rpt, err := c.LatestReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-2", rpt.ID)
	require.Len(t, rpt.Sections, 1)
	assert.Equal(t, 3, rpt.Sections[0].Total)
}

func TestClient_GetReport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/run-3", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.Report{ID: "run-3"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	rpt, err := c.GetReport(context.Background(), "run-3")
	require.NoError(t, err)
	assert.Equal(t, "run-3", rpt.ID)
}

func TestClient_ListReports(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]domain.Report{
			"reports": {{ID: "run-1"}, {ID: "run-2"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	runs, err := c.ListReports(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].ID)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
