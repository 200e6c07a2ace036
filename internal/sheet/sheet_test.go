package sheet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/alert-digest/internal/sheet"
	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		csv        string
		want       []domain.AggregatedAlert
		wantErr    bool
		wantSchema bool
		errContain string
	}{
		{
			name: "basic sheet",
			csv:  "Service,Number Of Alerts\nDisk Full,4\nCPU High,2\n",
			want: []domain.AggregatedAlert{
				{Label: "Disk Full", Count: 4},
				{Label: "CPU High", Count: 2},
			},
		},
		{
			name: "columns in any position",
			csv:  "Week,Number Of Alerts,Service\n2024-W10,7,Disk Full\n",
			want: []domain.AggregatedAlert{{Label: "Disk Full", Count: 7}},
		},
		{
			name: "labels taken verbatim",
			csv:  "Service,Number Of Alerts\n[3x] Disk Full,1\n",
			want: []domain.AggregatedAlert{{Label: "[3x] Disk Full", Count: 1}},
		},
		{
			name: "header only",
			csv:  "Service,Number Of Alerts\n",
			want: nil,
		},
		{
			name:       "missing service column",
			csv:        "Name,Number Of Alerts\nx,1\n",
			wantErr:    true,
			wantSchema: true,
			errContain: `"Service"`,
		},
		{
			name:       "missing count column",
			csv:        "Service,Alerts\nx,1\n",
			wantErr:    true,
			wantSchema: true,
			errContain: `"Number Of Alerts"`,
		},
		{
			name:       "empty input",
			csv:        "",
			wantErr:    true,
			wantSchema: true,
			errContain: "empty sheet",
		},
		{
			name:       "non-numeric count",
			csv:        "Service,Number Of Alerts\nDisk Full,lots\n",
			wantErr:    true,
			errContain: "row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sheet.Parse(strings.NewReader(tt.csv))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				if tt.wantSchema {
					assert.ErrorIs(t, err, sheet.ErrSchema)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Alerts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Service,Number Of Alerts\nDisk Full,3\n"))
	}))
	defer srv.Close()

	c := sheet.NewClient(srv.URL)
	got, err := c.Alerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AggregatedAlert{{Label: "Disk Full", Count: 3}}, got)
}

func TestClient_AlertsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such sheet"))
	}))
	defer srv.Close()

	c := sheet.NewClient(srv.URL)
	_, err := c.Alerts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
