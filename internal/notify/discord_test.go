package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

func testReport() *domain.Report {
	return &domain.Report{
		ID:          "run-1",
		GeneratedAt: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
		WindowDays:  7,
		Sections: []domain.ReportSection{
			{
				Source: domain.SourceEmail,
				Alerts: []domain.AggregatedAlert{
					{Label: "disk full", Count: 3},
					{Label: "cpu high", Count: 1},
				},
				Total:      4,
				TopN:       1,
				TopPercent: "75.00",
			},
			{
				Source:     domain.SourcePaging,
				FetchError: "incident fetch failed: invalid api key",
			},
		},
	}
}

func TestDiscordNotifier_SendReport(t *testing.T) {
	t.Parallel()

	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	require.NoError(t, n.SendReport(context.Background(), testReport()))

	require.Len(t, got.Embeds, 2)

	email := got.Embeds[0]
	assert.Equal(t, "Alert Digest: email", email.Title)
	assert.Equal(t, colorGreen, email.Color)
	assert.Contains(t, email.Description, "3× disk full")
	assert.Contains(t, email.Description, "1× cpu high")
	require.Len(t, email.Fields, 2)
	assert.Equal(t, "4", email.Fields[0].Value)
	assert.Equal(t, "Top 1", email.Fields[1].Name)
	assert.Equal(t, "75.00%", email.Fields[1].Value)

	paging := got.Embeds[1]
	assert.Equal(t, "Alert Digest: paging (unavailable)", paging.Title)
	assert.Equal(t, colorOrange, paging.Color)
	assert.Contains(t, paging.Description, "invalid api key")
}

func TestDiscordNotifier_LongSectionSummarized(t *testing.T) {
	t.Parallel()

	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sec := domain.ReportSection{Source: domain.SourceSheet, TopN: 5, TopPercent: "50.00"}
	for i := range 15 {
		sec.Alerts = append(sec.Alerts, domain.AggregatedAlert{
			Label: string(rune('a' + i)),
			Count: 1,
		})
		sec.Total++
	}
	rpt := &domain.Report{ID: "run-2", Sections: []domain.ReportSection{sec}}

	n := NewDiscordNotifier(srv.URL)
	require.NoError(t, n.SendReport(context.Background(), rpt))

	require.Len(t, got.Embeds, 1)
	assert.Contains(t, got.Embeds[0].Description, "... and 5 more")
}

func TestDiscordNotifier_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		errMsg     string
	}{
		{name: "rate limited", statusCode: http.StatusTooManyRequests, errMsg: "rate limited"},
		{name: "bad request", statusCode: http.StatusBadRequest, errMsg: "discord returned 400"},
		{name: "server error", statusCode: http.StatusInternalServerError, errMsg: "discord returned 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"message": "nope"}`))
			}))
			defer srv.Close()

			n := NewDiscordNotifier(srv.URL)
			err := n.SendReport(context.Background(), testReport())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
