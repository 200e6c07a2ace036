// Package main implements a mock alert-sources server for local development.
// It serves canned responses from a JSON fixture to simulate the Gmail API,
// the Splunk On-Call reporting API, and a spreadsheet CSV export without
// requiring real credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type fixture struct {
	Subjects  []string          `json:"subjects"`
	Incidents []json.RawMessage `json:"incidents"`
	SheetCSV  string            `json:"sheetCSV"`
}

type incident struct {
	StartTime string `json:"startTime"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/sources.json", "path to sources fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fix, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "subjects", len(fix.Subjects), "incidents", len(fix.Incidents))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", tokenHandler(logger))
	mux.HandleFunc("GET /gmail/v1/users/me/messages", messageListHandler(logger, fix))
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", messageHandler(logger, fix))
	mux.HandleFunc("GET /api-reporting/v2/incidents", incidentsHandler(logger, fix))
	mux.HandleFunc("GET /sheet/export", sheetHandler(logger, fix))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock alert-sources server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &fix, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Validate the grant type is present (don't verify creds).
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "refresh_token" {
			logger.Warn("token request missing refresh_token grant")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "unsupported_grant_type",
				"error_description": "grant_type must be refresh_token",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mock-token-" + strconv.FormatInt(int64(os.Getpid()), 16),
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
		logger.Info("issued mock token")
	}
}

// subjectTerm extracts the quoted value of a subject: term from a Gmail
// search query, e.g. `subject:"[ALERT]" newer_than:7d` yields `[alert]`.
// Queries without one match every message.
func subjectTerm(q string) string {
	const prefix = `subject:"`
	start := strings.Index(q, prefix)
	if start < 0 {
		return ""
	}
	rest := q[start+len(prefix):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	return strings.ToLower(rest[:end])
}

func messageListHandler(logger *slog.Logger, fix *fixture) http.HandlerFunc {
	type messageRef struct {
		ID string `json:"id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeUnauthorized(w)
			return
		}

		term := subjectTerm(r.URL.Query().Get("q"))
		maxResults := 100
		if v, err := strconv.Atoi(r.URL.Query().Get("maxResults")); err == nil && v > 0 {
			maxResults = v
		}

		// Message IDs are fixture indices, so the metadata handler can
		// look subjects back up without shared state.
		refs := []messageRef{}
		for i, subject := range fix.Subjects {
			if term != "" && !strings.Contains(strings.ToLower(subject), term) {
				continue
			}
			refs = append(refs, messageRef{ID: fmt.Sprintf("msg-%04d", i)})
			if len(refs) >= maxResults {
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{"messages": refs})
		logger.Info("listed messages", "term", term, "matched", len(refs))
	}
}

func messageHandler(logger *slog.Logger, fix *fixture) http.HandlerFunc {
	type header struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeUnauthorized(w)
			return
		}

		id := r.PathValue("id")
		idx, err := strconv.Atoi(strings.TrimPrefix(id, "msg-"))
		if err != nil || idx < 0 || idx >= len(fix.Subjects) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "message not found"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"id": id,
			"payload": map[string]any{
				"headers": []header{{Name: "Subject", Value: fix.Subjects[idx]}},
			},
		})
		logger.Info("served message", "id", id)
	}
}

func incidentsHandler(logger *slog.Logger, fix *fixture) http.HandlerFunc {
	// Pre-parse start times for window filtering.
	type indexedIncident struct {
		raw     json.RawMessage
		started time.Time
	}
	incidents := make([]indexedIncident, 0, len(fix.Incidents))
	for _, raw := range fix.Incidents {
		var inc incident
		//nolint:errcheck,gosec // fixture data is trusted; time extraction is best-effort
		json.Unmarshal(raw, &inc)
		started, _ := time.Parse(time.RFC3339, inc.StartTime)
		incidents = append(incidents, indexedIncident{raw: raw, started: started})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-VO-Api-Id") == "" || r.Header.Get("X-VO-Api-Key") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "missing API credentials"})
			return
		}

		limit := 100
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}
		var startedAfter time.Time
		if s := r.URL.Query().Get("startedAfter"); s != "" {
			startedAfter, _ = time.Parse(time.RFC3339, s)
		}

		matched := []json.RawMessage{}
		for _, inc := range incidents {
			if !startedAfter.IsZero() && inc.started.Before(startedAfter) {
				continue
			}
			matched = append(matched, inc.raw)
			if len(matched) >= limit {
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{"incidents": matched})
		logger.Info("served incidents", "matched", len(matched), "limit", limit)
	}
}

func sheetHandler(logger *slog.Logger, fix *fixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		fmt.Fprint(w, fix.SheetCSV)
		logger.Info("served sheet export", "bytes", len(fix.SheetCSV))
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(map[string]string{"error": "missing bearer token"})
}
