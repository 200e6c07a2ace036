package main

import "errors"

// KnownMetrics is the set of metric names exported by alert-digest plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"alertdigest_http_request_duration_seconds": true,
	"alertdigest_http_requests_total":           true,

	// Health metrics.
	"alertdigest_healthz_up": true,
	"alertdigest_readyz_up":  true,

	// Source fetch metrics.
	"alertdigest_source_fetch_duration_seconds": true,
	"alertdigest_source_fetch_errors_total":     true,
	"alertdigest_paging_api_calls_total":        true,

	// Cache metrics.
	"alertdigest_cache_hits_total":   true,
	"alertdigest_cache_misses_total": true,

	// Report metrics.
	"alertdigest_reports_generated_total":     true,
	"alertdigest_report_failures_total":       true,
	"alertdigest_report_duration_seconds":     true,
	"alertdigest_notification_failures_total": true,

	// Recording rules.
	"alertdigest:http_requests:rate5m":       true,
	"alertdigest:http_errors:rate5m":         true,
	"alertdigest:source_fetch_errors:rate5m": true,
	"alertdigest:paging_api_calls:rate5m":    true,
	"alertdigest:cache_hit_ratio:5m":         true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
