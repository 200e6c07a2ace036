package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchDuration returns a timeseries panel showing the p95 fetch duration
// per alert source.
func FetchDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Duration (p95)").
		Description("95th percentile alert source fetch duration, per source").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(alertdigest_source_fetch_duration_seconds_bucket{job="alert-digest"}[5m])) by (le, source))`,
			"{{source}}",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// FetchErrors returns a timeseries panel showing fetch errors per minute,
// per alert source.
func FetchErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fetch Errors / min").
		Description("Rate of alert source fetch errors per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`alertdigest:source_fetch_errors:rate5m * 60`, "{{source}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PagingAPICallsRate returns a timeseries panel showing the paging
// incident API call rate.
func PagingAPICallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Paging API Calls").
		Description("Splunk On-Call reporting API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`alertdigest:paging_api_calls:rate5m`, "calls/s", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
