package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheActivity returns a timeseries panel showing cache hits and misses
// per minute, per cache key.
func CacheActivity() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Activity").
		Description("Cache hits and misses per minute, per key").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (key) (rate(alertdigest_cache_hits_total{job="alert-digest"}[5m])) * 60`,
			"hit {{key}}", "A",
		)).
		WithTarget(PromQuery(
			`sum by (key) (rate(alertdigest_cache_misses_total{job="alert-digest"}[5m])) * 60`,
			"miss {{key}}", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CacheVolume returns a bar gauge panel showing 24h cache lookup volume
// per key.
func CacheVolume() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Cache Lookups (24h)").
		Description("Cache hits and misses over the last 24 hours, per key").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (key) (increase(alertdigest_cache_hits_total{job="alert-digest"}[24h]))`,
			"hit {{key}}", "A",
		)).
		WithTarget(PromQuery(
			`sum by (key) (increase(alertdigest_cache_misses_total{job="alert-digest"}[24h]))`,
			"miss {{key}}", "B",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
