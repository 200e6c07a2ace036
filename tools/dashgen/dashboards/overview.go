// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/alert-digest/tools/dashgen/panels"
)

// BuildOverview constructs the Alert Digest Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Alert Digest Overview").
		Uid("alert-digest-overview").
		Tags([]string{"alert-digest", "oncall"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.CacheHitRatioGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Sources.
	b.WithRow(dashboard.NewRowBuilder("Sources").
		WithPanel(panels.FetchDuration()).
		WithPanel(panels.FetchErrors()).
		WithPanel(panels.PagingAPICallsRate()))

	// Row 4: Cache.
	b.WithRow(dashboard.NewRowBuilder("Cache").
		WithPanel(panels.CacheActivity()).
		WithPanel(panels.CacheVolume()))

	// Row 5: Reports.
	b.WithRow(dashboard.NewRowBuilder("Reports").
		WithPanel(panels.ReportDuration()).
		WithPanel(panels.ReportsGenerated()).
		WithPanel(panels.ReportFailures()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
