package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "alert-digest-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "alert-digest-recording",
					Rules: []Rule{
						{
							Record: "alertdigest:http_requests:rate5m",
							Expr:   `sum(rate(alertdigest_http_requests_total[5m]))`,
						},
						{
							Record: "alertdigest:http_errors:rate5m",
							Expr:   `sum(rate(alertdigest_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "alertdigest:source_fetch_errors:rate5m",
							Expr:   `sum by (source) (rate(alertdigest_source_fetch_errors_total[5m]))`,
						},
						{
							Record: "alertdigest:paging_api_calls:rate5m",
							Expr:   `rate(alertdigest_paging_api_calls_total[5m])`,
						},
						{
							Record: "alertdigest:cache_hit_ratio:5m",
							Expr:   `sum(rate(alertdigest_cache_hits_total[5m])) / (sum(rate(alertdigest_cache_hits_total[5m])) + sum(rate(alertdigest_cache_misses_total[5m])))`,
						},
					},
				},
			},
		},
	}
}
