package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// alert-digest operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "alert-digest-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "alert-digest-alerts",
					Rules: []Rule{
						{
							Alert: "AlertDigestDown",
							Expr:  `absent(up{job="alert-digest"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Alert Digest is down",
								"description": "The alert-digest job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "AlertDigestReadinessDown",
							Expr:  `alertdigest_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Alert Digest readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "AlertDigestHighErrorRate",
							Expr:  `alertdigest:http_errors:rate5m / alertdigest:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Alert Digest",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "AlertDigestSourceFetchErrors",
							Expr:  `increase(alertdigest_source_fetch_errors_total[1h]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Alert source fetch errors detected",
								"description": "One or more alert sources (email, paging, sheet) failed to fetch in the last hour.",
							},
						},
						{
							Alert: "AlertDigestReportFailures",
							Expr:  `increase(alertdigest_report_failures_total[1h]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Digest report run failed",
								"description": "A digest report run has failed within the last hour.",
							},
						},
						{
							Alert: "AlertDigestNoRecentReport",
							Expr:  `increase(alertdigest_reports_generated_total[25h]) == 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No digest report generated in over a day",
								"description": "No digest report has been generated in the last 25 hours. The scheduler may be stuck.",
							},
						},
						{
							Alert: "AlertDigestNotificationFailures",
							Expr:  `increase(alertdigest_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more report notifications (Discord webhooks) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
