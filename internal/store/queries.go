package store

// SQL query constants organized by entity.
// All SQL lives here — PostgresStore methods reference these constants.

// Report run queries.
const (
	queryInsertReportRun = `
		INSERT INTO report_runs (id, generated_at, window_days)
		VALUES (@id, @generated_at, @window_days)
	`

	queryGetReportRun = `
		SELECT id, generated_at, window_days
		FROM report_runs
		WHERE id = $1
	`

	queryLatestReportRun = `
		SELECT id, generated_at, window_days
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT 1
	`

	queryListReportRuns = `
		SELECT id, generated_at, window_days
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT $1
	`
)

// Section and alert queries.
const (
	queryInsertSection = `
		INSERT INTO report_sections (
			run_id, position, source, total, top_n, top_percent, fetch_error
		) VALUES (
			@run_id, @position, @source, @total, @top_n, @top_percent, @fetch_error
		)
	`

	queryInsertSectionAlert = `
		INSERT INTO report_alerts (run_id, source, position, label, count)
		VALUES (@run_id, @source, @position, @label, @count)
	`

	queryGetSections = `
		SELECT source, total, top_n, top_percent, fetch_error
		FROM report_sections
		WHERE run_id = $1
		ORDER BY position
	`

	queryGetSectionAlerts = `
		SELECT label, count
		FROM report_alerts
		WHERE run_id = $1 AND source = $2
		ORDER BY position
	`
)
