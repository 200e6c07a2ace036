package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// SaveReport persists a report run with its sections and alerts in one
// transaction.
func (s *PostgresStore) SaveReport(ctx context.Context, rpt *domain.Report) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, queryInsertReportRun, pgx.NamedArgs{
		"id":           rpt.ID,
		"generated_at": rpt.GeneratedAt,
		"window_days":  rpt.WindowDays,
	}); err != nil {
		return fmt.Errorf("inserting report run %s: %w", rpt.ID, err)
	}

	for pos := range rpt.Sections {
		sec := &rpt.Sections[pos]
		if _, err := tx.Exec(ctx, queryInsertSection, pgx.NamedArgs{
			"run_id":      rpt.ID,
			"position":    pos,
			"source":      string(sec.Source),
			"total":       sec.Total,
			"top_n":       sec.TopN,
			"top_percent": sec.TopPercent,
			"fetch_error": sec.FetchError,
		}); err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.Source, err)
		}

		for i, a := range sec.Alerts {
			if _, err := tx.Exec(ctx, queryInsertSectionAlert, pgx.NamedArgs{
				"run_id":   rpt.ID,
				"source":   string(sec.Source),
				"position": i,
				"label":    a.Label,
				"count":    a.Count,
			}); err != nil {
				return fmt.Errorf("inserting alert %q: %w", a.Label, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing report %s: %w", rpt.ID, err)
	}
	return nil
}

// GetReport loads a report run by ID, including sections and alerts.
func (s *PostgresStore) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	rpt := &domain.Report{}
	err := s.pool.QueryRow(ctx, queryGetReportRun, id).Scan(
		&rpt.ID, &rpt.GeneratedAt, &rpt.WindowDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading report run %s: %w", id, err)
	}

	if err := s.loadSections(ctx, rpt); err != nil {
		return nil, err
	}
	return rpt, nil
}

// LatestReport loads the most recently generated report.
func (s *PostgresStore) LatestReport(ctx context.Context) (*domain.Report, error) {
	rpt := &domain.Report{}
	err := s.pool.QueryRow(ctx, queryLatestReportRun).Scan(
		&rpt.ID, &rpt.GeneratedAt, &rpt.WindowDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest report run: %w", err)
	}

	if err := s.loadSections(ctx, rpt); err != nil {
		return nil, err
	}
	return rpt, nil
}

// ListReports returns up to limit report runs, newest first, without their
// sections.
func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, queryListReportRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("listing report runs: %w", err)
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		var rpt domain.Report
		if err := rows.Scan(&rpt.ID, &rpt.GeneratedAt, &rpt.WindowDays); err != nil {
			return nil, fmt.Errorf("scanning report run: %w", err)
		}
		out = append(out, rpt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report runs: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) loadSections(ctx context.Context, rpt *domain.Report) error {
	rows, err := s.pool.Query(ctx, queryGetSections, rpt.ID)
	if err != nil {
		return fmt.Errorf("loading sections for %s: %w", rpt.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec domain.ReportSection
		var source string
		if err := rows.Scan(
			&source, &sec.Total, &sec.TopN, &sec.TopPercent, &sec.FetchError,
		); err != nil {
			return fmt.Errorf("scanning section: %w", err)
		}
		sec.Source = domain.Source(source)
		rpt.Sections = append(rpt.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sections: %w", err)
	}

	for i := range rpt.Sections {
		if err := s.loadSectionAlerts(ctx, rpt.ID, &rpt.Sections[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) loadSectionAlerts(
	ctx context.Context,
	runID string,
	sec *domain.ReportSection,
) error {
	rows, err := s.pool.Query(ctx, queryGetSectionAlerts, runID, string(sec.Source))
	if err != nil {
		return fmt.Errorf("loading alerts for %s/%s: %w", runID, sec.Source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.AggregatedAlert
		if err := rows.Scan(&a.Label, &a.Count); err != nil {
			return fmt.Errorf("scanning alert: %w", err)
		}
		sec.Alerts = append(sec.Alerts, a)
	}
	return rows.Err()
}
