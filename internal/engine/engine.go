// Package engine orchestrates digest generation: fetching alert records from
// each configured source, aggregating them, and delivering the report.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/alert-digest/internal/cache"
	"github.com/donaldgifford/alert-digest/internal/mail"
	"github.com/donaldgifford/alert-digest/internal/metrics"
	"github.com/donaldgifford/alert-digest/internal/notify"
	"github.com/donaldgifford/alert-digest/internal/store"
	"github.com/donaldgifford/alert-digest/internal/victorops"
	"github.com/donaldgifford/alert-digest/pkg/alerts"
	domain "github.com/donaldgifford/alert-digest/pkg/types"
)

const (
	defaultTopN       = 5
	defaultWindowDays = 7
)

// SheetSource provides pre-aggregated alerts from a spreadsheet export.
type SheetSource interface {
	Alerts(ctx context.Context) ([]domain.AggregatedAlert, error)
}

// Engine orchestrates source fetches, aggregation, persistence, and
// notification for one digest run.
type Engine struct {
	mail     mail.Searcher
	paging   victorops.IncidentClient
	sheet    SheetSource
	cache    cache.Cache
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger

	mailQuery    string
	topN         int
	windowDays   int
	pagingLimit  int
	cacheTTL     time.Duration
	abortOnError bool
	now          func() time.Time
}

// NewEngine creates a new Engine with injected dependencies. The mail
// searcher and paging client are required; sheet source, cache, store, and
// notifier are optional and configured via options.
func NewEngine(
	m mail.Searcher,
	p victorops.IncidentClient,
	mailQuery string,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		mail:       m,
		paging:     p,
		log:        slog.Default(),
		mailQuery:  mailQuery,
		topN:       defaultTopN,
		windowDays: defaultWindowDays,
		cacheTTL:   cache.DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithSheet sets the spreadsheet alert source.
func WithSheet(s SheetSource) EngineOption {
	return func(e *Engine) {
		e.sheet = s
	}
}

// WithCache sets the read-through cache for source fetches.
func WithCache(c cache.Cache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithCacheTTL sets how long fetched source data stays fresh.
func WithCacheTTL(ttl time.Duration) EngineOption {
	return func(e *Engine) {
		e.cacheTTL = ttl
	}
}

// WithStore sets the report history store.
func WithStore(s store.Store) EngineOption {
	return func(e *Engine) {
		e.store = s
	}
}

// WithNotifier sets the report delivery target.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithTopN sets how many top alerts the percentage summary covers.
func WithTopN(n int) EngineOption {
	return func(e *Engine) {
		e.topN = n
	}
}

// WithWindowDays sets the lookback window for paging incidents.
func WithWindowDays(days int) EngineOption {
	return func(e *Engine) {
		e.windowDays = days
	}
}

// WithPagingLimit caps how many incidents one paging fetch requests.
func WithPagingLimit(n int) EngineOption {
	return func(e *Engine) {
		e.pagingLimit = n
	}
}

// WithAbortOnError makes any source fetch failure abort the whole run
// instead of degrading to an errored section.
func WithAbortOnError(abort bool) EngineOption {
	return func(e *Engine) {
		e.abortOnError = abort
	}
}

// WithNowFunc overrides the clock.
func WithNowFunc(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// sourceResult is one source's aggregated alerts or its fetch failure.
type sourceResult struct {
	alerts []domain.AggregatedAlert
	err    error
}

// Run generates one digest report. Email and paging sources are fetched
// concurrently; each failure either degrades its section or aborts the run
// depending on the configured policy.
func (eng *Engine) Run(ctx context.Context) (*domain.Report, error) {
	start := eng.now()
	defer func() {
		metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}()

	rpt, err := eng.buildReport(ctx)
	if err != nil {
		metrics.ReportFailuresTotal.Inc()
		return nil, err
	}

	if eng.store != nil {
		if err := eng.store.SaveReport(ctx, rpt); err != nil {
			// History is best-effort; the digest still goes out.
			eng.log.Error("saving report failed", "report_id", rpt.ID, "error", err)
		}
	}

	if eng.notifier != nil {
		if err := eng.notifier.SendReport(ctx, rpt); err != nil {
			eng.log.Error("sending report failed", "report_id", rpt.ID, "error", err)
			metrics.NotificationFailuresTotal.Inc()
		}
	}

	metrics.ReportsGeneratedTotal.Inc()
	eng.log.Info("digest generated",
		"report_id", rpt.ID,
		"sections", len(rpt.Sections),
		"total_alerts", rpt.TotalCount(),
	)
	return rpt, nil
}

func (eng *Engine) buildReport(ctx context.Context) (*domain.Report, error) {
	var (
		emailRes  sourceResult
		pagingRes sourceResult
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		emailRes.alerts, emailRes.err = eng.fetchEmailAlerts(ctx)
	}()
	go func() {
		defer wg.Done()
		pagingRes.alerts, pagingRes.err = eng.fetchPagingAlerts(ctx)
	}()
	wg.Wait()

	rpt := &domain.Report{
		ID:          uuid.NewString(),
		GeneratedAt: eng.now(),
		WindowDays:  eng.windowDays,
	}

	for _, src := range []struct {
		source domain.Source
		res    sourceResult
	}{
		{domain.SourceEmail, emailRes},
		{domain.SourcePaging, pagingRes},
	} {
		sec, err := eng.buildSection(src.source, src.res)
		if err != nil {
			return nil, err
		}
		rpt.Sections = append(rpt.Sections, sec)
	}

	if eng.sheet != nil {
		var res sourceResult
		res.alerts, res.err = eng.fetchSheetAlerts(ctx)
		sec, err := eng.buildSection(domain.SourceSheet, res)
		if err != nil {
			return nil, err
		}
		rpt.Sections = append(rpt.Sections, sec)
	}

	return rpt, nil
}

func (eng *Engine) buildSection(
	src domain.Source,
	res sourceResult,
) (domain.ReportSection, error) {
	if res.err != nil {
		metrics.SourceFetchErrorsTotal.WithLabelValues(string(src)).Inc()
		if eng.abortOnError {
			return domain.ReportSection{}, fmt.Errorf("fetching %s alerts: %w", src, res.err)
		}
		eng.log.Warn("source fetch failed, section degraded",
			"source", src,
			"error", res.err,
		)
		return domain.ReportSection{
			Source:     src,
			TopN:       eng.topN,
			TopPercent: alerts.TopPercentage(nil, eng.topN),
			FetchError: res.err.Error(),
		}, nil
	}

	return domain.ReportSection{
		Source:     src,
		Alerts:     res.alerts,
		Total:      alerts.TotalCount(res.alerts),
		TopN:       eng.topN,
		TopPercent: alerts.TopPercentage(res.alerts, eng.topN),
	}, nil
}

func (eng *Engine) fetchEmailAlerts(ctx context.Context) ([]domain.AggregatedAlert, error) {
	start := time.Now()
	defer func() {
		metrics.SourceFetchDuration.
			WithLabelValues(string(domain.SourceEmail)).
			Observe(time.Since(start).Seconds())
	}()

	subjects, err := cache.Fetch(ctx, eng.cache, cache.KeyEmailAlerts, eng.cacheTTL,
		func(ctx context.Context) ([]string, error) {
			return eng.mail.Subjects(ctx, eng.mailQuery)
		},
	)
	if err != nil {
		return nil, err
	}

	eng.log.Debug("email alerts fetched", "subjects", len(subjects))
	return alerts.Aggregate(subjects), nil
}

func (eng *Engine) fetchPagingAlerts(ctx context.Context) ([]domain.AggregatedAlert, error) {
	start := time.Now()
	defer func() {
		metrics.SourceFetchDuration.
			WithLabelValues(string(domain.SourcePaging)).
			Observe(time.Since(start).Seconds())
	}()

	startedAfter := eng.now().AddDate(0, 0, -eng.windowDays)
	incidents, err := cache.Fetch(ctx, eng.cache, cache.KeyPagingIncidents, eng.cacheTTL,
		func(ctx context.Context) ([]victorops.Incident, error) {
			return eng.paging.Incidents(ctx, victorops.IncidentQuery{
				Limit:        eng.pagingLimit,
				StartedAfter: startedAfter,
			})
		},
	)
	if err != nil {
		return nil, err
	}

	eng.log.Debug("paging incidents fetched", "incidents", len(incidents))
	return alerts.Aggregate(victorops.ServiceNames(incidents)), nil
}

func (eng *Engine) fetchSheetAlerts(ctx context.Context) ([]domain.AggregatedAlert, error) {
	start := time.Now()
	defer func() {
		metrics.SourceFetchDuration.
			WithLabelValues(string(domain.SourceSheet)).
			Observe(time.Since(start).Seconds())
	}()

	return eng.sheet.Alerts(ctx)
}
