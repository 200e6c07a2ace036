package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/alert-digest/internal/cache"
	"github.com/donaldgifford/alert-digest/internal/config"
	"github.com/donaldgifford/alert-digest/internal/engine"
	"github.com/donaldgifford/alert-digest/internal/mail"
	"github.com/donaldgifford/alert-digest/internal/notify"
	"github.com/donaldgifford/alert-digest/internal/sheet"
	"github.com/donaldgifford/alert-digest/internal/store"
	"github.com/donaldgifford/alert-digest/internal/victorops"
)

// buildEngine assembles the digest engine from configuration. The returned
// store is nil when the database is disabled; otherwise the caller owns
// closing it.
func buildEngine(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*engine.Engine, *store.PostgresStore, error) {
	searcher := buildSearcher(cfg)
	paging := buildPagingClient(cfg)

	opts := []engine.EngineOption{
		engine.WithLogger(logger),
		engine.WithTopN(cfg.Report.TopN),
		engine.WithWindowDays(cfg.Report.WindowDays),
		engine.WithPagingLimit(cfg.VictorOps.Limit),
		engine.WithAbortOnError(cfg.Report.FailurePolicy == config.FailurePolicyAbort),
	}

	if cfg.Cache.Enabled {
		opts = append(opts,
			engine.WithCache(cache.NewMemory()),
			engine.WithCacheTTL(cfg.Cache.TTL),
		)
	}

	if cfg.Sheet.Enabled {
		opts = append(opts, engine.WithSheet(sheet.NewClient(cfg.Sheet.ExportURL)))
	}

	if cfg.Notifications.Discord.Enabled {
		opts = append(opts, engine.WithNotifier(
			notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL),
		))
	} else {
		opts = append(opts, engine.WithNotifier(notify.NewNoOpNotifier(logger)))
	}

	var pg *store.PostgresStore
	if cfg.Database.Enabled {
		var err error
		pg, err = store.NewPostgresStore(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		opts = append(opts, engine.WithStore(pg))
	}

	eng := engine.NewEngine(searcher, paging, cfg.Mail.Query, opts...)
	return eng, pg, nil
}

func buildSearcher(cfg *config.Config) mail.Searcher {
	var tokens mail.TokenProvider
	if cfg.Mail.AccessToken != "" {
		tokens = mail.NewStaticTokenProvider(cfg.Mail.AccessToken)
	} else {
		var authOpts []mail.AuthOption
		if cfg.Mail.TokenURL != "" {
			authOpts = append(authOpts, mail.WithTokenURL(cfg.Mail.TokenURL))
		}
		tokens = mail.NewRefreshTokenProvider(
			cfg.Mail.ClientID,
			cfg.Mail.ClientSecret,
			cfg.Mail.RefreshToken,
			authOpts...,
		)
	}

	var gmailOpts []mail.GmailOption
	if cfg.Mail.BaseURL != "" {
		gmailOpts = append(gmailOpts, mail.WithGmailURL(cfg.Mail.BaseURL))
	}
	return mail.NewGmailSearcher(tokens, gmailOpts...)
}

func buildPagingClient(cfg *config.Config) victorops.IncidentClient {
	opts := []victorops.RESTOption{
		victorops.WithRateLimiter(victorops.NewRateLimiter(
			cfg.VictorOps.RateLimit.PerSecond,
			cfg.VictorOps.RateLimit.Burst,
		)),
	}
	if cfg.VictorOps.BaseURL != "" {
		opts = append(opts, victorops.WithBaseURL(cfg.VictorOps.BaseURL))
	}
	return victorops.NewRESTClient(cfg.VictorOps.APIID, cfg.VictorOps.APIKey, opts...)
}
