// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Failure policies for source fetches during report generation.
const (
	FailurePolicyDegrade = "degrade"
	FailurePolicyAbort   = "abort"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Mail          MailConfig          `yaml:"mail"`
	VictorOps     VictorOpsConfig     `yaml:"victorops"`
	Sheet         SheetConfig         `yaml:"sheet"`
	Cache         CacheConfig         `yaml:"cache"`
	Report        ReportConfig        `yaml:"report"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings. Report history is
// optional; with Enabled false the digest runs without persistence.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// MailConfig defines Gmail API settings for the email alert source.
// Either AccessToken (static, for testing) or the refresh-token triple
// must be set.
type MailConfig struct {
	Query        string `yaml:"query"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	AccessToken  string `yaml:"access_token"`
	BaseURL      string `yaml:"base_url"`
	TokenURL     string `yaml:"token_url"`
}

// VictorOpsConfig defines Splunk On-Call reporting API settings.
type VictorOpsConfig struct {
	APIID     string          `yaml:"api_id"`
	APIKey    string          `yaml:"api_key"`
	BaseURL   string          `yaml:"base_url"`
	Limit     int             `yaml:"limit"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines outbound API rate limiting settings.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// SheetConfig defines the spreadsheet CSV export source.
type SheetConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ExportURL string `yaml:"export_url"`
}

// CacheConfig defines read-through cache behavior for source fetches.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// ReportConfig defines digest report parameters.
type ReportConfig struct {
	TopN          int    `yaml:"top_n"`
	WindowDays    int    `yaml:"window_days"`
	FailurePolicy string `yaml:"failure_policy"` // degrade, abort
}

// ScheduleConfig defines the digest generation interval.
type ScheduleConfig struct {
	DigestInterval time.Duration `yaml:"digest_interval"`
	StaggerOffset  time.Duration `yaml:"stagger_offset"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// TelemetryConfig defines OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"` // OTLP gRPC endpoint, host:port
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyVictorOpsDefaults(&cfg.VictorOps)
	applyCacheDefaults(&cfg.Cache)
	applyReportDefaults(&cfg.Report)
	applyScheduleDefaults(&cfg.Schedule)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyVictorOpsDefaults(v *VictorOpsConfig) {
	if v.Limit == 0 {
		v.Limit = 100
	}
	if v.RateLimit.PerSecond == 0 {
		v.RateLimit.PerSecond = 2.0
	}
	if v.RateLimit.Burst == 0 {
		v.RateLimit.Burst = 4
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.TTL == 0 {
		c.TTL = 6 * time.Hour
	}
}

func applyReportDefaults(r *ReportConfig) {
	if r.TopN == 0 {
		r.TopN = 5
	}
	if r.WindowDays == 0 {
		r.WindowDays = 7
	}
	if r.FailurePolicy == "" {
		r.FailurePolicy = FailurePolicyDegrade
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.DigestInterval == 0 {
		s.DigestInterval = 24 * time.Hour
	}
	if s.StaggerOffset == 0 {
		s.StaggerOffset = 30 * time.Second
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Endpoint == "" {
		t.Endpoint = "localhost:4317"
	}
	if t.ServiceName == "" {
		t.ServiceName = "alert-digest"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
	}

	if cfg.Mail.Query == "" {
		errs = append(errs, fmt.Errorf("mail.query is required"))
	}
	if cfg.Mail.AccessToken == "" {
		if cfg.Mail.ClientID == "" || cfg.Mail.ClientSecret == "" || cfg.Mail.RefreshToken == "" {
			errs = append(errs, fmt.Errorf(
				"mail requires either access_token or client_id, client_secret and refresh_token",
			))
		}
	}

	if cfg.VictorOps.APIID == "" {
		errs = append(errs, fmt.Errorf("victorops.api_id is required"))
	}
	if cfg.VictorOps.APIKey == "" {
		errs = append(errs, fmt.Errorf("victorops.api_key is required"))
	}

	if cfg.Sheet.Enabled && cfg.Sheet.ExportURL == "" {
		errs = append(errs, fmt.Errorf("sheet.export_url is required when sheet is enabled"))
	}

	switch cfg.Report.FailurePolicy {
	case FailurePolicyDegrade, FailurePolicyAbort:
	default:
		errs = append(errs, fmt.Errorf(
			"report.failure_policy must be %q or %q, got %q",
			FailurePolicyDegrade, FailurePolicyAbort, cfg.Report.FailurePolicy,
		))
	}

	if cfg.Report.TopN < 1 {
		errs = append(errs, fmt.Errorf("report.top_n must be positive"))
	}
	if cfg.Report.WindowDays < 1 {
		errs = append(errs, fmt.Errorf("report.window_days must be positive"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error"))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json"))
	}

	return errors.Join(errs...)
}
