package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSources = `
mail:
  query: 'subject:"[ALERT]" newer_than:7d'
  access_token: test-token
victorops:
  api_id: vo-id
  api_key: vo-key
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: minimalSources,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, `subject:"[ALERT]" newer_than:7d`, cfg.Mail.Query)
				assert.Equal(t, "test-token", cfg.Mail.AccessToken)
				assert.Equal(t, "vo-id", cfg.VictorOps.APIID)
				assert.Equal(t, "vo-key", cfg.VictorOps.APIKey)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: minimalSources,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, 100, cfg.VictorOps.Limit)
				assert.Equal(t, 2.0, cfg.VictorOps.RateLimit.PerSecond)
				assert.Equal(t, 4, cfg.VictorOps.RateLimit.Burst)
				assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
				assert.Equal(t, 5, cfg.Report.TopN)
				assert.Equal(t, 7, cfg.Report.WindowDays)
				assert.Equal(t, FailurePolicyDegrade, cfg.Report.FailurePolicy)
				assert.Equal(t, 24*time.Hour, cfg.Schedule.DigestInterval)
				assert.Equal(t, 30*time.Second, cfg.Schedule.StaggerOffset)
				assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, "alert-digest", cfg.Telemetry.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
mail:
  query: 'is:alert'
  access_token: "${TEST_MAIL_TOKEN}"
victorops:
  api_id: vo-id
  api_key: "${TEST_VO_KEY}"
`,
			envVars: map[string]string{
				"TEST_MAIL_TOKEN": "tok-from-env",
				"TEST_VO_KEY":     "key-from-env",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "tok-from-env", cfg.Mail.AccessToken)
				assert.Equal(t, "key-from-env", cfg.VictorOps.APIKey)
			},
		},
		{
			name: "missing mail query",
			yaml: `
mail:
  access_token: test-token
victorops:
  api_id: vo-id
  api_key: vo-key
`,
			wantErr: "mail.query is required",
		},
		{
			name: "missing mail credentials",
			yaml: `
mail:
  query: 'is:alert'
  client_id: cid
victorops:
  api_id: vo-id
  api_key: vo-key
`,
			wantErr: "mail requires either access_token or client_id, client_secret and refresh_token",
		},
		{
			name: "refresh token credentials accepted",
			yaml: `
mail:
  query: 'is:alert'
  client_id: cid
  client_secret: csecret
  refresh_token: rtoken
victorops:
  api_id: vo-id
  api_key: vo-key
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "cid", cfg.Mail.ClientID)
				assert.Equal(t, "rtoken", cfg.Mail.RefreshToken)
			},
		},
		{
			name: "missing victorops api_id",
			yaml: `
mail:
  query: 'is:alert'
  access_token: test-token
victorops:
  api_key: vo-key
`,
			wantErr: "victorops.api_id is required",
		},
		{
			name: "database enabled requires connection settings",
			yaml: minimalSources + `
database:
  enabled: true
`,
			wantErr: "database.host is required",
		},
		{
			name: "database disabled skips connection validation",
			yaml: minimalSources + `
database:
  enabled: false
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.False(t, cfg.Database.Enabled)
			},
		},
		{
			name: "sheet enabled requires export url",
			yaml: minimalSources + `
sheet:
  enabled: true
`,
			wantErr: "sheet.export_url is required when sheet is enabled",
		},
		{
			name: "invalid failure policy",
			yaml: minimalSources + `
report:
  failure_policy: panic
`,
			wantErr: `report.failure_policy must be "degrade" or "abort"`,
		},
		{
			name: "abort failure policy accepted",
			yaml: minimalSources + `
report:
  failure_policy: abort
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, FailurePolicyAbort, cfg.Report.FailurePolicy)
			},
		},
		{
			name: "negative top_n rejected",
			yaml: minimalSources + `
report:
  top_n: -3
`,
			wantErr: "report.top_n must be positive",
		},
		{
			name: "discord enabled requires webhook url",
			yaml: minimalSources + `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required when discord is enabled",
		},
		{
			name: "invalid logging level",
			yaml: minimalSources + `
logging:
  level: verbose
`,
			wantErr: "logging.level must be one of debug, info, warn, error",
		},
		{
			name: "full config",
			yaml: `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 60s
database:
  enabled: true
  host: db.example.com
  port: 5433
  name: digests
  user: admin
  password: s3cret
  sslmode: require
  pool_size: 20
mail:
  query: 'subject:"[ALERT]" newer_than:7d'
  client_id: cid
  client_secret: csecret
  refresh_token: rtoken
victorops:
  api_id: vo-id
  api_key: vo-key
  limit: 50
  rate_limit:
    per_second: 1.5
    burst: 2
sheet:
  enabled: true
  export_url: https://docs.google.com/spreadsheets/d/abc/export?format=csv
cache:
  enabled: true
  ttl: 2h
report:
  top_n: 10
  window_days: 14
  failure_policy: degrade
schedule:
  digest_interval: 12h
  stagger_offset: 1m
notifications:
  discord:
    enabled: true
    webhook_url: https://discord.com/api/webhooks/123
telemetry:
  enabled: true
  endpoint: otel-collector:4317
  sample_ratio: 0.25
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.True(t, cfg.Database.Enabled)
				assert.Equal(t, "db.example.com", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 20, cfg.Database.PoolSize)
				assert.Equal(t, 50, cfg.VictorOps.Limit)
				assert.Equal(t, 1.5, cfg.VictorOps.RateLimit.PerSecond)
				assert.True(t, cfg.Sheet.Enabled)
				assert.True(t, cfg.Cache.Enabled)
				assert.Equal(t, 2*time.Hour, cfg.Cache.TTL)
				assert.Equal(t, 10, cfg.Report.TopN)
				assert.Equal(t, 14, cfg.Report.WindowDays)
				assert.Equal(t, 12*time.Hour, cfg.Schedule.DigestInterval)
				assert.True(t, cfg.Notifications.Discord.Enabled)
				assert.True(t, cfg.Telemetry.Enabled)
				assert.Equal(t, "otel-collector:4317", cfg.Telemetry.Endpoint)
				assert.Equal(t, 0.25, cfg.Telemetry.SampleRatio)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			// Set env vars for this test.
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Write YAML to a temp file.
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "basic DSN",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				Name:     "testdb",
				User:     "testuser",
				Password: "testpass",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 dbname=testdb user=testuser password=testpass sslmode=disable",
		},
		{
			name: "production DSN",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				Name:     "digests",
				User:     "admin",
				Password: "s3cret",
				SSLMode:  "require",
			},
			want: "host=db.example.com port=5433 dbname=digests user=admin password=s3cret sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
