package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no config.toml is found
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "USD", cfg.App.Currency)
	assert.Equal(t, valueobject.USD, cfg.Currency())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "billing-backend", cfg.Telemetry.ServiceName)
	assert.Equal(t, time.Minute, cfg.Telemetry.LedgerCollectInterval)
	assert.False(t, cfg.Telemetry.LogsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("BILLING_APP_PORT", "9090")
	t.Setenv("BILLING_APP_CURRENCY", "eur")
	t.Setenv("BILLING_LOG_LEVEL", "debug")
	t.Setenv("BILLING_SEED_ENABLED", "false")
	t.Setenv("BILLING_TELEMETRY_SAMPLING_RATIO", "0.25")
	t.Setenv("BILLING_HTTP_READ_TIMEOUT", "3s")
	t.Setenv("BILLING_TELEMETRY_LOGS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "EUR", cfg.App.Currency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.Telemetry.LogsEnabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := inTempDir(t)
	content := `
[app]
name = "billing-file"
currency = "GBP"

[log]
format = "json"

[seed]
enabled = false

[http]
cors_allow_origins = ["http://localhost:3000"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
	t.Setenv("BILLING_APP_NAME", "billing-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing-env", cfg.App.Name)
	assert.Equal(t, "GBP", cfg.App.Currency)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Seed.Enabled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unsupported currency",
			env:     map[string]string{"BILLING_APP_CURRENCY": "XYZ"},
			wantErr: "app.currency",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"BILLING_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "telemetry.sampling_ratio must be between 0.0 and 1.0",
		},
		{
			name: "wildcard cors in production",
			env: map[string]string{
				"BILLING_APP_ENV":                 "production",
				"BILLING_HTTP_CORS_ALLOW_ORIGINS": "*",
			},
			wantErr: "cors_allow_origins cannot be '*' in production",
		},
		{
			name: "insecure telemetry in production",
			env: map[string]string{
				"BILLING_APP_ENV":            "production",
				"BILLING_TELEMETRY_ENABLED":  "true",
				"BILLING_TELEMETRY_INSECURE": "true",
			},
			wantErr: "telemetry.insecure must be false in production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
