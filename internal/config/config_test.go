package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "diligence.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, "https://api.dilisense.com/v1", cfg.Dilisense.BaseURL)
	assert.Equal(t, "https://opendart.fss.or.kr/api", cfg.DART.BaseURL)
	assert.Equal(t, 120, cfg.Screening.AITimeoutSecs)
	assert.Equal(t, 180, cfg.Screening.GlobalTimeoutSecs)
	assert.Equal(t, 24, cfg.Screening.CacheTTLHours)
	assert.Equal(t, 5, cfg.Screening.MaxConcurrent)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5, cfg.Circuit.FailureThreshold)
	assert.InDelta(t, 0.5, cfg.Monitoring.FailureRateThreshold, 1e-9)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DILIGENCE_STORE_DRIVER", "postgres")
	t.Setenv("DILIGENCE_DILISENSE_KEY", "test-key")
	t.Setenv("DILIGENCE_SCREENING_GLOBAL_TIMEOUT_SECS", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "test-key", cfg.Dilisense.Key)
	assert.Equal(t, 60, cfg.Screening.GlobalTimeoutSecs)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  driver: postgres
  database_url: postgres://localhost/diligence
screening:
  compliance_timeout_secs: 10
export:
  dir: /tmp/reports
  format: xlsx
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/diligence", cfg.Store.DatabaseURL)
	assert.Equal(t, 10, cfg.Screening.ComplianceTimeoutSecs)
	assert.Equal(t, "/tmp/reports", cfg.Export.Dir)
	assert.Equal(t, "xlsx", cfg.Export.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, 120, cfg.Screening.AITimeoutSecs)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [broken"), 0o644))
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
