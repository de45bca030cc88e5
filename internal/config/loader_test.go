package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("SP_TEST_HOST", "db.internal")

	assert.Equal(t, "host: db.internal", expandEnv("host: ${SP_TEST_HOST}"))
	assert.Equal(t, "port: 5433", expandEnv("port: ${SP_TEST_UNSET_PORT:5433}"))
	assert.Equal(t, "pw: ", expandEnv("pw: ${SP_TEST_UNSET_PW:}"))
	assert.Equal(t, "x: ${SP_TEST_UNSET_X}", expandEnv("x: ${SP_TEST_UNSET_X}"))
}

func TestLoadFromMergesEnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	base := `
app:
  name: press
generation:
  max_attempts: ${SP_TEST_ATTEMPTS:2}
community:
  rate_limit:
    limit: 7
`
	override := `
community:
  rate_limit:
    window: 10m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(override), 0o600))
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "press", cfg.App.Name)
	assert.Equal(t, 2, cfg.Generation.MaxAttempts)
	assert.Equal(t, 7, cfg.Community.RateLimit.Limit)
	assert.Equal(t, 10*time.Minute, cfg.Community.RateLimit.Window)
	assert.Equal(t, "memory", cfg.Community.RateLimit.Store)
	assert.Equal(t, uint(3), cfg.Generation.Content.RetryAttempts)
	assert.InDelta(t, 0.95, cfg.Generation.Content.TemperatureCap, 1e-9)
	assert.Equal(t, 15, cfg.Generation.Outline.MaxChapters)
}

func TestLoadFromMissingBaseFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}
