package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("STAGING_DIR", "/tmp/staging")
	t.Setenv("STAGING_MAX_AGE_SEC", "120")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("ASSISTANT_PROVIDER", "ollama")
	t.Setenv("ASSISTANT_TEMPERATURE", "0.2")

	cfg := Load()

	assert.Equal(t, "/tmp/staging", cfg.Staging.Dir)
	assert.Equal(t, 2*time.Minute, cfg.Staging.MaxAge())
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "ollama", cfg.Assistant.Provider)
	assert.InDelta(t, 0.2, cfg.Assistant.Temperature, 1e-9)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STAGING_BACKEND", "STAGING_MAX_AGE_SEC", "STAGING_SWEEP_INTERVAL_SEC", "SESSION_COOKIE", "ASSISTANT_TIMEOUT_SEC", "AXIOM_DATASET"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "local", cfg.Staging.Backend)
	assert.Equal(t, time.Hour, cfg.Staging.MaxAge())
	assert.Zero(t, cfg.Staging.SweepInterval())
	assert.Equal(t, "portfolio_session", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Second, cfg.Assistant.Timeout())
	assert.Equal(t, "dev_portfolioapi", cfg.Axiom.Dataset)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"

	os.Setenv(key, "1.5")
	assert.InDelta(t, 1.5, getEnvFloat(key, 0), 1e-9)

	os.Setenv(key, "nope")
	assert.InDelta(t, 0.7, getEnvFloat(key, 0.7), 1e-9)

	os.Unsetenv(key)
	assert.InDelta(t, 0.7, getEnvFloat(key, 0.7), 1e-9)
}
