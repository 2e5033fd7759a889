package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "/etc/portal/mechanisms.yaml", cfg.Auth.MechanismsFile)
	assert.Equal(t, 10*time.Second, cfg.Auth.ValidateTimeout)
	assert.Equal(t, "default", cfg.Auth.DefaultTheme)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, 30, cfg.Observability.CallbackRateLimit)
	assert.Equal(t, 60, cfg.Observability.CallbackRateWindow)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MECHANISMS_FILE", "/tmp/mechs.yaml")
	t.Setenv("AUTH_VALIDATE_TIMEOUT", "3s")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("APP_COOKIE_DOMAIN", ".campus.test")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "/tmp/mechs.yaml", cfg.Auth.MechanismsFile)
	assert.Equal(t, 3*time.Second, cfg.Auth.ValidateTimeout)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, ".campus.test", cfg.HTTP.CookieDomain)
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Auth.ValidateTimeout = -1
	cfg.Observability.CallbackRateLimit = 0
	cfg.Observability.CallbackRateWindow = -5
	cfg.Sanitize()

	assert.Equal(t, 10*time.Second, cfg.Auth.ValidateTimeout)
	assert.Equal(t, "default", cfg.Auth.DefaultTheme)
	assert.Equal(t, 30, cfg.Observability.CallbackRateLimit)
	assert.Equal(t, 60, cfg.Observability.CallbackRateWindow)
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
