package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/zenblog/internal/config"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(config.WithDotenv(), config.WithEnviron(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, subscription.TierFree, cfg.Backend.DemoTier)
	assert.Equal(t, 64, cfg.Content.RenderCacheSize)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(config.WithDotenv(), config.WithEnviron(map[string]string{
		"APP_ENV":           "production",
		"HTTP_ADDR":         ":9090",
		"REDIS_URL":         "redis://localhost:6379/1",
		"USAGE_TIMEZONE":    "Europe/Paris",
		"BACKEND_DEMO_TIER": "premium",
	}))
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, subscription.TierPremium, cfg.Backend.DemoTier)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.WithDotenv(), config.WithEnviron(map[string]string{
		"USAGE_TIMEZONE":    "Mars/Olympus",
		"BACKEND_DEMO_TIER": "gold",
	}))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "USAGE_TIMEZONE")
	assert.Contains(t, err.Error(), "BACKEND_DEMO_TIER")

	_, err = config.Load(config.WithDotenv(), config.WithEnviron(map[string]string{"HTTP_READ_TIMEOUT": "soon"}))
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("ZB_TEST_DOTENV_NAME=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ZB_TEST_DOTENV_NAME") })

	_, err := config.Load(config.WithDotenv(file, filepath.Join(dir, "missing.env")))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv("ZB_TEST_DOTENV_NAME"))
}

func TestMustLoad_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		config.MustLoad(config.WithDotenv(), config.WithEnviron(map[string]string{"BACKEND_LOGIN_BURST": "0"}))
	})
}
