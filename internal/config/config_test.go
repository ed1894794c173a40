package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabinkim0318/weather-dashboard/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("DATABASE_URL", "postgres://localhost/weather")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("GEOCODE_DEFAULT_COUNTRY", "")
	t.Setenv("PROVIDER_RPS", "")
	t.Setenv("PROVIDER_BURST", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ow-key", cfg.OpenWeatherAPIKey)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, "US", cfg.DefaultCountry)
	assert.Equal(t, 5.0, cfg.ProviderRPS)
	assert.Equal(t, 10, cfg.ProviderBurst)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PORT", "9090")
	t.Setenv("GEOCODE_DEFAULT_COUNTRY", "KR")
	t.Setenv("PROVIDER_RPS", "2.5")
	t.Setenv("PROVIDER_BURST", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "KR", cfg.DefaultCountry)
	assert.Equal(t, 2.5, cfg.ProviderRPS)
	assert.Equal(t, 4, cfg.ProviderBurst)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("PROVIDER_RPS", "fast")
	t.Setenv("PROVIDER_BURST", "many")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.ProviderRPS)
	assert.Equal(t, 10, cfg.ProviderBurst)
}
