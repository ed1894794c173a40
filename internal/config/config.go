// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at start-up. Absence of any
// required credential fails fast instead of degrading into empty responses.
type Config struct {
	OpenWeatherAPIKey string
	YouTubeAPIKey     string
	GoogleMapsAPIKey  string
	DatabaseURL       string

	// RedisURL is optional; the live-weather response cache is disabled
	// when it is empty.
	RedisURL string

	Port           string
	MigrationsDir  string
	DefaultCountry string

	// Outbound rate limit toward the weather provider.
	ProviderRPS   float64
	ProviderBurst int
}

// Load reads configuration, consulting a .env file when present.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		YouTubeAPIKey:     os.Getenv("YOUTUBE_API_KEY"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		Port:              getenvDefault("PORT", "8080"),
		MigrationsDir:     getenvDefault("MIGRATIONS_DIR", "migrations"),
		DefaultCountry:    getenvDefault("GEOCODE_DEFAULT_COUNTRY", "US"),
		ProviderRPS:       getenvFloat("PROVIDER_RPS", 5),
		ProviderBurst:     getenvInt("PROVIDER_BURST", 10),
	}

	required := map[string]string{
		"OPENWEATHER_API_KEY": cfg.OpenWeatherAPIKey,
		"YOUTUBE_API_KEY":     cfg.YouTubeAPIKey,
		"GOOGLE_MAPS_API_KEY": cfg.GoogleMapsAPIKey,
		"DATABASE_URL":        cfg.DatabaseURL,
	}
	for key, val := range required {
		if val == "" {
			return nil, fmt.Errorf("required environment variable %s not set", key)
		}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
