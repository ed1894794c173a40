package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nabinkim0318/weather-dashboard/internal/api"
	"github.com/nabinkim0318/weather-dashboard/internal/cache"
	"github.com/nabinkim0318/weather-dashboard/internal/config"
	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
	"github.com/nabinkim0318/weather-dashboard/internal/storage"
	"github.com/nabinkim0318/weather-dashboard/internal/weather"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()

	// Connect to PostgreSQL and apply the schema.
	pool, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := storage.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations applied")

	// Redis is optional; without it live-weather responses are fetched
	// from the provider on every request.
	var redisClient *redis.Client
	var responseCache weather.ResponseCache
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()
		responseCache = cache.New(redisClient)
	} else {
		log.Warn("REDIS_URL not set, weather response cache disabled")
	}

	// Wire dependencies.
	geoClient := geo.NewClient(cfg.OpenWeatherAPIKey)
	resolver := geo.NewResolver(geoClient, cfg.DefaultCountry)

	weatherClient := weather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderRPS, cfg.ProviderBurst)
	weatherService := weather.NewService(weatherClient, responseCache, log)

	repo := storage.NewRepository(pool)

	integrationsService := integrations.NewService(
		integrations.NewYouTubeClient(cfg.YouTubeAPIKey),
		integrations.NewMapClient(cfg.GoogleMapsAPIKey),
		resolver,
		integrations.NewMemo(),
		log,
	)

	handlers := api.NewHandlers(resolver, weatherService, repo, integrationsService, log)

	dbPinger := &pgxPoolPinger{pool: pool}

	var router http.Handler
	if redisClient != nil {
		router = api.NewRouter(handlers, dbPinger, &redisPingerAdapter{client: redisClient}, log)
	} else {
		router = api.NewRouter(handlers, dbPinger, nil, log)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// pgxPoolPinger adapts pgxpool.Pool to the api health-check interface.
type pgxPoolPinger struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p *pgxPoolPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// redisPingerAdapter adapts redis.Client to the api health-check interface.
type redisPingerAdapter struct {
	client *redis.Client
}

func (r *redisPingerAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
