// Package api exposes the dashboard HTTP surface: location resolution,
// live weather, history CRUD, and the video/map integrations proxy.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	resolver     LocationResolver
	weather      WeatherService
	history      HistoryRepo
	integrations IntegrationsService
	validate     *validator.Validate
	log          *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(resolver LocationResolver, weather WeatherService, history HistoryRepo, integrations IntegrationsService, log *slog.Logger) *Handlers {
	return &Handlers{
		resolver:     resolver,
		weather:      weather,
		history:      history,
		integrations: integrations,
		validate:     validator.New(),
		log:          log,
	}
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns a handler that checks database and, when
// configured, Redis connectivity. 200 when everything answers, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{"status": "ok", "db": "ok"}

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			result["db"] = "error"
			status = http.StatusServiceUnavailable
		}

		if redis != nil {
			result["redis"] = "ok"
			if err := redis.Ping(ctx); err != nil {
				log.Error("health check: redis ping failed", "err", err)
				result["redis"] = "error"
				status = http.StatusServiceUnavailable
			}
		}

		if status != http.StatusOK {
			result["status"] = "degraded"
		}
		writeJSON(w, status, result)
	}
}
