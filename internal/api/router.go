package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter builds the Chi router with all routes configured.
// CORS is wide open because the browser dashboard is served separately.
// Rate limiting is applied globally: 60 requests per minute per IP.
// redisClient may be nil when the response cache is disabled.
func NewRouter(handlers *Handlers, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/health", HealthHandlerFunc(db, redisClient, log))

	r.Route("/api/location", func(r chi.Router) {
		r.Get("/weather", handlers.GetLocationWeather)
		r.Post("/search", handlers.SearchLocations)
	})

	r.Route("/api/weather", func(r chi.Router) {
		r.Get("/forecast", handlers.GetForecast)
		r.Get("/forecast/daily", handlers.GetDailyForecast)
		r.Get("/hourly", handlers.GetHourly)
		r.Get("/search", handlers.SearchWeather)
	})

	r.Route("/api/weather-history", func(r chi.Router) {
		r.Post("/record", handlers.CreateRecord)
		r.Get("/location/{location}", handlers.ListRecords)
		r.Get("/{id}", handlers.GetRecord)
		r.Put("/{id}", handlers.UpdateRecord)
		r.Delete("/{id}", handlers.DeleteRecord)
	})

	r.Route("/api/integrations", func(r chi.Router) {
		r.Get("/youtube", handlers.GetVideos)
		r.Get("/map", handlers.GetMap)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
