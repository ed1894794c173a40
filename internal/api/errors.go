package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/nabinkim0318/weather-dashboard/internal/fetch"
	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
	"github.com/nabinkim0318/weather-dashboard/internal/storage"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw writes a pre-marshaled JSON payload unchanged, preserving
// byte-identical cached responses.
func writeRaw(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// writeError maps a domain error onto the HTTP taxonomy: 400 for malformed
// input, 404 for unresolvable locations and missing records, 502 for
// upstream provider failures, 500 for configuration and persistence faults.
// Client errors and upstream errors must never conflate; the front end
// renders them with different copy.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var (
		statusErr    *fetch.StatusError
		transportErr *fetch.TransportError
	)

	switch {
	case errors.Is(err, geo.ErrBadInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.Is(err, geo.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, integrations.ErrNotConfigured):
		log.Error("integration misconfigured", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "integration not configured"})

	case errors.As(err, &statusErr), errors.As(err, &transportErr),
		errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		log.Error("upstream provider failed", "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream provider error"})

	default:
		log.Error("internal error", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
