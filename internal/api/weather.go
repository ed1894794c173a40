package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/weather"
)

// queryFromRequest builds a provider query from either city= or lat=&lon=
// parameters. Handlers resolve free text before reaching the provider, so a
// bare city here is already canonical or provider-acceptable.
func queryFromRequest(r *http.Request) (weather.Query, error) {
	city := r.URL.Query().Get("city")
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return weather.Query{}, fmt.Errorf("%w: bad latitude %q", geo.ErrBadInput, latStr)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return weather.Query{}, fmt.Errorf("%w: bad longitude %q", geo.ErrBadInput, lonStr)
		}
		return weather.Query{Lat: &lat, Lon: &lon}, nil
	}

	if city == "" {
		return weather.Query{}, fmt.Errorf("%w: provide city or lat/lon", geo.ErrBadInput)
	}
	return weather.Query{City: city}, nil
}

// GetLocationWeather handles GET /api/location/weather?user_input=.
// Free-form input is resolved first; downstream calls always run on
// coordinates unless the input itself was a coordinate pair.
func (h *Handlers) GetLocationWeather(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("user_input")
	if input == "" {
		writeError(w, h.log, fmt.Errorf("%w: user_input is required", geo.ErrBadInput))
		return
	}

	loc, err := h.resolver.Resolve(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	cur, err := h.weather.Current(r.Context(), weather.Query{Lat: &loc.Lat, Lon: &loc.Lon})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if cur.Location == "" {
		cur.Location = loc.Name
	}

	writeJSON(w, http.StatusOK, cur)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchLocations handles POST /api/location/search.
// Returns the top-N geocoding candidates for autocomplete.
func (h *Handlers) SearchLocations(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: invalid JSON body", geo.ErrBadInput))
		return
	}

	locs, err := h.resolver.Search(r.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": locs})
}

// GetForecast handles GET /api/weather/forecast?city=|lat=&lon=.
// Items are chronological so grouping by date downstream is deterministic.
func (h *Handlers) GetForecast(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	fc, err := h.weather.Forecast(r.Context(), q)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, fc)
}

// GetDailyForecast handles GET /api/weather/forecast/daily, the per-date
// first-slot summary backing the 5-day view.
func (h *Handlers) GetDailyForecast(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	fc, err := h.weather.Forecast(r.Context(), q)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": fc.Location,
		"forecast": weather.DailySummary(fc.Items),
	})
}

// GetHourly handles GET /api/weather/hourly?city=, the next-5-hours view.
func (h *Handlers) GetHourly(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	hourly, err := h.weather.Hourly(r.Context(), q)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, hourly)
}

// SearchWeather handles GET /api/weather/search?query=&include_forecast=&include_hourly=.
// The selected views are fetched concurrently; only a current-conditions
// failure fails the call.
func (h *Handlers) SearchWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, h.log, fmt.Errorf("%w: query is required", geo.ErrBadInput))
		return
	}

	loc, err := h.resolver.Resolve(r.Context(), query)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	opts := weather.SnapshotOptions{
		IncludeForecast: r.URL.Query().Get("include_forecast") == "true",
		IncludeHourly:   r.URL.Query().Get("include_hourly") == "true",
	}

	snap, err := h.weather.Snapshot(r.Context(), weather.Query{Lat: &loc.Lat, Lon: &loc.Lon}, opts)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": loc,
		"result":   snap,
	})
}
