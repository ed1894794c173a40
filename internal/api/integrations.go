package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
)

// GetVideos handles GET /api/integrations/youtube?city=.
// Responses are memoized for the process lifetime; cache hits come back
// byte-identical with no provider call.
func (h *Handlers) GetVideos(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		writeError(w, h.log, fmt.Errorf("%w: city is required", geo.ErrBadInput))
		return
	}

	payload, err := h.integrations.Videos(r.Context(), city)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeRaw(w, http.StatusOK, payload)
}

// GetMap handles GET /api/integrations/map?city=|lat=&lon=&zoom=.
func (h *Handlers) GetMap(w http.ResponseWriter, r *http.Request) {
	req := integrations.MapRequest{City: r.URL.Query().Get("city")}

	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			writeError(w, h.log, fmt.Errorf("%w: bad latitude %q", geo.ErrBadInput, latStr))
			return
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			writeError(w, h.log, fmt.Errorf("%w: bad longitude %q", geo.ErrBadInput, lonStr))
			return
		}
		req.Lat, req.Lon = &lat, &lon
	}

	if z := r.URL.Query().Get("zoom"); z != "" {
		zoom, err := strconv.Atoi(z)
		if err != nil {
			writeError(w, h.log, fmt.Errorf("%w: bad zoom %q", geo.ErrBadInput, z))
			return
		}
		req.Zoom = zoom
	}

	payload, err := h.integrations.Map(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeRaw(w, http.StatusOK, payload)
}
