package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/storage"
)

type createRecordRequest struct {
	Location      string   `json:"location" validate:"required"`
	WeatherDate   string   `json:"weather_date" validate:"required"`
	TempC         float64  `json:"temp_c" validate:"gte=-100,lte=100"`
	TempF         *float64 `json:"temp_f"`
	Condition     string   `json:"condition" validate:"required"`
	ConditionDesc *string  `json:"condition_desc"`
	Humidity      *int     `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	WindSpeed     *float64 `json:"wind_speed" validate:"omitempty,gte=0"`
	Icon          *string  `json:"icon"`
}

type updateRecordRequest struct {
	Location      *string  `json:"location"`
	WeatherDate   *string  `json:"weather_date"`
	TempC         *float64 `json:"temp_c" validate:"omitempty,gte=-100,lte=100"`
	TempF         *float64 `json:"temp_f"`
	Condition     *string  `json:"condition"`
	ConditionDesc *string  `json:"condition_desc"`
	Humidity      *int     `json:"humidity" validate:"omitempty,gte=0,lte=100"`
	WindSpeed     *float64 `json:"wind_speed" validate:"omitempty,gte=0"`
	Icon          *string  `json:"icon"`
}

// parseDate accepts RFC 3339 timestamps or bare dates. A bare date maps to
// the start of the day; endOfDay shifts it to 23:59:59 for inclusive ranges.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", geo.ErrBadInput, s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

// Records may describe forecasts, but only up to one week out.
const maxFutureWindow = 7 * 24 * time.Hour

// CreateRecord handles POST /api/weather-history/record.
func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: invalid JSON body", geo.ErrBadInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: %v", geo.ErrBadInput, err))
		return
	}

	date, err := parseDate(req.WeatherDate, false)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if date.After(time.Now().Add(maxFutureWindow)) {
		writeError(w, h.log, fmt.Errorf("%w: weather_date more than 7 days in the future", geo.ErrBadInput))
		return
	}

	tempF := req.TempC*9/5 + 32
	if req.TempF != nil {
		tempF = *req.TempF
	}

	rec, err := h.history.CreateRecord(r.Context(), storage.CreateRecordParams{
		Location:      req.Location,
		WeatherDate:   date,
		TempC:         req.TempC,
		TempF:         tempF,
		Condition:     req.Condition,
		ConditionDesc: req.ConditionDesc,
		Humidity:      req.Humidity,
		WindSpeed:     req.WindSpeed,
		Icon:          req.Icon,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func recordID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid record id", geo.ErrBadInput)
	}
	return id, nil
}

// GetRecord handles GET /api/weather-history/{id}.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	rec, err := h.history.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListRecords handles GET /api/weather-history/location/{location}.
// Optional start_date/end_date bound the inclusive window.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	var start, end *time.Time
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := parseDate(s, false)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		start = &t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := parseDate(s, true)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		end = &t
	}
	if start != nil && end != nil && start.After(*end) {
		writeError(w, h.log, fmt.Errorf("%w: start_date must not be after end_date", geo.ErrBadInput))
		return
	}

	records, err := h.history.ListByLocation(r.Context(), location, start, end)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if records == nil {
		records = []storage.WeatherRecord{}
	}

	writeJSON(w, http.StatusOK, records)
}

// UpdateRecord handles PUT /api/weather-history/{id} with partial changes.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: invalid JSON body", geo.ErrBadInput))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: %v", geo.ErrBadInput, err))
		return
	}

	params := storage.UpdateRecordParams{
		Location:      req.Location,
		TempC:         req.TempC,
		TempF:         req.TempF,
		Condition:     req.Condition,
		ConditionDesc: req.ConditionDesc,
		Humidity:      req.Humidity,
		WindSpeed:     req.WindSpeed,
		Icon:          req.Icon,
	}
	if req.WeatherDate != nil {
		date, err := parseDate(*req.WeatherDate, false)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		if date.After(time.Now().Add(maxFutureWindow)) {
			writeError(w, h.log, fmt.Errorf("%w: weather_date more than 7 days in the future", geo.ErrBadInput))
			return
		}
		params.WeatherDate = &date
	}

	rec, err := h.history.UpdateRecord(r.Context(), id, params)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /api/weather-history/{id}.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if err := h.history.DeleteRecord(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "weather record deleted"})
}
