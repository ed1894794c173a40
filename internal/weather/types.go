// Package weather fetches and aggregates OpenWeather data: current
// conditions, the 5-day/3-hour forecast, and a derived next-5-hours view.
package weather

import (
	"fmt"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
)

// Current holds current conditions for a location. Temperature stays in raw
// Kelvin; unit conversion for display is the front end's job.
type Current struct {
	Location    string  `json:"location"`
	Country     string  `json:"country,omitempty"`
	TempK       float64 `json:"temp_k"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	WindDeg     *int    `json:"wind_deg,omitempty"`
	Condition   string  `json:"condition"`
	Description string  `json:"condition_desc"`
	Icon        string  `json:"icon"`
	IconURL     string  `json:"icon_url"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
	ObservedAt  int64   `json:"observed_at"`
}

// ForecastItem is one 3-hour forecast slot. Temperatures are pre-converted to
// both Celsius and Fahrenheit because forecast rows are persisted and
// exported in both units.
type ForecastItem struct {
	Date        string  `json:"forecast_date"`
	Hour        int     `json:"forecast_hour"`
	Timestamp   int64   `json:"timestamp"`
	TempC       float64 `json:"temp_c"`
	TempF       float64 `json:"temp_f"`
	TempMinC    float64 `json:"temp_min_c"`
	TempMaxC    float64 `json:"temp_max_c"`
	Condition   string  `json:"condition"`
	Description string  `json:"condition_desc"`
	Icon        string  `json:"icon"`
	IconURL     string  `json:"icon_url"`
}

// Forecast is the chronological slot sequence plus the resolved location the
// provider echoed back.
type Forecast struct {
	Location geo.Location   `json:"location"`
	Items    []ForecastItem `json:"forecast"`
}

// HourlySlot is one entry in the next-5-hours view.
type HourlySlot struct {
	Hour        string  `json:"hour"`
	Timestamp   int64   `json:"timestamp"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	IconURL     string  `json:"icon_url"`
}

// Hourly is the next-5-hours response.
type Hourly struct {
	Location string       `json:"location"`
	Slots    []HourlySlot `json:"hourly_forecast"`
}

// Query addresses a provider call by city name or coordinates.
type Query struct {
	City string
	Lat  *float64
	Lon  *float64
}

// Valid reports whether the query carries a usable address.
func (q Query) Valid() bool {
	return q.City != "" || (q.Lat != nil && q.Lon != nil)
}

func kelvinToCelsius(k float64) float64 { return k - 273.15 }

func celsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

// IconURL maps a provider icon identifier to its image URL.
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", code)
}

// Tip returns a short suggestion for the given primary condition.
func Tip(condition string) string {
	switch condition {
	case "Rain", "Drizzle":
		return "Bring an umbrella"
	case "Snow":
		return "Wear warm clothes"
	case "Clear":
		return "Perfect day for a walk"
	case "Clouds":
		return "Might be gloomy, stay productive"
	case "Thunderstorm":
		return "Stay indoors and safe"
	default:
		return "Stay prepared and check the forecast"
	}
}
