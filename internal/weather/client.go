package weather

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/nabinkim0318/weather-dashboard/internal/fetch"
	"github.com/nabinkim0318/weather-dashboard/internal/geo"
)

const (
	currentDefaultURL  = "https://api.openweathermap.org/data/2.5/weather"
	forecastDefaultURL = "https://api.openweathermap.org/data/2.5/forecast"

	hourlySlots = 5
)

// Client talks to the OpenWeather data API. Requests go out without a units
// parameter, so every temperature in the raw payload is Kelvin.
type Client struct {
	apiKey      string
	currentURL  string
	forecastURL string
	client      *http.Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
}

// NewClient constructs a Client with production URLs, a shared outbound rate
// limit, and a circuit breaker that trips after repeated provider failures.
func NewClient(apiKey string, rps float64, burst int) *Client {
	return &Client{
		apiKey:      apiKey,
		currentURL:  currentDefaultURL,
		forecastURL: forecastDefaultURL,
		client:      fetch.NewHTTPClient(),
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "openweather",
			Timeout: 30 * time.Second,
		}),
	}
}

// NewClientWithURLs constructs a Client pointing at custom endpoints with no
// rate limit or breaker (for tests).
func NewClientWithURLs(currentURL, forecastURL, apiKey string) *Client {
	return &Client{
		apiKey:      apiKey,
		currentURL:  currentURL,
		forecastURL: forecastURL,
		client:      fetch.NewHTTPClient(),
	}
}

func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}
	if c.breaker == nil {
		return fetch.Get(ctx, c.client, endpoint, dst)
	}
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, fetch.Get(ctx, c.client, endpoint, dst)
	})
	return err
}

func (c *Client) params(q Query) (url.Values, error) {
	if !q.Valid() {
		return nil, fmt.Errorf("%w: provide city or lat/lon", geo.ErrBadInput)
	}
	v := url.Values{}
	v.Set("appid", c.apiKey)
	if q.Lat != nil && q.Lon != nil {
		v.Set("lat", fmt.Sprintf("%f", *q.Lat))
		v.Set("lon", fmt.Sprintf("%f", *q.Lon))
	} else {
		v.Set("q", q.City)
	}
	return v, nil
}

type owmCurrentResponse struct {
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   *int    `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type owmForecastResponse struct {
	City struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Current fetches current conditions, keeping the raw Kelvin temperature.
func (c *Client) Current(ctx context.Context, q Query) (*Current, error) {
	params, err := c.params(q)
	if err != nil {
		return nil, err
	}

	var raw owmCurrentResponse
	if err := c.get(ctx, c.currentURL+"?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("current weather fetch: %w", err)
	}

	cond, desc, icon := "", "", ""
	if len(raw.Weather) > 0 {
		cond = raw.Weather[0].Main
		desc = raw.Weather[0].Description
		icon = raw.Weather[0].Icon
	}

	return &Current{
		Location:    raw.Name,
		Country:     raw.Sys.Country,
		TempK:       raw.Main.Temp,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
		WindDeg:     raw.Wind.Deg,
		Condition:   cond,
		Description: desc,
		Icon:        icon,
		IconURL:     IconURL(icon),
		Sunrise:     raw.Sys.Sunrise,
		Sunset:      raw.Sys.Sunset,
		ObservedAt:  raw.Dt,
	}, nil
}

// Forecast fetches the 5-day/3-hour forecast. Items come back in
// chronological order so grouping by date downstream is deterministic.
func (c *Client) Forecast(ctx context.Context, q Query) (*Forecast, error) {
	params, err := c.params(q)
	if err != nil {
		return nil, err
	}

	var raw owmForecastResponse
	if err := c.get(ctx, c.forecastURL+"?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("forecast fetch: %w", err)
	}

	tz := time.FixedZone("local", raw.City.Timezone)

	items := make([]ForecastItem, 0, len(raw.List))
	for _, slot := range raw.List {
		cond, desc, icon := "", "", ""
		if len(slot.Weather) > 0 {
			cond = slot.Weather[0].Main
			desc = slot.Weather[0].Description
			icon = slot.Weather[0].Icon
		}

		at := time.Unix(slot.Dt, 0).In(tz)
		tempC := kelvinToCelsius(slot.Main.Temp)

		items = append(items, ForecastItem{
			Date:        at.Format("2006-01-02"),
			Hour:        at.Hour(),
			Timestamp:   slot.Dt,
			TempC:       round1(tempC),
			TempF:       round1(celsiusToFahrenheit(tempC)),
			TempMinC:    round1(kelvinToCelsius(slot.Main.TempMin)),
			TempMaxC:    round1(kelvinToCelsius(slot.Main.TempMax)),
			Condition:   cond,
			Description: desc,
			Icon:        icon,
			IconURL:     IconURL(icon),
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Timestamp < items[j].Timestamp })

	return &Forecast{
		Location: geo.Location{
			Name:    raw.City.Name,
			Country: raw.City.Country,
			Lat:     raw.City.Coord.Lat,
			Lon:     raw.City.Coord.Lon,
		},
		Items: items,
	}, nil
}

// Hourly fetches the next five 3-hour slots with local-time hour labels.
func (c *Client) Hourly(ctx context.Context, q Query) (*Hourly, error) {
	params, err := c.params(q)
	if err != nil {
		return nil, err
	}

	var raw owmForecastResponse
	if err := c.get(ctx, c.forecastURL+"?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("hourly fetch: %w", err)
	}

	tz := time.FixedZone("local", raw.City.Timezone)

	n := len(raw.List)
	if n > hourlySlots {
		n = hourlySlots
	}

	slots := make([]HourlySlot, 0, n)
	for _, slot := range raw.List[:n] {
		cond, desc, icon := "", "", ""
		if len(slot.Weather) > 0 {
			cond = slot.Weather[0].Main
			desc = slot.Weather[0].Description
			icon = slot.Weather[0].Icon
		}
		slots = append(slots, HourlySlot{
			Hour:        time.Unix(slot.Dt, 0).In(tz).Format("15:04"),
			Timestamp:   slot.Dt,
			Temperature: round1(kelvinToCelsius(slot.Main.Temp)),
			Condition:   cond,
			Description: desc,
			Icon:        icon,
			IconURL:     IconURL(icon),
		})
	}

	return &Hourly{Location: raw.City.Name, Slots: slots}, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
