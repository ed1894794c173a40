package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nabinkim0318/weather-dashboard/internal/fetch"
)

const (
	directDefaultURL  = "https://api.openweathermap.org/geo/1.0/direct"
	zipDefaultURL     = "https://api.openweathermap.org/geo/1.0/zip"
	reverseDefaultURL = "https://api.openweathermap.org/geo/1.0/reverse"
)

// Client talks to the OpenWeather Geocoding API.
type Client struct {
	apiKey     string
	directURL  string
	zipURL     string
	reverseURL string
	client     *http.Client
}

// NewClient constructs a Client with the given API key using production URLs.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		directURL:  directDefaultURL,
		zipURL:     zipDefaultURL,
		reverseURL: reverseDefaultURL,
		client:     fetch.NewHTTPClient(),
	}
}

// NewClientWithURLs constructs a Client pointing at custom endpoints (for tests).
func NewClientWithURLs(directURL, zipURL, reverseURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		directURL:  directURL,
		zipURL:     zipURL,
		reverseURL: reverseURL,
		client:     fetch.NewHTTPClient(),
	}
}

type directEntry struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type zipEntry struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Zip     string  `json:"zip"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Direct resolves a free-text place name to up to limit candidate locations.
func (c *Client) Direct(ctx context.Context, query string, limit int) ([]Location, error) {
	if limit < 1 {
		limit = 1
	}
	endpoint := fmt.Sprintf("%s?q=%s&limit=%d&appid=%s",
		c.directURL, url.QueryEscape(query), limit, c.apiKey)

	var raw []directEntry
	if err := fetch.Get(ctx, c.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("geocoding %q: %w", query, ErrNotFound)
	}

	locs := make([]Location, 0, len(raw))
	for _, e := range raw {
		locs = append(locs, Location{
			Name:    e.Name,
			Country: e.Country,
			State:   e.State,
			Lat:     e.Lat,
			Lon:     e.Lon,
		})
	}
	return locs, nil
}

// Zip resolves a postal code. A bare code gets the default country appended
// because the provider interprets country-less zips inconsistently.
func (c *Client) Zip(ctx context.Context, code, defaultCountry string) (*Location, error) {
	if !strings.Contains(code, ",") && defaultCountry != "" {
		code = code + "," + defaultCountry
	}
	endpoint := c.zipURL + "?zip=" + url.QueryEscape(code) + "&appid=" + c.apiKey

	var raw zipEntry
	if err := fetch.Get(ctx, c.client, endpoint, &raw); err != nil {
		// The zip endpoint signals an unknown code with a 404.
		var se *fetch.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("postal code %q: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("postal lookup %q: %w", code, err)
	}
	if raw.Name == "" && raw.Lat == 0 && raw.Lon == 0 {
		return nil, fmt.Errorf("postal code %q: %w", code, ErrNotFound)
	}

	return &Location{
		Name:    raw.Name,
		Country: raw.Country,
		Lat:     raw.Lat,
		Lon:     raw.Lon,
	}, nil
}

// Reverse maps coordinates back to the nearest named place.
// Returns nil, nil when the provider has no place for the coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	endpoint := fmt.Sprintf("%s?lat=%f&lon=%f&limit=1&appid=%s",
		c.reverseURL, lat, lon, c.apiKey)

	var raw []directEntry
	if err := fetch.Get(ctx, c.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("reverse geocoding %f,%f: %w", lat, lon, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	return &Location{
		Name:    raw[0].Name,
		Country: raw[0].Country,
		State:   raw[0].State,
		Lat:     raw[0].Lat,
		Lon:     raw[0].Lon,
	}, nil
}
