package integrations

import (
	"fmt"
)

const mapEmbedBase = "https://www.google.com/maps/embed/v1/view"

// MapEmbed is the map response handed to the front end.
type MapEmbed struct {
	EmbedURL string `json:"embed_url"`
}

// MapClient builds Google Maps embed URLs for coordinates.
type MapClient struct {
	apiKey string
}

// NewMapClient constructs a MapClient with the given API key.
func NewMapClient(apiKey string) *MapClient {
	return &MapClient{apiKey: apiKey}
}

// Embed returns the embed URL for the given view.
func (c *MapClient) Embed(lat, lon float64, zoom int) (*MapEmbed, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("maps: %w", ErrNotConfigured)
	}
	if zoom < 1 || zoom > 20 {
		zoom = 12
	}
	return &MapEmbed{
		EmbedURL: fmt.Sprintf("%s?key=%s&center=%f,%f&zoom=%d", mapEmbedBase, c.apiKey, lat, lon, zoom),
	}, nil
}
