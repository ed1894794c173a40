package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
)

// placeResolver is the slice of the location resolver the map endpoint needs.
// Map requests addressed by place name go through the same geocoding
// dependency as every other lookup.
type placeResolver interface {
	Resolve(ctx context.Context, input string) (*geo.Location, error)
}

// videoSearcher is the interface satisfied by YouTubeClient.
type videoSearcher interface {
	FetchAll(ctx context.Context, city string) ([]Video, error)
}

// Service fronts the video and map providers with process-lifetime
// memoization. Cached payloads are returned byte-identical, so repeated
// requests with the same normalized parameters never hit the provider twice.
type Service struct {
	videos   videoSearcher
	maps     *MapClient
	resolver placeResolver
	memo     *Memo
	log      *slog.Logger
}

// NewService wires the integration dependencies together.
func NewService(videos videoSearcher, maps *MapClient, resolver placeResolver, memo *Memo, log *slog.Logger) *Service {
	return &Service{videos: videos, maps: maps, resolver: resolver, memo: memo, log: log}
}

// Videos returns the categorized video list for a city as raw JSON.
func (s *Service) Videos(ctx context.Context, city string) (json.RawMessage, error) {
	key := memoKey("youtube", map[string]string{"city": city})
	if b, ok := s.memo.Get(key); ok {
		return b, nil
	}

	videos, err := s.videos.FetchAll(ctx, city)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(videos)
	if err != nil {
		return nil, fmt.Errorf("marshaling videos for %s: %w", city, err)
	}

	s.memo.Set(key, b)
	return b, nil
}

// MapRequest addresses a map view by explicit coordinates or a place name.
type MapRequest struct {
	City string
	Lat  *float64
	Lon  *float64
	Zoom int
}

// Map returns the embed payload for the requested view as raw JSON.
// Place names geocode through the shared resolver before the URL is built.
func (s *Service) Map(ctx context.Context, req MapRequest) (json.RawMessage, error) {
	lat, lon := 0.0, 0.0
	switch {
	case req.Lat != nil && req.Lon != nil:
		lat, lon = *req.Lat, *req.Lon
	case req.City != "":
		loc, err := s.resolver.Resolve(ctx, req.City)
		if err != nil {
			return nil, err
		}
		lat, lon = loc.Lat, loc.Lon
	default:
		return nil, fmt.Errorf("%w: provide lat/lon or city", geo.ErrBadInput)
	}

	if req.Zoom == 0 {
		req.Zoom = 12
	}

	key := memoKey("map", map[string]string{
		"lat":  fmt.Sprintf("%f", lat),
		"lon":  fmt.Sprintf("%f", lon),
		"zoom": fmt.Sprintf("%d", req.Zoom),
	})
	if b, ok := s.memo.Get(key); ok {
		return b, nil
	}

	embed, err := s.maps.Embed(lat, lon, req.Zoom)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(embed)
	if err != nil {
		return nil, fmt.Errorf("marshaling map embed: %w", err)
	}

	s.memo.Set(key, b)
	return b, nil
}
