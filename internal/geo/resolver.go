package geo

import (
	"context"
	"fmt"
)

// geocoder is the interface satisfied by Client.
type geocoder interface {
	Direct(ctx context.Context, query string, limit int) ([]Location, error)
	Zip(ctx context.Context, code, defaultCountry string) (*Location, error)
	Reverse(ctx context.Context, lat, lon float64) (*Location, error)
}

// Resolver turns one free-form string into a canonical location.
// Coordinate pairs short-circuit without any network call; postal codes go
// through the zip endpoint; everything else is a fuzzy place search.
type Resolver struct {
	geo            geocoder
	defaultCountry string
}

// NewResolver constructs a Resolver backed by the given geocoding client.
func NewResolver(geo geocoder, defaultCountry string) *Resolver {
	return &Resolver{geo: geo, defaultCountry: defaultCountry}
}

// Resolve maps raw input to a resolved location.
func (r *Resolver) Resolve(ctx context.Context, input string) (*Location, error) {
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", ErrBadInput)
	}

	switch DetectInput(input) {
	case KindCoords:
		lat, lon, err := ParseCoords(input)
		if err != nil {
			return nil, err
		}
		return &Location{Lat: lat, Lon: lon}, nil

	case KindPostal:
		return r.geo.Zip(ctx, input, r.defaultCountry)

	default:
		locs, err := r.geo.Direct(ctx, input, 1)
		if err != nil {
			return nil, err
		}
		return &locs[0], nil
	}
}

// Search returns up to limit candidate locations for autocomplete without
// committing to one.
func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]Location, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrBadInput)
	}
	if limit < 1 || limit > 10 {
		limit = 5
	}
	return r.geo.Direct(ctx, query, limit)
}

// ReverseLookup names the place at the given coordinates.
func (r *Resolver) ReverseLookup(ctx context.Context, lat, lon float64) (*Location, error) {
	return r.geo.Reverse(ctx, lat, lon)
}
