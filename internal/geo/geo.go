// Package geo resolves free-form user input (coordinates, postal codes,
// place names) into canonical locations via the OpenWeather Geocoding API.
package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotFound is returned when the geocoding provider has no match for the
// input. It is a client-class error: the caller supplied an unresolvable
// location, the provider itself is healthy.
var ErrNotFound = errors.New("location not found")

// ErrBadInput is returned for input the resolver cannot interpret at all.
var ErrBadInput = errors.New("invalid location input")

// Kind classifies the shape of a raw location query.
type Kind int

const (
	KindPlace Kind = iota
	KindCoords
	KindPostal
)

var (
	coordsRe = regexp.MustCompile(`^-?\d+(\.\d+)?\s*,\s*-?\d+(\.\d+)?$`)
	postalRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// DetectInput classifies user input as coordinates, a postal code, or a
// free-text place name.
func DetectInput(s string) Kind {
	s = strings.TrimSpace(s)
	switch {
	case coordsRe.MatchString(s):
		return KindCoords
	case postalRe.MatchString(s):
		return KindPostal
	default:
		return KindPlace
	}
}

// Location is a place reduced to canonical name plus coordinates, ready for
// provider calls.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ParseCoords parses a strict "lat,lon" pair.
func ParseCoords(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected lat,lon pair", ErrBadInput)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", ErrBadInput, parts[0])
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", ErrBadInput, parts[1])
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("%w: coordinates out of range", ErrBadInput)
	}

	return lat, lon, nil
}
