package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Response cache TTLs. Forecasts move slowly, current conditions less so.
const (
	currentTTL  = 10 * time.Minute
	forecastTTL = 30 * time.Minute
	hourlyTTL   = 10 * time.Minute
)

// provider is the interface satisfied by Client.
type provider interface {
	Current(ctx context.Context, q Query) (*Current, error)
	Forecast(ctx context.Context, q Query) (*Forecast, error)
	Hourly(ctx context.Context, q Query) (*Hourly, error)
}

// ResponseCache is a TTL'd JSON cache for provider responses. A nil cache
// disables caching entirely.
type ResponseCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Service wraps the provider client with response caching and concurrent
// aggregation of the independent weather views.
type Service struct {
	provider provider
	cache    ResponseCache
	log      *slog.Logger
}

// NewService constructs a Service. cache may be nil.
func NewService(p provider, cache ResponseCache, log *slog.Logger) *Service {
	return &Service{provider: p, cache: cache, log: log}
}

// cacheKey builds a deterministic key from sorted key=value pairs.
func cacheKey(prefix string, q Query) string {
	params := url.Values{}
	if q.Lat != nil && q.Lon != nil {
		params.Set("lat", fmt.Sprintf("%f", *q.Lat))
		params.Set("lon", fmt.Sprintf("%f", *q.Lon))
	} else {
		params.Set("q", strings.ToLower(strings.TrimSpace(q.City)))
	}
	pairs := make([]string, 0, len(params))
	for k := range params {
		pairs = append(pairs, k+"="+params.Get(k))
	}
	sort.Strings(pairs)
	return prefix + ":" + strings.Join(pairs, ":")
}

// Current returns current conditions, serving from cache when fresh.
func (s *Service) Current(ctx context.Context, q Query) (*Current, error) {
	key := cacheKey("current", q)

	if s.cache != nil {
		var cached Current
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("cache get failed", "key", key, "err", err)
		} else if ok {
			return &cached, nil
		}
	}

	cur, err := s.provider.Current(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, cur, currentTTL); err != nil {
			s.log.Warn("cache set failed", "key", key, "err", err)
		}
	}
	return cur, nil
}

// Forecast returns the chronological forecast, serving from cache when fresh.
func (s *Service) Forecast(ctx context.Context, q Query) (*Forecast, error) {
	key := cacheKey("forecast", q)

	if s.cache != nil {
		var cached Forecast
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("cache get failed", "key", key, "err", err)
		} else if ok {
			return &cached, nil
		}
	}

	fc, err := s.provider.Forecast(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, fc, forecastTTL); err != nil {
			s.log.Warn("cache set failed", "key", key, "err", err)
		}
	}
	return fc, nil
}

// Hourly returns the next-5-hours view, serving from cache when fresh.
func (s *Service) Hourly(ctx context.Context, q Query) (*Hourly, error) {
	key := cacheKey("hourly", q)

	if s.cache != nil {
		var cached Hourly
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
			s.log.Warn("cache get failed", "key", key, "err", err)
		} else if ok {
			return &cached, nil
		}
	}

	h, err := s.provider.Hourly(ctx, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, h, hourlyTTL); err != nil {
			s.log.Warn("cache set failed", "key", key, "err", err)
		}
	}
	return h, nil
}

// SnapshotOptions selects which views Snapshot fetches alongside current
// conditions.
type SnapshotOptions struct {
	IncludeForecast bool
	IncludeHourly   bool
}

// Snapshot is the aggregated weather bundle for one location.
type Snapshot struct {
	Current  *Current       `json:"current_weather"`
	Forecast []ForecastItem `json:"daily_forecast,omitempty"`
	Hourly   []HourlySlot   `json:"hourly_forecast,omitempty"`
	Tip      string         `json:"weather_tip,omitempty"`
}

// Snapshot fetches the selected views concurrently. Forecast and hourly
// failures are isolated: they are logged and leave their fields empty, so a
// bare postal code with no forecast coverage still renders current
// conditions. Only a current-conditions failure fails the whole call.
func (s *Service) Snapshot(ctx context.Context, q Query, opts SnapshotOptions) (*Snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var (
		cur      *Current
		curErr   error
		forecast *Forecast
		hourly   *Hourly
	)

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("current fetch panicked", "recover", r)
				err = fmt.Errorf("current fetch panicked: %v", r)
			}
		}()
		cur, curErr = s.Current(gCtx, q)
		return nil
	})

	if opts.IncludeForecast {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("forecast fetch panicked", "recover", r)
					err = fmt.Errorf("forecast fetch panicked: %v", r)
				}
			}()
			fc, fetchErr := s.Forecast(gCtx, q)
			if fetchErr != nil {
				s.log.Warn("forecast fetch failed", "err", fetchErr)
				return nil
			}
			forecast = fc
			return nil
		})
	}

	if opts.IncludeHourly {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("hourly fetch panicked", "recover", r)
					err = fmt.Errorf("hourly fetch panicked: %v", r)
				}
			}()
			h, fetchErr := s.Hourly(gCtx, q)
			if fetchErr != nil {
				s.log.Warn("hourly fetch failed", "err", fetchErr)
				return nil
			}
			hourly = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if curErr != nil {
		return nil, curErr
	}

	snap := &Snapshot{Current: cur, Tip: Tip(cur.Condition)}
	if forecast != nil {
		snap.Forecast = DailySummary(forecast.Items)
	}
	if hourly != nil {
		snap.Hourly = hourly.Slots
	}
	return snap, nil
}

// DailySummary groups chronological forecast items by calendar date and
// keeps the first slot of each date. Input order is preserved, so the result
// is date-ascending whenever the input is chronological.
func DailySummary(items []ForecastItem) []ForecastItem {
	seen := make(map[string]bool, len(items))
	out := make([]ForecastItem, 0, len(items))
	for _, it := range items {
		if seen[it.Date] {
			continue
		}
		seen[it.Date] = true
		out = append(out, it)
	}
	return out
}
