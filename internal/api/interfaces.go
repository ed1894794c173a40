package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nabinkim0318/weather-dashboard/internal/geo"
	"github.com/nabinkim0318/weather-dashboard/internal/integrations"
	"github.com/nabinkim0318/weather-dashboard/internal/storage"
	"github.com/nabinkim0318/weather-dashboard/internal/weather"
)

// LocationResolver defines the location operations needed by handlers.
type LocationResolver interface {
	Resolve(ctx context.Context, input string) (*geo.Location, error)
	Search(ctx context.Context, query string, limit int) ([]geo.Location, error)
}

// WeatherService defines the live-weather operations needed by handlers.
type WeatherService interface {
	Current(ctx context.Context, q weather.Query) (*weather.Current, error)
	Forecast(ctx context.Context, q weather.Query) (*weather.Forecast, error)
	Hourly(ctx context.Context, q weather.Query) (*weather.Hourly, error)
	Snapshot(ctx context.Context, q weather.Query, opts weather.SnapshotOptions) (*weather.Snapshot, error)
}

// HistoryRepo defines the persistence operations needed by handlers.
type HistoryRepo interface {
	CreateRecord(ctx context.Context, p storage.CreateRecordParams) (*storage.WeatherRecord, error)
	GetRecord(ctx context.Context, id int64) (*storage.WeatherRecord, error)
	ListByLocation(ctx context.Context, location string, start, end *time.Time) ([]storage.WeatherRecord, error)
	UpdateRecord(ctx context.Context, id int64, p storage.UpdateRecordParams) (*storage.WeatherRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// IntegrationsService defines the video/map proxy operations needed by handlers.
type IntegrationsService interface {
	Videos(ctx context.Context, city string) (json.RawMessage, error)
	Map(ctx context.Context, req integrations.MapRequest) (json.RawMessage, error)
}
