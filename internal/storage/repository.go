package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("weather record not found")

// WeatherRecord is a persisted historical weather snapshot.
type WeatherRecord struct {
	ID            int64     `json:"id"`
	Location      string    `json:"location"`
	WeatherDate   time.Time `json:"weather_date"`
	TempC         float64   `json:"temp_c"`
	TempF         float64   `json:"temp_f"`
	Condition     string    `json:"condition"`
	ConditionDesc *string   `json:"condition_desc,omitempty"`
	Humidity      *int      `json:"humidity,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	Icon          *string   `json:"icon,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateRecordParams carries the fields for a new history row.
type CreateRecordParams struct {
	Location      string
	WeatherDate   time.Time
	TempC         float64
	TempF         float64
	Condition     string
	ConditionDesc *string
	Humidity      *int
	WindSpeed     *float64
	Icon          *string
}

// UpdateRecordParams carries partial field changes; nil fields are left
// untouched.
type UpdateRecordParams struct {
	Location      *string
	WeatherDate   *time.Time
	TempC         *float64
	TempF         *float64
	Condition     *string
	ConditionDesc *string
	Humidity      *int
	WindSpeed     *float64
	Icon          *string
}

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for weather history records.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

const recordColumns = `id, location, weather_date, temp_c, temp_f, condition,
	condition_desc, humidity, wind_speed, icon, created_at`

func scanRecord(row pgx.Row, rec *WeatherRecord) error {
	return row.Scan(
		&rec.ID,
		&rec.Location,
		&rec.WeatherDate,
		&rec.TempC,
		&rec.TempF,
		&rec.Condition,
		&rec.ConditionDesc,
		&rec.Humidity,
		&rec.WindSpeed,
		&rec.Icon,
		&rec.CreatedAt,
	)
}

// CreateRecord appends a new history row and returns it with the generated
// id and created_at.
func (r *Repository) CreateRecord(ctx context.Context, p CreateRecordParams) (*WeatherRecord, error) {
	const q = `
		INSERT INTO weather_history
			(location, weather_date, temp_c, temp_f, condition,
			 condition_desc, humidity, wind_speed, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + recordColumns

	var rec WeatherRecord
	row := r.q.QueryRow(ctx, q,
		p.Location, p.WeatherDate, p.TempC, p.TempF, p.Condition,
		p.ConditionDesc, p.Humidity, p.WindSpeed, p.Icon)
	if err := scanRecord(row, &rec); err != nil {
		return nil, fmt.Errorf("inserting weather record: %w", err)
	}
	return &rec, nil
}

// GetRecord retrieves a history row by id.
func (r *Repository) GetRecord(ctx context.Context, id int64) (*WeatherRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM weather_history WHERE id = $1`

	var rec WeatherRecord
	if err := scanRecord(r.q.QueryRow(ctx, q, id), &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying weather record %d: %w", id, err)
	}
	return &rec, nil
}

// ListByLocation returns all rows for a location whose date falls inside the
// inclusive start/end window, ordered by date ascending. Nil bounds are open.
func (r *Repository) ListByLocation(ctx context.Context, location string, start, end *time.Time) ([]WeatherRecord, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM weather_history
		WHERE location = $1
		AND ($2::timestamptz IS NULL OR weather_date >= $2)
		AND ($3::timestamptz IS NULL OR weather_date <= $3)
		ORDER BY weather_date ASC`

	rows, err := r.q.Query(ctx, q, location, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying weather history for %s: %w", location, err)
	}
	defer rows.Close()

	var records []WeatherRecord
	for rows.Next() {
		var rec WeatherRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("scanning weather record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weather records: %w", err)
	}

	return records, nil
}

// UpdateRecord applies partial field changes by id.
// Returns ErrNotFound when the id is absent; no row is changed in that case.
func (r *Repository) UpdateRecord(ctx context.Context, id int64, p UpdateRecordParams) (*WeatherRecord, error) {
	const q = `
		UPDATE weather_history SET
			location       = COALESCE($2, location),
			weather_date   = COALESCE($3, weather_date),
			temp_c         = COALESCE($4, temp_c),
			temp_f         = COALESCE($5, temp_f),
			condition      = COALESCE($6, condition),
			condition_desc = COALESCE($7, condition_desc),
			humidity       = COALESCE($8, humidity),
			wind_speed     = COALESCE($9, wind_speed),
			icon           = COALESCE($10, icon)
		WHERE id = $1
		RETURNING ` + recordColumns

	var rec WeatherRecord
	row := r.q.QueryRow(ctx, q, id,
		p.Location, p.WeatherDate, p.TempC, p.TempF, p.Condition,
		p.ConditionDesc, p.Humidity, p.WindSpeed, p.Icon)
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating weather record %d: %w", id, err)
	}
	return &rec, nil
}

// DeleteRecord removes a history row by id.
// Returns ErrNotFound when the id is absent.
func (r *Repository) DeleteRecord(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM weather_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting weather record %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
