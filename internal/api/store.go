package api

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store wraps read access to the measurement table.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL, table string) (*Store, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Measurement is one persisted row, shaped for JSON responses.
type Measurement struct {
	City              string    `json:"city"`
	Country           string    `json:"country"`
	MeasuredAt        time.Time `json:"measured_at"`
	AQIUS             *int64    `json:"aqi_us"`
	AQICN             *int64    `json:"aqi_cn"`
	DominantPollutant *string   `json:"dominant_pollutant,omitempty"`
	TemperatureC      *float64  `json:"temperature_c"`
	HumidityPct       *float64  `json:"humidity_pct"`
	WindSpeedMPS      *float64  `json:"wind_speed_mps"`
}

const recentSQL = `
    SELECT city, country, measured_at, aqi_us, aqi_cn, dominant_pollutant, temperature_c, humidity_pct, wind_speed_mps
    FROM %s
    ORDER BY measured_at DESC
    LIMIT $1
`

// Recent returns up to limit rows, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Measurement, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(recentSQL, s.table), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]Measurement, 0, limit)
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.City,
			&m.Country,
			&m.MeasuredAt,
			&m.AQIUS,
			&m.AQICN,
			&m.DominantPollutant,
			&m.TemperatureC,
			&m.HumidityPct,
			&m.WindSpeedMPS,
		); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

// Latest returns the newest row, or nil when the table is empty.
func (s *Store) Latest(ctx context.Context) (*Measurement, error) {
	measurements, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return nil, nil
	}
	return &measurements[0], nil
}
