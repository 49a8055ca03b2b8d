package sink

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luisaqm/calidad-aire/internal/models"
)

// Table names reach the SQL text directly (identifiers cannot be bound),
// so they are checked first.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const createTableSQL = `CREATE TABLE IF NOT EXISTS %s (
    city text NOT NULL,
    country text NOT NULL,
    measured_at timestamptz NOT NULL,
    aqi_us bigint,
    aqi_cn bigint,
    dominant_pollutant text,
    temperature_c double precision,
    humidity_pct double precision,
    wind_speed_mps double precision
)`

const insertSQL = `INSERT INTO %s
    (city, country, measured_at, aqi_us, aqi_cn, dominant_pollutant, temperature_c, humidity_pct, wind_speed_mps)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

// Store adapts a pgx pool to the pipeline's append contract.
type Store struct {
	Pool *pgxpool.Pool
}

// Append inserts the batch into table through the underlying pool.
func (s *Store) Append(ctx context.Context, batch models.Batch, table string) (int, error) {
	return Append(ctx, s.Pool, batch, table)
}

// EnsureTable creates the measurement table when it does not exist yet.
func EnsureTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !identifierPattern.MatchString(table) {
		return &SinkError{Op: "ensure table", Err: fmt.Errorf("invalid table name %q", table)}
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf(createTableSQL, table)); err != nil {
		return &SinkError{Op: "ensure table", Err: err}
	}
	return nil
}

// Append inserts every record of the batch as a new row in table. Rows are
// only ever added, never updated or deleted. An empty batch is a no-op
// returning 0. Write failures surface as a SinkError carrying the cause.
func Append(ctx context.Context, pool *pgxpool.Pool, batch models.Batch, table string) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	if !identifierPattern.MatchString(table) {
		return 0, &SinkError{Op: "append", Err: fmt.Errorf("invalid table name %q", table)}
	}

	query := fmt.Sprintf(insertSQL, table)
	b := &pgx.Batch{}
	for _, rec := range batch {
		b.Queue(query,
			rec.City,
			rec.Country,
			rec.MeasuredAt,
			rec.AQIUS,
			rec.AQICN,
			rec.DominantPollutant,
			rec.TemperatureC,
			rec.HumidityPct,
			rec.WindSpeedMPS,
		)
	}

	res := pool.SendBatch(ctx, b)
	defer res.Close()

	for range batch {
		if _, err := res.Exec(); err != nil {
			return 0, &SinkError{Op: "append", Err: err}
		}
	}
	return len(batch), nil
}
