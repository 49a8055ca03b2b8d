package models

import "time"

// Columns is the column order shared by the calidad_aire table and both
// snapshot formats.
var Columns = []string{
	"city",
	"country",
	"measured_at",
	"aqi_us",
	"aqi_cn",
	"dominant_pollutant",
	"temperature_c",
	"humidity_pct",
	"wind_speed_mps",
}

// MeasurementRecord is one normalized air-quality and weather reading.
// Pointer fields carry readings the payload reported as null; whether a
// nil reading is acceptable is the validator's decision, not the parser's.
// Records are never mutated after construction.
type MeasurementRecord struct {
	City              string
	Country           string
	MeasuredAt        time.Time
	AQIUS             *int64
	AQICN             *int64
	DominantPollutant string
	TemperatureC      *float64
	HumidityPct       *float64
	WindSpeedMPS      *float64
}

// Key is the natural key a record is deduplicated on.
type Key struct {
	MeasuredAt int64
	City       string
}

// Key returns the (measured_at, city) identity of the record.
func (r MeasurementRecord) Key() Key {
	return Key{MeasuredAt: r.MeasuredAt.UTC().UnixNano(), City: r.City}
}

// Batch is an ordered collection of records produced by one parse and
// validate pass. In practice it holds zero or one record, but every
// consumer handles arbitrary sizes.
type Batch []MeasurementRecord
