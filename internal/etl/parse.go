package etl

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/luisaqm/calidad-aire/internal/models"
)

// RawPayload is the untyped nested document returned by the AirVisual
// city endpoint. It is only held for the duration of one parse call.
type RawPayload = map[string]any

// CanonicalCity is the label every known Mexico City alias maps to.
const CanonicalCity = "CDMX"

var cityAliases = map[string]struct{}{
	"cdmx":             {},
	"mexico city":      {},
	"ciudad de mexico": {},
	"ciudad de méxico": {},
}

// CanonicalizeCity maps known aliases of Mexico City to "CDMX". Any other
// name passes through unchanged. Idempotent.
func CanonicalizeCity(name string) string {
	if _, ok := cityAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return CanonicalCity
	}
	return name
}

// LoadRaw reads and decodes one raw JSON snapshot from disk. This is the
// parser's only I/O boundary; Parse itself works on in-memory payloads.
func LoadRaw(path string) (RawPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, err
	}

	var payload RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return payload, nil
}

// Parse converts one raw payload into a batch holding exactly one record.
// Every key on the fixed path must be present; an absent key fails with a
// SchemaError naming it. Values present as null become nil readings (or
// empty strings) and flow on to validation. Pollution and weather values
// are copied verbatim, no unit conversion.
func Parse(raw RawPayload) (models.Batch, error) {
	data, err := childMap(raw, "data")
	if err != nil {
		return nil, err
	}

	city, err := stringField(data, "city")
	if err != nil {
		return nil, err
	}
	country, err := stringField(data, "country")
	if err != nil {
		return nil, err
	}

	current, err := childMap(data, "current")
	if err != nil {
		return nil, err
	}
	pollution, err := childMap(current, "pollution")
	if err != nil {
		return nil, err
	}
	weather, err := childMap(current, "weather")
	if err != nil {
		return nil, err
	}

	ts, err := stringField(pollution, "ts")
	if err != nil {
		return nil, err
	}
	measuredAt, err := parseTimestamp(ts)
	if err != nil {
		return nil, err
	}

	aqiUS, err := intField(pollution, "aqius")
	if err != nil {
		return nil, err
	}
	aqiCN, err := intField(pollution, "aqicn")
	if err != nil {
		return nil, err
	}
	mainUS, err := stringField(pollution, "mainus")
	if err != nil {
		return nil, err
	}

	temp, err := floatField(weather, "tp")
	if err != nil {
		return nil, err
	}
	humidity, err := floatField(weather, "hu")
	if err != nil {
		return nil, err
	}
	wind, err := floatField(weather, "ws")
	if err != nil {
		return nil, err
	}

	rec := models.MeasurementRecord{
		City:              CanonicalizeCity(city),
		Country:           country,
		MeasuredAt:        measuredAt,
		AQIUS:             aqiUS,
		AQICN:             aqiCN,
		DominantPollutant: mainUS,
		TemperatureC:      temp,
		HumidityPct:       humidity,
		WindSpeedMPS:      wind,
	}
	return models.Batch{rec}, nil
}

// Offset-less timestamps are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &SchemaError{Key: "ts"}
}

func childMap(m map[string]any, key string) (map[string]any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &SchemaError{Key: key}
	}
	child, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaError{Key: key}
	}
	return child, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &SchemaError{Key: key}
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaError{Key: key}
	}
	return s, nil
}

func floatField(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok {
		return nil, &SchemaError{Key: key}
	}
	if v == nil {
		return nil, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, &SchemaError{Key: key}
	}
	return &f, nil
}

func intField(m map[string]any, key string) (*int64, error) {
	f, err := floatField(m, key)
	if err != nil || f == nil {
		return nil, err
	}
	i := int64(*f)
	return &i, nil
}
