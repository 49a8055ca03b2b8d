package etl

import "github.com/luisaqm/calidad-aire/internal/models"

// Validate cleans a batch before it may reach the sink. Records sharing a
// (measured_at, city) key are collapsed to the first in input order, which
// keeps the result deterministic regardless of where the batch came from.
// A surviving record with a null AQI (US) or temperature fails the whole
// batch with a ValidationError naming the offending fields. An empty batch
// is valid and passes through. The input is never mutated.
func Validate(batch models.Batch) (models.Batch, error) {
	if len(batch) == 0 {
		return batch, nil
	}

	seen := make(map[models.Key]struct{}, len(batch))
	clean := make(models.Batch, 0, len(batch))
	for _, rec := range batch {
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, rec)
	}

	var missing []string
	for _, rec := range clean {
		if rec.AQIUS == nil {
			missing = append(missing, "aqi_us")
		}
		if rec.TemperatureC == nil {
			missing = append(missing, "temperature_c")
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	return clean, nil
}
