package sink

import (
	"errors"
	"fmt"
	"os"
	"time"

	pqgo "github.com/parquet-go/parquet-go"
	xtsource "github.com/xitongsys/parquet-go-source/local"
	xtparquet "github.com/xitongsys/parquet-go/parquet"
	xtwriter "github.com/xitongsys/parquet-go/writer"

	"github.com/luisaqm/calidad-aire/internal/models"
)

// ColumnarBackend is one engine able to write a batch as a parquet file.
type ColumnarBackend struct {
	Name  string
	Write func(path string, batch models.Batch) error
}

// DefaultBackends returns the columnar engines in preference order. The
// exporter walks the list and the first success wins; extending the policy
// means appending an entry here.
func DefaultBackends() []ColumnarBackend {
	return []ColumnarBackend{
		{Name: "parquet-go", Write: writeParquetGo},
		{Name: "xitongsys", Write: writeParquetXitongsys},
	}
}

func writeColumnar(path string, batch models.Batch, backends []ColumnarBackend) error {
	if len(backends) == 0 {
		return &SinkError{Op: "export columnar", Err: errors.New("no columnar backends configured")}
	}

	var attempts []error
	for _, backend := range backends {
		err := backend.Write(path, batch)
		if err == nil {
			return nil
		}
		attempts = append(attempts, fmt.Errorf("%s: %w", backend.Name, err))
	}
	return &SinkError{Op: "export columnar", Err: errors.Join(attempts...)}
}

// Timestamps are written as RFC3339 text so the parquet rows match the CSV
// rows exactly.
type parquetGoRow struct {
	City              string   `parquet:"city"`
	Country           string   `parquet:"country"`
	MeasuredAt        string   `parquet:"measured_at"`
	AQIUS             *int64   `parquet:"aqi_us,optional"`
	AQICN             *int64   `parquet:"aqi_cn,optional"`
	DominantPollutant string   `parquet:"dominant_pollutant"`
	TemperatureC      *float64 `parquet:"temperature_c,optional"`
	HumidityPct       *float64 `parquet:"humidity_pct,optional"`
	WindSpeedMPS      *float64 `parquet:"wind_speed_mps,optional"`
}

func writeParquetGo(path string, batch models.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := pqgo.NewGenericWriter[parquetGoRow](f)
	rows := make([]parquetGoRow, 0, len(batch))
	for _, rec := range batch {
		rows = append(rows, parquetGoRow{
			City:              rec.City,
			Country:           rec.Country,
			MeasuredAt:        rec.MeasuredAt.UTC().Format(time.RFC3339),
			AQIUS:             rec.AQIUS,
			AQICN:             rec.AQICN,
			DominantPollutant: rec.DominantPollutant,
			TemperatureC:      rec.TemperatureC,
			HumidityPct:       rec.HumidityPct,
			WindSpeedMPS:      rec.WindSpeedMPS,
		})
	}
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type xitongsysRow struct {
	City              string   `parquet:"name=city, type=BYTE_ARRAY, convertedtype=UTF8"`
	Country           string   `parquet:"name=country, type=BYTE_ARRAY, convertedtype=UTF8"`
	MeasuredAt        string   `parquet:"name=measured_at, type=BYTE_ARRAY, convertedtype=UTF8"`
	AQIUS             *int64   `parquet:"name=aqi_us, type=INT64, repetitiontype=OPTIONAL"`
	AQICN             *int64   `parquet:"name=aqi_cn, type=INT64, repetitiontype=OPTIONAL"`
	DominantPollutant string   `parquet:"name=dominant_pollutant, type=BYTE_ARRAY, convertedtype=UTF8"`
	TemperatureC      *float64 `parquet:"name=temperature_c, type=DOUBLE, repetitiontype=OPTIONAL"`
	HumidityPct       *float64 `parquet:"name=humidity_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	WindSpeedMPS      *float64 `parquet:"name=wind_speed_mps, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func writeParquetXitongsys(path string, batch models.Batch) error {
	fw, err := xtsource.NewLocalFileWriter(path)
	if err != nil {
		return err
	}

	pw, err := xtwriter.NewParquetWriter(fw, new(xitongsysRow), 1)
	if err != nil {
		fw.Close()
		return err
	}
	pw.CompressionType = xtparquet.CompressionCodec_SNAPPY

	for _, rec := range batch {
		row := xitongsysRow{
			City:              rec.City,
			Country:           rec.Country,
			MeasuredAt:        rec.MeasuredAt.UTC().Format(time.RFC3339),
			AQIUS:             rec.AQIUS,
			AQICN:             rec.AQICN,
			DominantPollutant: rec.DominantPollutant,
			TemperatureC:      rec.TemperatureC,
			HumidityPct:       rec.HumidityPct,
			WindSpeedMPS:      rec.WindSpeedMPS,
		}
		if err := pw.Write(row); err != nil {
			fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return err
	}
	return fw.Close()
}
