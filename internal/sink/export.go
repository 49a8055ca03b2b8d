package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/luisaqm/calidad-aire/internal/models"
)

const stampLayout = "20060102_150405"

// ExportPaths locates the files written by one export.
type ExportPaths struct {
	CSV      string
	Columnar string
}

// Exporter mirrors a batch into timestamped snapshot files: a row-oriented
// CSV and a columnar parquet file with identical row content and column
// order. An empty batch still produces both files so a run that found
// nothing stays traceable.
type Exporter struct {
	Dir      string
	Prefix   string
	Backends []ColumnarBackend
	Now      func() time.Time
}

// NewExporter builds an exporter with the default columnar backend order.
func NewExporter(dir, prefix string) *Exporter {
	return &Exporter{
		Dir:      dir,
		Prefix:   prefix,
		Backends: DefaultBackends(),
		Now:      time.Now,
	}
}

// Export writes the batch to {prefix}_{YYYYMMDD_HHMMSS}.{csv,parquet}
// inside Dir, creating the directory as needed. Snapshot names carry
// second granularity, so two runs inside the same second would collide;
// the scheduler owns that spacing.
func (e *Exporter) Export(batch models.Batch) (ExportPaths, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return ExportPaths{}, &SinkError{Op: "export", Err: err}
	}

	stamp := e.Now().UTC().Format(stampLayout)
	paths := ExportPaths{
		CSV:      filepath.Join(e.Dir, fmt.Sprintf("%s_%s.csv", e.Prefix, stamp)),
		Columnar: filepath.Join(e.Dir, fmt.Sprintf("%s_%s.parquet", e.Prefix, stamp)),
	}

	if err := writeCSV(paths.CSV, batch); err != nil {
		return ExportPaths{}, &SinkError{Op: "export csv", Err: err}
	}
	if err := writeColumnar(paths.Columnar, batch, e.Backends); err != nil {
		return ExportPaths{}, err
	}
	return paths, nil
}

func writeCSV(path string, batch models.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		f.Close()
		return err
	}
	for _, rec := range batch {
		if err := w.Write(csvRow(rec)); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func csvRow(rec models.MeasurementRecord) []string {
	return []string{
		rec.City,
		rec.Country,
		rec.MeasuredAt.UTC().Format(time.RFC3339),
		formatInt(rec.AQIUS),
		formatInt(rec.AQICN),
		rec.DominantPollutant,
		formatFloat(rec.TemperatureC),
		formatFloat(rec.HumidityPct),
		formatFloat(rec.WindSpeedMPS),
	}
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
