package sink_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luisaqm/calidad-aire/internal/models"
	"github.com/luisaqm/calidad-aire/internal/sink"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleRecord() models.MeasurementRecord {
	aqiUS := int64(55)
	aqiCN := int64(20)
	temp := 21.0
	hum := 40.0
	wind := 3.2
	return models.MeasurementRecord{
		City:              "CDMX",
		Country:           "Mexico",
		MeasuredAt:        fixedNow,
		AQIUS:             &aqiUS,
		AQICN:             &aqiCN,
		DominantPollutant: "p2",
		TemperatureC:      &temp,
		HumidityPct:       &hum,
		WindSpeedMPS:      &wind,
	}
}

func markerBackend(name string) sink.ColumnarBackend {
	return sink.ColumnarBackend{
		Name: name,
		Write: func(path string, batch models.Batch) error {
			return os.WriteFile(path, []byte(name), 0o644)
		},
	}
}

func failingBackend(name string) sink.ColumnarBackend {
	return sink.ColumnarBackend{
		Name: name,
		Write: func(path string, batch models.Batch) error {
			return errors.New(name + " unavailable")
		},
	}
}

func newExporter(t *testing.T, backends ...sink.ColumnarBackend) *sink.Exporter {
	t.Helper()
	e := sink.NewExporter(filepath.Join(t.TempDir(), "processed"), "calidad_aire")
	e.Now = func() time.Time { return fixedNow }
	if len(backends) > 0 {
		e.Backends = backends
	}
	return e
}

func TestExportFileNaming(t *testing.T) {
	e := newExporter(t, markerBackend("fake"))

	paths, err := e.Export(models.Batch{sampleRecord()})
	require.NoError(t, err)
	require.Equal(t, "calidad_aire_20240301_120000.csv", filepath.Base(paths.CSV))
	require.Equal(t, "calidad_aire_20240301_120000.parquet", filepath.Base(paths.Columnar))
}

func TestExportCSVContent(t *testing.T) {
	e := newExporter(t, markerBackend("fake"))

	paths, err := e.Export(models.Batch{sampleRecord()})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.CSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(models.Columns, ","), lines[0])
	require.Equal(t, "CDMX,Mexico,2024-03-01T12:00:00Z,55,20,p2,21,40,3.2", lines[1])
}

func TestExportEmptyBatchWritesHeaderOnlyFiles(t *testing.T) {
	e := newExporter(t, markerBackend("fake"))

	paths, err := e.Export(models.Batch{})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.CSV)
	require.NoError(t, err)
	require.Equal(t, strings.Join(models.Columns, ",")+"\n", string(data))

	_, err = os.Stat(paths.Columnar)
	require.NoError(t, err)
}

func TestExportNilReadingsBecomeEmptyCells(t *testing.T) {
	rec := sampleRecord()
	rec.AQICN = nil
	rec.WindSpeedMPS = nil

	e := newExporter(t, markerBackend("fake"))
	paths, err := e.Export(models.Batch{rec})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.CSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "CDMX,Mexico,2024-03-01T12:00:00Z,55,,p2,21,40,", lines[1])
}

func TestExportColumnarFallback(t *testing.T) {
	e := newExporter(t, failingBackend("primary"), markerBackend("secondary"))

	paths, err := e.Export(models.Batch{sampleRecord()})
	require.NoError(t, err)

	data, err := os.ReadFile(paths.Columnar)
	require.NoError(t, err)
	require.Equal(t, "secondary", string(data))
}

func TestExportAllBackendsFail(t *testing.T) {
	e := newExporter(t, failingBackend("primary"), failingBackend("secondary"))

	_, err := e.Export(models.Batch{sampleRecord()})
	var serr *sink.SinkError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.Error(), "primary")
	require.Contains(t, serr.Error(), "secondary")
}

func TestExportDefaultBackendsWriteParquet(t *testing.T) {
	e := newExporter(t)

	paths, err := e.Export(models.Batch{sampleRecord()})
	require.NoError(t, err)

	info, err := os.Stat(paths.Columnar)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}
