package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/luisaqm/calidad-aire/internal/etl"
	"github.com/luisaqm/calidad-aire/internal/models"
	"github.com/luisaqm/calidad-aire/internal/sink"
)

// Stage identifies how far a run progressed before it finished.
type Stage string

const (
	StageFetched   Stage = "fetched"
	StageParsed    Stage = "parsed"
	StageValidated Stage = "validated"
	StageSunk      Stage = "sunk"
)

// Outcome is the terminal result of one run. Absence of data and invalid
// data end the run cleanly; only sink failures surface as errors.
type Outcome string

const (
	OutcomeLoaded         Outcome = "loaded"
	OutcomeSkippedNoData  Outcome = "skipped_no_data"
	OutcomeSkippedInvalid Outcome = "skipped_invalid"
)

// Fetcher produces the path of a freshly written raw JSON document, or
// ok=false when upstream had no valid data this run.
type Fetcher interface {
	Fetch(ctx context.Context) (path string, ok bool, err error)
}

// Store appends validated records to the persistent table.
type Store interface {
	Append(ctx context.Context, batch models.Batch, table string) (int, error)
}

// Exporter mirrors a batch into snapshot files.
type Exporter interface {
	Export(batch models.Batch) (sink.ExportPaths, error)
}

// Result describes one finished run.
type Result struct {
	Stage    Stage
	Outcome  Outcome
	Appended int
	Paths    sink.ExportPaths
}

// Pipeline sequences Fetch -> Parse -> Validate -> Sink for one run,
// short-circuiting as soon as a stage yields nothing. It never retries; a
// scheduler outside this process re-invokes the whole sequence on the next
// interval, and no state is carried between runs beyond the table and the
// snapshot files.
type Pipeline struct {
	Fetcher  Fetcher
	Store    Store
	Exporter Exporter
	Table    string
	DryRun   bool
	Log      *slog.Logger
}

// Run executes one fetch-parse-validate-sink pass.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res := Result{Outcome: OutcomeSkippedNoData}

	path, ok, err := p.Fetcher.Fetch(ctx)
	if err != nil {
		return res, err
	}
	res.Stage = StageFetched
	if !ok {
		p.Log.Info("no valid data from upstream, skipping run")
		return res, nil
	}

	batch, err := p.parse(path)
	if err != nil {
		return res, err
	}
	res.Stage = StageParsed
	if len(batch) == 0 {
		return res, nil
	}

	clean, err := etl.Validate(batch)
	if err != nil {
		var verr *etl.ValidationError
		if errors.As(err, &verr) {
			p.Log.Error("validation failed, skipping load", "fields", verr.Fields)
			res.Outcome = OutcomeSkippedInvalid
			return res, nil
		}
		return res, err
	}
	res.Stage = StageValidated
	if len(clean) == 0 {
		return res, nil
	}

	if p.DryRun {
		p.Log.Info("dry-run: skipping append and export", "records", len(clean))
		res.Stage = StageSunk
		res.Outcome = OutcomeLoaded
		return res, nil
	}

	appended, err := p.Store.Append(ctx, clean, p.Table)
	if err != nil {
		return res, err
	}
	res.Appended = appended

	paths, err := p.Exporter.Export(clean)
	if err != nil {
		return res, err
	}
	res.Paths = paths
	res.Stage = StageSunk
	res.Outcome = OutcomeLoaded

	p.Log.Info("run loaded",
		"appended", appended,
		"csv", paths.CSV,
		"columnar", paths.Columnar,
	)
	return res, nil
}

// parse converts the staged snapshot into a batch. Expected data defects
// (missing file, bad JSON, absent keys) become an empty batch with a
// diagnostic; they never abort the run.
func (p *Pipeline) parse(path string) (models.Batch, error) {
	raw, err := etl.LoadRaw(path)
	if err == nil {
		var batch models.Batch
		batch, err = etl.Parse(raw)
		if err == nil {
			return batch, nil
		}
	}

	if isDataError(err) {
		p.Log.Warn("parse produced no records", "path", path, "reason", err)
		return nil, nil
	}
	return nil, err
}

func isDataError(err error) bool {
	var nf *etl.NotFoundError
	var de *etl.DecodeError
	var se *etl.SchemaError
	return errors.As(err, &nf) || errors.As(err, &de) || errors.As(err, &se)
}
