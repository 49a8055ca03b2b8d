package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luisaqm/calidad-aire/internal/airquality"
	"github.com/luisaqm/calidad-aire/internal/config"
	"github.com/luisaqm/calidad-aire/internal/logger"
	"github.com/luisaqm/calidad-aire/internal/pipeline"
	"github.com/luisaqm/calidad-aire/internal/sink"
)

func main() {
	log := logger.New("etl")
	if err := run(log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log = log.With("run_id", uuid.NewString())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return &sink.SinkError{Op: "connect", Err: err}
	}
	defer pool.Close()

	if !cfg.DryRun {
		if err := sink.EnsureTable(ctx, pool, cfg.TableName); err != nil {
			return err
		}
	}

	client := &airquality.Client{
		HTTP:    &http.Client{Timeout: cfg.RequestTimeout},
		BaseURL: cfg.BaseURL,
		City:    cfg.City,
		State:   cfg.State,
		Country: cfg.Country,
		APIKey:  cfg.APIKey,
	}

	p := &pipeline.Pipeline{
		Fetcher: &airquality.Extractor{
			Client: client,
			RawDir: cfg.RawDir,
			Prefix: cfg.ExportPrefix,
			Log:    log,
		},
		Store:    &sink.Store{Pool: pool},
		Exporter: sink.NewExporter(cfg.ProcessedDir, cfg.ExportPrefix),
		Table:    cfg.TableName,
		DryRun:   cfg.DryRun,
		Log:      log,
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	log.Info("run finished", "stage", string(res.Stage), "outcome", string(res.Outcome), "appended", res.Appended)
	return nil
}
