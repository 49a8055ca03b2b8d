package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/luisaqm/calidad-aire/internal/api"
	"github.com/luisaqm/calidad-aire/internal/config"
	"github.com/luisaqm/calidad-aire/internal/logger"
)

func main() {
	log := logger.New("api")

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("config error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := api.New(ctx, cfg.DatabaseURL, cfg.TableName)
	if err != nil {
		log.Error("db connection error", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := api.NewServer(cfg, store)
	log.Info("REST API listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
