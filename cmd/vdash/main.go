package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"vdash/internal/application/service"
	"vdash/internal/application/usecase/dashboard"
	"vdash/internal/domain"
	"vdash/internal/infrastructure/backend"
	"vdash/internal/infrastructure/config"
	"vdash/internal/infrastructure/container"
	"vdash/internal/infrastructure/logger"
	"vdash/internal/interfaces/console"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// output sink (console)
	sink := console.NewSink()

	// storage container (sqlite / postgres / redis, per config)
	cont, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("container init failed")
	}
	defer func() {
		if cerr := cont.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("container close failed")
		}
	}()

	repo := cont.Repository()
	if repo == nil {
		log.Warn().Msg("no storage enabled, session journal disabled")
		repo = dashboard.NewNoopRepo()
	}

	// infrastructure -> application ports
	stream := backend.NewStreamClient(cfg.Backend.WsURL, cfg.ReconnectDelay())
	rest := backend.NewClient(cfg.Backend.BaseURL, cfg.Timeout(), cfg.Backend.RequestsPerSec)

	store := domain.NewStore()
	trades := service.NewTradeService(store, rest, sink)

	svc := dashboard.NewService(dashboard.ServiceDeps{
		Stream:        stream,
		Backend:       rest,
		Store:         store,
		Trades:        trades,
		Sink:          sink,
		Repo:          repo,
		RefreshEvery:  cfg.RefreshEvery(),
		SnapshotEvery: cfg.SnapshotEvery(),
	})

	log.Info().
		Str("config", *configPath).
		Str("ws_url", cfg.Backend.WsURL).
		Str("base_url", cfg.Backend.BaseURL).
		Dur("refresh_every", cfg.RefreshEvery()).
		Msg("vdash started")

	if err := svc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("dashboard service exited")
	}
}
