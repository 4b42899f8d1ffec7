package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"peoplemover/internal/config"
	"peoplemover/internal/pipeline"
	"peoplemover/internal/server"
	"peoplemover/internal/service"
	"peoplemover/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger := newLogger(cfg.Log)

	source, err := storage.OpenSource(cfg.Source.Driver, cfg.Source.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open source store")
	}
	defer source.Close()

	dest, err := storage.OpenDestination(cfg.Destination.Driver, cfg.Destination.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open destination store")
	}
	defer dest.Close()

	svc := service.NewPipelineService(source, dest, pipeline.DefaultClassifier(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.StartTriggers(ctx, service.TriggerConfig{
		Schedule:  cfg.Pipeline.Schedule,
		WatchSeed: cfg.Pipeline.WatchSeed,
	}); err != nil {
		logger.Fatal().Err(err).Msg("start pipeline triggers")
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.New(svc, logger).Router(),
	}

	go func() {
		logger.Info().Str("addr", cfg.Listen).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	svc.WaitRunning(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stderr
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
