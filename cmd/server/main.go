// Package main is the entry point for the cash-secured put ladder engine.
// It wires the market-data client, the pure optimization engine, the result
// store and history database, the periodic refresh scheduler, and the HTTP
// API, then runs until interrupted.
//
// Startup sequence:
//  1. Load configuration from environment variables (.env supported)
//  2. Initialize structured logging
//  3. Open the history database and repository
//  4. Wire the Deribit client, engine, and result store
//  5. Register the refresh job with the cron scheduler and run it once
//  6. Serve the HTTP API until SIGINT/SIGTERM, then shut down gracefully
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/clients/deribit"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/config"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/database"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/history"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/ladder"
	ladderhandlers "github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/modules/ladder/handlers"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/scheduler"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/internal/server"
	"github.com/0xEmpoleon/Diversified-Hedged-CSP-Strategy/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("currency", cfg.Currency).
		Int("num_legs", cfg.NumLegs).
		Bool("allow_repetition", cfg.AllowRepetition).
		Msg("Starting ladder engine")

	// History database
	db, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "history.db"),
		Name: "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer db.Close()

	historyRepo, err := history.NewRepository(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize history repository")
	}

	// Engine wiring
	client := deribit.NewClient(cfg.DeribitBaseURL, log)
	engine := ladder.NewService(log)
	store := ladder.NewStore()

	refreshJob := scheduler.NewRefreshLaddersJob(client, engine, store, historyRepo, scheduler.RefreshLaddersConfig{
		Currency:        cfg.Currency,
		MaxProbExercise: cfg.MaxProbExercise,
		NumLegs:         cfg.NumLegs,
		AllowRepetition: cfg.AllowRepetition,
		HistoryKeep:     cfg.HistoryKeep,
	}, log)

	runner, err := scheduler.NewRunner(cfg.RefreshSchedule, refreshJob, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}

	// Prime the store before the first scheduled tick; a failed first fetch
	// is not fatal, the scheduler retries on the next tick.
	if err := runner.Prime(); err != nil {
		log.Warn().Err(err).Msg("Initial refresh failed")
	}
	runner.Start()

	// HTTP API
	ladderHandler := ladderhandlers.NewHandler(store, engine, historyRepo, log)
	srv := server.New(cfg.Port, ladderHandler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}

	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Ladder engine stopped")
}
