// Package main is the entry point for the riskriver backend. It turns a raw
// per-asset analysis feed into a classified, risk-banded catalog plus dense
// KPI and banded aggregate series, and serves them over a read-only HTTP API
// for the river visualization.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/riskriver/internal/config"
	"github.com/aristath/riskriver/internal/database"
	"github.com/aristath/riskriver/internal/ingest"
	"github.com/aristath/riskriver/internal/pipeline"
	"github.com/aristath/riskriver/internal/scheduler"
	"github.com/aristath/riskriver/internal/server"
	"github.com/aristath/riskriver/pkg/logger"
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

	log.Info().
		Str("source", cfg.DataSource).
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting riskriver")

	// Snapshot cache (optional, errors only cost recomputes)
	var cache *pipeline.SnapshotCache
	if cfg.SnapshotCacheTTL > 0 {
		cacheDB, err := database.New(database.Config{
			Path: filepath.Join(cfg.DataDir, "cache.db"),
			Name: "cache",
		})
		if err != nil {
			log.Warn().Err(err).Msg("Cache database unavailable, running without snapshot cache")
		} else {
			defer cacheDB.Close()
			cache, err = pipeline.NewSnapshotCache(cacheDB, time.Duration(cfg.SnapshotCacheTTL)*time.Hour, log)
			if err != nil {
				log.Warn().Err(err).Msg("Snapshot cache init failed, running without it")
				cache = nil
			}
		}
	}

	loader := ingest.NewLoader(cfg.AWSRegion, log)
	pipe := pipeline.New(pipeline.Options{IncludeZeroVol: cfg.IncludeZeroVol}, cache, log)
	service := pipeline.NewService(loader, pipe, cfg.DataSource, log)

	// Initial load must succeed before serving; later reload failures keep
	// the previous snapshot.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := service.Refresh(loadCtx); err != nil {
		cancelLoad()
		log.Fatal().Err(err).Msg("Failed to load raw feed")
	}
	cancelLoad()

	// Periodic reload
	sched := scheduler.New(log)
	if cfg.ReloadSchedule != "" {
		if err := sched.AddJob(cfg.ReloadSchedule, scheduler.NewReloadFeedJob(service, log)); err != nil {
			log.Error().Err(err).Msg("Failed to register reload job")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:     log,
		Cfg:     cfg,
		Service: service,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
