// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// The server binary runs the dashboard read API. Startup reconciles the
// DuckDB store against the expected schema and reference dataset, then a
// suture supervisor tree runs the HTTP server and, when a feed is configured,
// the periodic refresher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tswanson-dev/marketscope/internal/api"
	"github.com/tswanson-dev/marketscope/internal/cache"
	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/feed"
	"github.com/tswanson-dev/marketscope/internal/loader"
	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/supervisor"
	"github.com/tswanson-dev/marketscope/internal/supervisor/services"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const reconcileTimeout = 60 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("marketscope-server %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Marketscope server")

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Database close failed")
		}
	}()

	var fetcher loader.SnapshotFetcher
	if cfg.Feed.Enabled {
		fetcher = feed.NewClient(&cfg.Feed)
		logging.Info().Str("url", cfg.Feed.URL).Msg("Upstream feed enabled")
	}

	respCache := cache.New(cfg.API.CacheTTL)
	ld := loader.New(db, fetcher, respCache)
	ld.SetSeedOnEmpty(cfg.Loader.SeedOnEmpty)

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	report, err := ld.Reconcile(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("startup reconciliation failed: %w", err)
	}
	logging.Info().
		Int("tables", len(report.Tables)).
		Dur("duration", report.Duration).
		Msg("Startup reconciliation complete")

	if cfg.Loader.RefreshOnStartup && cfg.Feed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		refresh, err := ld.RefreshFromFeed(ctx)
		cancel()
		if err != nil {
			logging.Warn().Err(err).Msg("Startup feed refresh failed")
		} else {
			logging.Info().
				Str("source", refresh.Source).
				Int64("growth_written", refresh.GrowthWritten).
				Int64("news_written", refresh.NewsWritten).
				Msg("Startup feed refresh complete")
		}
	}

	handler := api.NewHandler(db, respCache, cfg)
	handler.SetReady(true)
	router := api.NewRouter(handler, &cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if cfg.Feed.Enabled && cfg.Loader.RefreshInterval > 0 {
		tree.AddDataService(services.NewRefreshService(ld, cfg.Loader.RefreshInterval))
		logging.Info().Dur("interval", cfg.Loader.RefreshInterval).Msg("Periodic feed refresh scheduled")
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := tree.ServeBackground(runCtx)
	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		stop()
		if err := <-errCh; err != nil && !isCanceled(err) {
			return fmt.Errorf("shutdown error: %w", err)
		}
	case err := <-errCh:
		if err != nil && !isCanceled(err) {
			return fmt.Errorf("supervisor tree error: %w", err)
		}
	}

	logging.Info().Msg("Server stopped")
	return nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
