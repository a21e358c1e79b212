// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// The setup binary is a one-shot idempotent seeder: it creates any missing
// tables, seeds the bundled reference dataset into empty ones, and prints a
// per-table report. It exits 0 only when every expected table ends non-empty,
// so deploy scripts can run it repeatedly and gate on the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/loader"
	"github.com/tswanson-dev/marketscope/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const setupTimeout = 2 * time.Minute

func main() {
	force := flag.Bool("force", false, "delete existing rows and reseed every table")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("marketscope-setup %s (commit %s, built %s)\n", version, commit, date)
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

	if err := run(cfg, *force); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, force bool) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Database close failed")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	fmt.Printf("Marketscope setup (database: %s, force: %v)\n\n", cfg.Database.Path, force)

	if force {
		results, err := db.SeedAll(ctx, true)
		if err != nil {
			return fmt.Errorf("forced reseed failed: %w", err)
		}
		for _, res := range results {
			fmt.Printf("  %-18s inserted=%-4d failed=%-4d skipped=%v\n",
				res.Table, res.Inserted, res.Failed, res.Skipped)
		}
	} else {
		report, err := loader.New(db, nil, nil).Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconciliation failed: %w", err)
		}
		for _, status := range report.Tables {
			fmt.Printf("  %-18s %-8s rows=%d\n", status.Table, status.Outcome, status.Rows)
		}
	}

	return verify(ctx, db)
}

// verify re-counts every expected table; setup only succeeds when the store
// is fully usable.
func verify(ctx context.Context, db *database.DB) error {
	stats, err := db.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect dataset stats: %w", err)
	}

	fmt.Printf("\nDataset: %d rows across %d tables\n", stats.TotalRows, len(stats.TableCounts))

	var empty []string
	for _, table := range database.TableNames {
		if stats.TableCounts[table] == 0 {
			empty = append(empty, table)
		}
	}
	if len(empty) > 0 {
		return fmt.Errorf("tables still empty after setup: %v", empty)
	}

	fmt.Println("Setup complete: all tables populated.")
	return nil
}
