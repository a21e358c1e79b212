// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package database provides the DuckDB-backed store for the market dataset:
// schema creation, versioned migrations, reference seeding, and the typed
// query methods behind each dashboard tab.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens (or creates) the DuckDB database at cfg.Path and initializes the
// schema. An empty or ":memory:" path opens an in-memory database, used by
// tests.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	dsn := ""
	if cfg.Path != "" && cfg.Path != ":memory:" {
		// Parent directory must exist before DuckDB can create the file.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}

		preserveOrder := "true"
		if !cfg.PreserveInsertionOrder {
			preserveOrder = "false"
		}

		// Auto-install/auto-load disabled: no extensions are needed and
		// lookups can hang in restricted network environments.
		dsn = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	db.configureConnectionPool()

	ctx, cancel := schemaContext()
	defer cancel()
	if err := db.initialize(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// configureConnectionPool tunes the database/sql pool for an embedded store.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(4)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(0)
}

// initialize runs migrations and creates the schema. Idempotent.
func (db *DB) initialize(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	if err := db.CreateTables(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := db.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := db.RegisterRLSPolicies(ctx); err != nil {
		return fmt.Errorf("failed to register RLS policies: %w", err)
	}
	return nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the WAL into the main database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, "CHECKPOINT")
	return err
}

// Conn returns the underlying SQL connection for packages that need direct
// access, such as the loader's information_schema checks.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the configured database file path.
func (db *DB) Path() string {
	return db.cfg.Path
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint before close failed")
	}

	return db.conn.Close()
}
