// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"time"
)

// TableNames lists every table the dashboard depends on, in seed order
// (categories before procedures for the FK).
var TableNames = []string{
	"categories",
	"procedures",
	"companies",
	"market_growth",
	"demographics",
	"metro_markets",
	"news_articles",
	"rls_policies",
}

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// CreateTables creates all tables and indexes. Every statement is
// IF NOT EXISTS so reconciliation can call this repeatedly.
func (db *DB) CreateTables(ctx context.Context) error {
	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// CreateTable creates a single table (and its sequence) by name. Used by the
// loader when reconciliation finds an individual table missing.
func (db *DB) CreateTable(ctx context.Context, table string) error {
	ddl, ok := tableDDL[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	for _, query := range ddl {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// TableExists checks information_schema for the table.
func (db *DB) TableExists(ctx context.Context, table string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = 'main' AND table_name = ?`, table).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

// CountRows returns the row count of a table. The table name comes from
// TableNames, never from user input.
func (db *DB) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	//nolint:gosec // table name is from the static TableNames list
	err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// tableDDL maps each table to its creation statements (sequence first where
// the table uses a generated integer id).
var tableDDL = map[string][]string{
	"categories": {
		`CREATE SEQUENCE IF NOT EXISTS categories_id_seq;`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY DEFAULT nextval('categories_id_seq'),
			name TEXT NOT NULL UNIQUE,
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	},
	"procedures": {
		`CREATE TABLE IF NOT EXISTS procedures (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			category_id INTEGER NOT NULL,
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			growth_rate DOUBLE NOT NULL,
			market_size_2025 DOUBLE NOT NULL,
			projected_size_2030 DOUBLE NOT NULL,
			avg_cost DOUBLE NOT NULL,
			popularity_rank INTEGER NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (name, industry)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_procedures_industry ON procedures(industry);`,
		`CREATE INDEX IF NOT EXISTS idx_procedures_category ON procedures(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_procedures_rank ON procedures(popularity_rank);`,
	},
	"companies": {
		`CREATE TABLE IF NOT EXISTS companies (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			segment TEXT NOT NULL,
			market_share DOUBLE NOT NULL,
			annual_revenue DOUBLE NOT NULL,
			headquarters TEXT,
			founded_year INTEGER,
			employee_count INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_companies_industry ON companies(industry);`,
	},
	"market_growth": {
		`CREATE SEQUENCE IF NOT EXISTS market_growth_id_seq;`,
		`CREATE TABLE IF NOT EXISTS market_growth (
			id INTEGER PRIMARY KEY DEFAULT nextval('market_growth_id_seq'),
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			year INTEGER NOT NULL,
			market_size DOUBLE NOT NULL,
			growth_rate DOUBLE NOT NULL,
			UNIQUE (industry, year)
		);`,
	},
	"demographics": {
		`CREATE SEQUENCE IF NOT EXISTS demographics_id_seq;`,
		`CREATE TABLE IF NOT EXISTS demographics (
			id INTEGER PRIMARY KEY DEFAULT nextval('demographics_id_seq'),
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			age_group TEXT NOT NULL,
			gender TEXT NOT NULL,
			share DOUBLE NOT NULL,
			spend_per_capita DOUBLE NOT NULL,
			UNIQUE (industry, age_group, gender)
		);`,
	},
	"metro_markets": {
		`CREATE SEQUENCE IF NOT EXISTS metro_markets_id_seq;`,
		`CREATE TABLE IF NOT EXISTS metro_markets (
			id INTEGER PRIMARY KEY DEFAULT nextval('metro_markets_id_seq'),
			metro_area TEXT NOT NULL,
			state TEXT NOT NULL,
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			market_size DOUBLE NOT NULL,
			growth_rate DOUBLE NOT NULL,
			provider_count INTEGER NOT NULL,
			population INTEGER NOT NULL,
			UNIQUE (metro_area, industry)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_metro_markets_state ON metro_markets(state);`,
	},
	"news_articles": {
		`CREATE TABLE IF NOT EXISTS news_articles (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			industry TEXT NOT NULL CHECK (industry IN ('dental', 'aesthetic')),
			category TEXT,
			summary TEXT,
			published_at TIMESTAMP NOT NULL,
			fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_news_published_at ON news_articles(published_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_news_industry ON news_articles(industry);`,
	},
	"rls_policies": {
		`CREATE SEQUENCE IF NOT EXISTS rls_policies_id_seq;`,
		`CREATE TABLE IF NOT EXISTS rls_policies (
			id INTEGER PRIMARY KEY DEFAULT nextval('rls_policies_id_seq'),
			table_name TEXT NOT NULL,
			policy_name TEXT NOT NULL UNIQUE,
			roles TEXT NOT NULL,
			using_expr TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	},
}

// tableCreationQueries flattens tableDDL in TableNames order.
func tableCreationQueries() []string {
	queries := make([]string, 0, len(TableNames)*2)
	for _, table := range TableNames {
		queries = append(queries, tableDDL[table]...)
	}
	return queries
}

// RegisterRLSPolicies records the read policies the setup scripts attach to
// each public table. Enforcement belongs to the store engine; this registry
// documents what was attached so /stats and the setup report can show it.
func (db *DB) RegisterRLSPolicies(ctx context.Context) error {
	for _, table := range TableNames {
		if table == "rls_policies" {
			continue
		}
		policy := fmt.Sprintf("%s_public_read", table)
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO rls_policies (table_name, policy_name, roles, using_expr)
			 SELECT ?, ?, ?, ?
			 WHERE NOT EXISTS (SELECT 1 FROM rls_policies WHERE policy_name = ?)`,
			table, policy, "anon,authenticated", "true", policy)
		if err != nil {
			return fmt.Errorf("failed to register policy %s: %w", policy, err)
		}
	}
	return nil
}
