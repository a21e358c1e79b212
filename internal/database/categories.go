// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// ListCategories returns categories with their procedure counts, optionally
// filtered to one industry.
func (db *DB) ListCategories(ctx context.Context, industry string) ([]models.Category, error) {
	start := time.Now()

	query := `
		SELECT c.id, c.name, c.industry, COALESCE(c.description, ''),
			COUNT(p.id), c.created_at
		FROM categories c
		LEFT JOIN procedures p ON p.category_id = c.id
	`
	var args []interface{}
	if industry != "" {
		query += " WHERE c.industry = ?"
		args = append(args, industry)
	}
	query += `
		GROUP BY c.id, c.name, c.industry, c.description, c.created_at
		ORDER BY c.industry, c.name
	`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("list", "categories", start, err)
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer closeWithLog(rows, "category rows")

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.Description,
			&c.ProcedureCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	metrics.ObserveDBQuery("list", "categories", start, rows.Err())
	return categories, rows.Err()
}

// GetMarketAnalysis returns per-category aggregates (summed market size,
// mean growth, procedure counts) for the market-analysis tab, largest
// categories first.
func (db *DB) GetMarketAnalysis(ctx context.Context, industry string) ([]models.CategorySummary, error) {
	start := time.Now()

	query := `
		SELECT c.id, c.name, c.industry, COUNT(p.id),
			COALESCE(SUM(p.market_size_2025), 0),
			COALESCE(AVG(p.growth_rate), 0)
		FROM categories c
		LEFT JOIN procedures p ON p.category_id = c.id
	`
	var args []interface{}
	if industry != "" {
		query += " WHERE c.industry = ?"
		args = append(args, industry)
	}
	query += `
		GROUP BY c.id, c.name, c.industry
		ORDER BY COALESCE(SUM(p.market_size_2025), 0) DESC
	`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("market_analysis", "categories", start, err)
		return nil, fmt.Errorf("failed to query market analysis: %w", err)
	}
	defer closeWithLog(rows, "market analysis rows")

	summaries, err := scanCategorySummaries(rows)
	metrics.ObserveDBQuery("market_analysis", "categories", start, err)
	return summaries, err
}

// scanCategorySummaries reads category aggregate rows in the canonical
// column order.
func scanCategorySummaries(rows *sql.Rows) ([]models.CategorySummary, error) {
	summaries := []models.CategorySummary{}
	for rows.Next() {
		var s models.CategorySummary
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.Industry,
			&s.ProcedureCount, &s.MarketSize, &s.MeanGrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
