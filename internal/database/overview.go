// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// GetOverview builds the headline cards for the overview tab: totals,
// per-industry summaries, the fastest-growing procedure per industry, top
// categories by market size, and the latest observed growth point per
// industry.
func (db *DB) GetOverview(ctx context.Context) (*models.Overview, error) {
	start := time.Now()
	overview := &models.Overview{}

	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM procedures),
			(SELECT COUNT(*) FROM companies),
			COALESCE((SELECT SUM(market_size) FROM market_growth mg
				WHERE mg.year = (SELECT MAX(year) FROM market_growth mg2
					WHERE mg2.industry = mg.industry)), 0)
	`).Scan(&overview.TotalProcedures, &overview.TotalCompanies, &overview.CombinedMarketSize)
	if err != nil {
		metrics.ObserveDBQuery("overview_totals", "procedures", start, err)
		return nil, fmt.Errorf("failed to query overview totals: %w", err)
	}

	summaries, err := db.industrySummaries(ctx)
	if err != nil {
		return nil, err
	}
	overview.IndustrySummaries = summaries

	fastest, err := db.fastestGrowingPerIndustry(ctx)
	if err != nil {
		return nil, err
	}
	overview.FastestGrowing = fastest

	topCategories, err := db.topCategories(ctx, 3)
	if err != nil {
		return nil, err
	}
	overview.TopCategories = topCategories

	snapshot, err := db.latestGrowthPoints(ctx)
	if err != nil {
		return nil, err
	}
	overview.GrowthSnapshot = snapshot

	metrics.ObserveDBQuery("overview", "procedures", start, nil)
	return overview, nil
}

// industrySummaries aggregates procedure metrics per industry.
func (db *DB) industrySummaries(ctx context.Context) ([]models.IndustrySummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT industry, COUNT(*),
			COALESCE(SUM(market_size_2025), 0),
			COALESCE(SUM(projected_size_2030), 0),
			COALESCE(AVG(growth_rate), 0)
		FROM procedures
		GROUP BY industry
		ORDER BY industry
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query industry summaries: %w", err)
	}
	defer closeWithLog(rows, "industry summary rows")

	var summaries []models.IndustrySummary
	for rows.Next() {
		var s models.IndustrySummary
		if err := rows.Scan(&s.Industry, &s.ProcedureCount, &s.MarketSize,
			&s.ProjectedSize, &s.MeanGrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan industry summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// fastestGrowingPerIndustry returns the single highest-growth procedure for
// each industry.
func (db *DB) fastestGrowingPerIndustry(ctx context.Context) ([]models.Procedure, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT CAST(p.id AS VARCHAR), p.name, p.category_id, c.name, p.industry,
			p.growth_rate, p.market_size_2025, p.projected_size_2030,
			p.avg_cost, p.popularity_rank, COALESCE(p.description, ''), p.created_at
		FROM procedures p
		JOIN categories c ON c.id = p.category_id
		QUALIFY ROW_NUMBER() OVER (PARTITION BY p.industry ORDER BY p.growth_rate DESC) = 1
		ORDER BY p.industry
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fastest-growing procedures: %w", err)
	}
	defer closeWithLog(rows, "fastest-growing rows")

	return scanProcedures(rows)
}

// topCategories returns the n categories with the largest summed market size.
func (db *DB) topCategories(ctx context.Context, n int) ([]models.CategorySummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.name, c.industry, COUNT(p.id),
			COALESCE(SUM(p.market_size_2025), 0),
			COALESCE(AVG(p.growth_rate), 0)
		FROM categories c
		LEFT JOIN procedures p ON p.category_id = c.id
		GROUP BY c.id, c.name, c.industry
		ORDER BY COALESCE(SUM(p.market_size_2025), 0) DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top categories: %w", err)
	}
	defer closeWithLog(rows, "top category rows")

	return scanCategorySummaries(rows)
}

// latestGrowthPoints returns the most recent observed growth point per
// industry.
func (db *DB) latestGrowthPoints(ctx context.Context) ([]models.GrowthPoint, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT industry, year, market_size, growth_rate
		FROM market_growth mg
		WHERE year = (SELECT MAX(year) FROM market_growth mg2 WHERE mg2.industry = mg.industry)
		ORDER BY industry
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest growth points: %w", err)
	}
	defer closeWithLog(rows, "growth snapshot rows")

	var points []models.GrowthPoint
	for rows.Next() {
		var p models.GrowthPoint
		if err := rows.Scan(&p.Industry, &p.Year, &p.MarketSize, &p.GrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan growth point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
