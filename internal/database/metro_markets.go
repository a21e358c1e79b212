// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// ListMetroMarkets returns metropolitan market rows, filterable by industry
// and state, sorted by market size (default) or growth rate.
func (db *DB) ListMetroMarkets(ctx context.Context, filter models.MetroFilter) ([]models.MetroMarket, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}
	if filter.Industry != "" {
		conditions = append(conditions, "industry = ?")
		args = append(args, filter.Industry)
	}
	if filter.State != "" {
		conditions = append(conditions, "state = ?")
		args = append(args, filter.State)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// SortBy is validated upstream to the oneof set; default to market size.
	orderBy := "market_size DESC"
	if filter.SortBy == "growth_rate" {
		orderBy = "growth_rate DESC"
	}

	query := fmt.Sprintf(`
		SELECT metro_area, state, industry, market_size, growth_rate,
			provider_count, population
		FROM metro_markets
		%s
		ORDER BY %s, metro_area ASC
	`, where, orderBy)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("list", "metro_markets", start, err)
		return nil, fmt.Errorf("failed to query metro markets: %w", err)
	}
	defer closeWithLog(rows, "metro market rows")

	markets := []models.MetroMarket{}
	for rows.Next() {
		var m models.MetroMarket
		if err := rows.Scan(&m.MetroArea, &m.State, &m.Industry, &m.MarketSize,
			&m.GrowthRate, &m.ProviderCount, &m.Population); err != nil {
			return nil, fmt.Errorf("failed to scan metro market: %w", err)
		}
		markets = append(markets, m)
	}

	metrics.ObserveDBQuery("list", "metro_markets", start, rows.Err())
	return markets, rows.Err()
}
