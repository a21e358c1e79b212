// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// GetStats reports per-table row counts and the last feed refresh time
// (latest news fetch) for the /stats endpoint and the setup report.
func (db *DB) GetStats(ctx context.Context) (*models.DatasetStats, error) {
	start := time.Now()

	stats := &models.DatasetStats{
		TableCounts: make(map[string]int64, len(TableNames)),
	}

	for _, table := range TableNames {
		count, err := db.CountRows(ctx, table)
		if err != nil {
			metrics.ObserveDBQuery("stats", table, start, err)
			return nil, err
		}
		stats.TableCounts[table] = count
		stats.TotalRows += count
	}

	var lastFetch time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(fetched_at) FROM news_articles`).Scan(&lastFetch)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// no articles yet
	case err != nil:
		// MAX over an empty table scans NULL into time.Time and errors on
		// some drivers; treat any scan failure as "no refresh recorded".
	default:
		if !lastFetch.IsZero() {
			stats.LastRefreshAt = &lastFetch
		}
	}

	metrics.ObserveDBQuery("stats", "all", start, nil)
	return stats, nil
}
