// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// ListProcedures returns one page of procedures ordered by popularity rank
// (ascending, id as tie-breaker), with optional industry/category/min-growth
// filters. The cursor token comes from a previous page's pagination info.
func (db *DB) ListProcedures(ctx context.Context, filter models.ProcedureFilter, limit int, cursorToken string) (*models.ProceduresResponse, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}

	if filter.Industry != "" {
		conditions = append(conditions, "p.industry = ?")
		args = append(args, filter.Industry)
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.MinGrowth > 0 {
		conditions = append(conditions, "p.growth_rate >= ?")
		args = append(args, filter.MinGrowth)
	}

	if cursorToken != "" {
		var cursor models.ProcedureCursor
		if err := decodeCursor(cursorToken, &cursor); err != nil {
			return nil, err
		}
		conditions = append(conditions, "(p.popularity_rank, CAST(p.id AS VARCHAR)) > (?, ?)")
		args = append(args, cursor.PopularityRank, cursor.ID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Fetch limit+1 to detect whether another page exists.
	query := fmt.Sprintf(`
		SELECT CAST(p.id AS VARCHAR), p.name, p.category_id, c.name, p.industry,
			p.growth_rate, p.market_size_2025, p.projected_size_2030,
			p.avg_cost, p.popularity_rank, COALESCE(p.description, ''), p.created_at
		FROM procedures p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.popularity_rank ASC, CAST(p.id AS VARCHAR) ASC
		LIMIT ?
	`, where)
	args = append(args, limit+1)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("list", "procedures", start, err)
		return nil, fmt.Errorf("failed to query procedures: %w", err)
	}
	defer closeWithLog(rows, "procedure rows")

	procedures, err := scanProcedures(rows)
	if err != nil {
		metrics.ObserveDBQuery("list", "procedures", start, err)
		return nil, err
	}

	resp := &models.ProceduresResponse{
		Procedures: procedures,
		Pagination: models.PaginationInfo{Limit: limit},
	}
	if len(procedures) > limit {
		resp.Procedures = procedures[:limit]
		resp.Pagination.HasMore = true

		last := resp.Procedures[limit-1]
		token, err := encodeCursor(models.ProcedureCursor{
			PopularityRank: last.PopularityRank,
			ID:             last.ID.String(),
		})
		if err != nil {
			return nil, err
		}
		resp.Pagination.NextCursor = &token
	}
	if resp.Procedures == nil {
		resp.Procedures = []models.Procedure{}
	}

	metrics.ObserveDBQuery("list", "procedures", start, nil)
	return resp, nil
}

// scanProcedures reads procedure rows in the canonical column order used by
// all procedure queries.
func scanProcedures(rows *sql.Rows) ([]models.Procedure, error) {
	var procedures []models.Procedure
	for rows.Next() {
		var p models.Procedure
		var idStr string
		if err := rows.Scan(&idStr, &p.Name, &p.CategoryID, &p.CategoryName,
			&p.Industry, &p.GrowthRate, &p.MarketSize2025, &p.ProjectedSize2030,
			&p.AvgCost, &p.PopularityRank, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan procedure: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse procedure id %q: %w", idStr, err)
		}
		p.ID = id
		procedures = append(procedures, p)
	}
	return procedures, rows.Err()
}
