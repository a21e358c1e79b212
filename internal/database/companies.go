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

	"github.com/google/uuid"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// ListCompanies returns companies sorted by market share (descending),
// optionally filtered by industry and segment.
func (db *DB) ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]models.Company, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}
	if filter.Industry != "" {
		conditions = append(conditions, "industry = ?")
		args = append(args, filter.Industry)
	}
	if filter.Segment != "" {
		conditions = append(conditions, "segment = ?")
		args = append(args, filter.Segment)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT CAST(id AS VARCHAR), name, industry, segment, market_share,
			annual_revenue, COALESCE(headquarters, ''),
			COALESCE(founded_year, 0), COALESCE(employee_count, 0), created_at
		FROM companies
		%s
		ORDER BY market_share DESC, name ASC
	`, where)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("list", "companies", start, err)
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer closeWithLog(rows, "company rows")

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		var idStr string
		if err := rows.Scan(&idStr, &c.Name, &c.Industry, &c.Segment,
			&c.MarketShare, &c.AnnualRevenue, &c.Headquarters,
			&c.FoundedYear, &c.EmployeeCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse company id %q: %w", idStr, err)
		}
		c.ID = id
		companies = append(companies, c)
	}

	metrics.ObserveDBQuery("list", "companies", start, rows.Err())
	return companies, rows.Err()
}
