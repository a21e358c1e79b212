// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// GetDemographics returns age/gender segments grouped by industry, with the
// median per-capita spend computed across each industry's segments.
func (db *DB) GetDemographics(ctx context.Context, industry string) ([]models.DemographicsView, error) {
	start := time.Now()

	query := `
		SELECT industry, age_group, gender, share, spend_per_capita
		FROM demographics
	`
	var args []interface{}
	if industry != "" {
		query += " WHERE industry = ?"
		args = append(args, industry)
	}
	query += " ORDER BY industry, age_group, gender"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("demographics", "demographics", start, err)
		return nil, fmt.Errorf("failed to query demographics: %w", err)
	}
	defer closeWithLog(rows, "demographic rows")

	byIndustry := map[string][]models.DemographicSegment{}
	var order []string
	for rows.Next() {
		var s models.DemographicSegment
		if err := rows.Scan(&s.Industry, &s.AgeGroup, &s.Gender, &s.Share, &s.SpendPerCapita); err != nil {
			return nil, fmt.Errorf("failed to scan demographic segment: %w", err)
		}
		if _, seen := byIndustry[s.Industry]; !seen {
			order = append(order, s.Industry)
		}
		byIndustry[s.Industry] = append(byIndustry[s.Industry], s)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("demographics", "demographics", start, err)
		return nil, err
	}

	views := make([]models.DemographicsView, 0, len(order))
	for _, ind := range order {
		segments := byIndustry[ind]
		views = append(views, models.DemographicsView{
			Industry:    ind,
			Segments:    segments,
			MedianSpend: medianSpend(segments),
		})
	}

	metrics.ObserveDBQuery("demographics", "demographics", start, nil)
	return views, nil
}

// medianSpend returns the median spend_per_capita across segments.
func medianSpend(segments []models.DemographicSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	spends := make([]float64, len(segments))
	for i, s := range segments {
		spends[i] = s.SpendPerCapita
	}
	sort.Float64s(spends)

	mid := len(spends) / 2
	if len(spends)%2 == 1 {
		return spends[mid]
	}
	return (spends[mid-1] + spends[mid]) / 2
}
