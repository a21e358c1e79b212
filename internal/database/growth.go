// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// GetGrowthSeries returns the market-growth time series per industry:
// observed points from the store plus a linear projection through
// projectionYear. Projections are computed here, never stored. An empty
// industry returns a series for every industry.
func (db *DB) GetGrowthSeries(ctx context.Context, industry string, projectionYear int) ([]models.GrowthSeries, error) {
	start := time.Now()

	query := `
		SELECT industry, year, market_size, growth_rate
		FROM market_growth
	`
	var args []interface{}
	if industry != "" {
		query += " WHERE industry = ?"
		args = append(args, industry)
	}
	query += " ORDER BY industry, year ASC"

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("growth_series", "market_growth", start, err)
		return nil, fmt.Errorf("failed to query market growth: %w", err)
	}
	defer closeWithLog(rows, "growth rows")

	byIndustry := map[string][]models.GrowthPoint{}
	var order []string
	for rows.Next() {
		var p models.GrowthPoint
		if err := rows.Scan(&p.Industry, &p.Year, &p.MarketSize, &p.GrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan growth point: %w", err)
		}
		if _, seen := byIndustry[p.Industry]; !seen {
			order = append(order, p.Industry)
		}
		byIndustry[p.Industry] = append(byIndustry[p.Industry], p)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("growth_series", "market_growth", start, err)
		return nil, err
	}

	series := make([]models.GrowthSeries, 0, len(order))
	for _, ind := range order {
		observed := byIndustry[ind]
		s := models.GrowthSeries{
			Industry:       ind,
			Points:         projectLinear(observed, projectionYear),
			ProjectionYear: projectionYear,
			CAGR:           cagr(observed),
		}
		series = append(series, s)
	}

	metrics.ObserveDBQuery("growth_series", "market_growth", start, nil)
	return series, nil
}

// projectLinear extends the observed series year by year through
// projectionYear using the mean annual market-size delta. Projected points
// are flagged so the chart can render them dashed.
func projectLinear(observed []models.GrowthPoint, projectionYear int) []models.GrowthPoint {
	points := make([]models.GrowthPoint, len(observed))
	copy(points, observed)

	if len(observed) < 2 {
		return points
	}

	first := observed[0]
	last := observed[len(observed)-1]
	if projectionYear <= last.Year {
		return points
	}

	yearSpan := last.Year - first.Year
	if yearSpan <= 0 {
		return points
	}
	delta := (last.MarketSize - first.MarketSize) / float64(yearSpan)

	prevSize := last.MarketSize
	for year := last.Year + 1; year <= projectionYear; year++ {
		size := prevSize + delta
		growthRate := 0.0
		if prevSize > 0 {
			growthRate = (size - prevSize) / prevSize * 100
		}
		points = append(points, models.GrowthPoint{
			Industry:   last.Industry,
			Year:       year,
			MarketSize: round1(size),
			GrowthRate: round1(growthRate),
			Projected:  true,
		})
		prevSize = size
	}
	return points
}

// cagr computes the compound annual growth rate over the observed points,
// in percent. Zero when the series is too short or starts at zero.
func cagr(observed []models.GrowthPoint) float64 {
	if len(observed) < 2 {
		return 0
	}
	first := observed[0]
	last := observed[len(observed)-1]
	years := last.Year - first.Year
	if years <= 0 || first.MarketSize <= 0 {
		return 0
	}
	rate := math.Pow(last.MarketSize/first.MarketSize, 1/float64(years)) - 1
	return round1(rate * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
