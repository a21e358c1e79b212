// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package models

import "time"

// View models returned by the per-tab query methods. Each dashboard tab maps
// to one of these shapes; the UI renders them directly as cards, tables, or
// chart series.

// Overview holds the headline cards for the overview tab.
type Overview struct {
	TotalProcedures    int                `json:"total_procedures"`
	TotalCompanies     int                `json:"total_companies"`
	CombinedMarketSize float64            `json:"combined_market_size"` // USD billions, 2025
	IndustrySummaries  []IndustrySummary  `json:"industry_summaries"`
	FastestGrowing     []Procedure        `json:"fastest_growing"` // one per industry
	TopCategories      []CategorySummary  `json:"top_categories"`
	GrowthSnapshot     []GrowthPoint      `json:"growth_snapshot"` // latest observed year per industry
}

// IndustrySummary aggregates one industry for the overview cards.
type IndustrySummary struct {
	Industry       string  `json:"industry"`
	ProcedureCount int     `json:"procedure_count"`
	MarketSize     float64 `json:"market_size"`      // USD billions, 2025
	ProjectedSize  float64 `json:"projected_size"`   // USD billions, 2030
	MeanGrowthRate float64 `json:"mean_growth_rate"` // percent
}

// CategorySummary aggregates one category for the market-analysis tab.
type CategorySummary struct {
	CategoryID     int     `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	Industry       string  `json:"industry"`
	ProcedureCount int     `json:"procedure_count"`
	MarketSize     float64 `json:"market_size"`      // USD billions, summed over procedures
	MeanGrowthRate float64 `json:"mean_growth_rate"` // percent
}

// GrowthSeries is the growth tab payload: observed points plus a linear
// projection through the requested horizon year.
type GrowthSeries struct {
	Industry       string        `json:"industry"`
	Points         []GrowthPoint `json:"points"`
	ProjectionYear int           `json:"projection_year"`
	// CAGR is the compound annual growth rate over the observed points, percent.
	CAGR float64 `json:"cagr"`
}

// DemographicsView groups segments by industry for the demographics tab.
type DemographicsView struct {
	Industry    string               `json:"industry"`
	Segments    []DemographicSegment `json:"segments"`
	MedianSpend float64              `json:"median_spend"` // USD per capita across segments
}

// DatasetStats reports per-table row counts for /stats and the setup report.
type DatasetStats struct {
	TableCounts   map[string]int64 `json:"table_counts"`
	TotalRows     int64            `json:"total_rows"`
	LastRefreshAt *time.Time       `json:"last_refresh_at,omitempty"`
}

// ProcedureFilter narrows procedure queries.
type ProcedureFilter struct {
	Industry   string
	CategoryID int
	MinGrowth  float64
}

// NewsFilter narrows news queries.
type NewsFilter struct {
	Industry string
	Category string
}

// MetroFilter narrows metro-market queries.
type MetroFilter struct {
	Industry string
	State    string
	// SortBy is "market_size" (default) or "growth_rate".
	SortBy string
}

// CompanyFilter narrows company queries.
type CompanyFilter struct {
	Industry string
	Segment  string
}
