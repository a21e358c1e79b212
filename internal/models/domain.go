// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package models defines the domain rows stored in DuckDB and the view models
// served by the dashboard API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Industry labels partition the dataset. Every procedure, category, company,
// and time series belongs to exactly one industry.
const (
	IndustryDental    = "dental"
	IndustryAesthetic = "aesthetic"
)

// Industries lists the valid industry labels in display order.
var Industries = []string{IndustryDental, IndustryAesthetic}

// Category groups procedures within an industry. ProcedureCount is populated
// by list queries, not stored.
type Category struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Industry       string    `json:"industry"`
	Description    string    `json:"description,omitempty"`
	ProcedureCount int       `json:"procedure_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Procedure is a dental or aesthetic treatment with its market metrics.
type Procedure struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	CategoryID        int       `json:"category_id"`
	CategoryName      string    `json:"category_name,omitempty"`
	Industry          string    `json:"industry"`
	GrowthRate        float64   `json:"growth_rate"`         // annual growth, percent
	MarketSize2025    float64   `json:"market_size_2025"`    // USD billions
	ProjectedSize2030 float64   `json:"projected_size_2030"` // USD billions
	AvgCost           float64   `json:"avg_cost"`            // USD per treatment
	PopularityRank    int       `json:"popularity_rank"`
	Description       string    `json:"description,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Company is a market participant with share and revenue metrics.
type Company struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry"`
	Segment       string    `json:"segment"`
	MarketShare   float64   `json:"market_share"`   // percent of industry market
	AnnualRevenue float64   `json:"annual_revenue"` // USD billions
	Headquarters  string    `json:"headquarters"`
	FoundedYear   int       `json:"founded_year"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// GrowthPoint is one year of an industry's market-growth time series.
type GrowthPoint struct {
	Industry   string  `json:"industry"`
	Year       int     `json:"year"`
	MarketSize float64 `json:"market_size"` // USD billions
	GrowthRate float64 `json:"growth_rate"` // percent year-over-year
	// Projected marks points extrapolated beyond the observed series.
	Projected bool `json:"projected,omitempty"`
}

// DemographicSegment is an age/gender share of an industry's patient base.
type DemographicSegment struct {
	Industry       string  `json:"industry"`
	AgeGroup       string  `json:"age_group"`
	Gender         string  `json:"gender"`
	Share          float64 `json:"share"`            // percent of patient base
	SpendPerCapita float64 `json:"spend_per_capita"` // USD per year
}

// MetroMarket is a metropolitan-area market row.
type MetroMarket struct {
	MetroArea     string  `json:"metro_area"`
	State         string  `json:"state"`
	Industry      string  `json:"industry"`
	MarketSize    float64 `json:"market_size"` // USD millions
	GrowthRate    float64 `json:"growth_rate"` // percent
	ProviderCount int     `json:"provider_count"`
	Population    int     `json:"population"`
}

// NewsArticle is an industry news item shown on the news tab.
type NewsArticle struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Industry    string    `json:"industry"`
	Category    string    `json:"category,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// RLSPolicy records a row-level-security policy attached to a table.
// Enforcement belongs to the store engine; this registry only documents
// which policies the setup scripts attached.
type RLSPolicy struct {
	ID         int       `json:"id"`
	TableName  string    `json:"table_name"`
	PolicyName string    `json:"policy_name"`
	Roles      string    `json:"roles"`
	UsingExpr  string    `json:"using_expr"`
	CreatedAt  time.Time `json:"created_at"`
}
