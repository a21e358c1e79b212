// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tswanson-dev/marketscope/internal/models"
)

func TestGetOverview(t *testing.T) {
	db := newSeededDB(t)

	overview, err := db.GetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 36, overview.TotalProcedures)
	assert.Equal(t, 16, overview.TotalCompanies)
	assert.InDelta(t, 263.2, overview.CombinedMarketSize, 0.01)

	require.Len(t, overview.IndustrySummaries, 2)
	assert.Equal(t, "aesthetic", overview.IndustrySummaries[0].Industry)
	assert.Equal(t, "dental", overview.IndustrySummaries[1].Industry)
	assert.Equal(t, 18, overview.IndustrySummaries[0].ProcedureCount)

	require.Len(t, overview.FastestGrowing, 2)
	assert.Equal(t, "PRP Hair Therapy", overview.FastestGrowing[0].Name)
	assert.Equal(t, "Clear Aligners", overview.FastestGrowing[1].Name)

	require.Len(t, overview.TopCategories, 3)
	assert.Equal(t, "Restorative Dentistry", overview.TopCategories[0].CategoryName)

	require.Len(t, overview.GrowthSnapshot, 2)
	assert.Equal(t, 2025, overview.GrowthSnapshot[0].Year)
}

func TestListProceduresPagination(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	page1, err := db.ListProcedures(ctx, models.ProcedureFilter{}, 10, "")
	require.NoError(t, err)
	require.Len(t, page1.Procedures, 10)
	require.True(t, page1.Pagination.HasMore)
	require.NotNil(t, page1.Pagination.NextCursor)

	// first page is ordered by popularity rank
	for i := 1; i < len(page1.Procedures); i++ {
		assert.GreaterOrEqual(t, page1.Procedures[i].PopularityRank, page1.Procedures[i-1].PopularityRank)
	}

	seen := map[string]bool{}
	for _, p := range page1.Procedures {
		seen[p.ID.String()] = true
	}

	page2, err := db.ListProcedures(ctx, models.ProcedureFilter{}, 10, *page1.Pagination.NextCursor)
	require.NoError(t, err)
	require.NotEmpty(t, page2.Procedures)
	for _, p := range page2.Procedures {
		assert.False(t, seen[p.ID.String()], "cursor page repeated %s", p.Name)
	}

	// walk to the end
	total := len(page1.Procedures) + len(page2.Procedures)
	cursor := page2.Pagination.NextCursor
	for cursor != nil {
		page, err := db.ListProcedures(ctx, models.ProcedureFilter{}, 10, *cursor)
		require.NoError(t, err)
		total += len(page.Procedures)
		cursor = page.Pagination.NextCursor
	}
	assert.Equal(t, 36, total)
}

func TestListProceduresFilters(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	dental, err := db.ListProcedures(ctx, models.ProcedureFilter{Industry: "dental"}, 100, "")
	require.NoError(t, err)
	assert.Len(t, dental.Procedures, 18)
	for _, p := range dental.Procedures {
		assert.Equal(t, "dental", p.Industry)
		assert.NotEmpty(t, p.CategoryName)
	}

	highGrowth, err := db.ListProcedures(ctx, models.ProcedureFilter{MinGrowth: 12}, 100, "")
	require.NoError(t, err)
	require.NotEmpty(t, highGrowth.Procedures)
	for _, p := range highGrowth.Procedures {
		assert.GreaterOrEqual(t, p.GrowthRate, 12.0)
	}

	implants, err := db.ListProcedures(ctx, models.ProcedureFilter{CategoryID: catImplants}, 100, "")
	require.NoError(t, err)
	assert.Len(t, implants.Procedures, 3)
	assert.False(t, implants.Pagination.HasMore)
}

func TestListProceduresInvalidCursor(t *testing.T) {
	db := newSeededDB(t)

	_, err := db.ListProcedures(context.Background(), models.ProcedureFilter{}, 10, "not-base64!!!")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCursor))
}

func TestListCategories(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	all, err := db.ListCategories(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 12)
	for _, c := range all {
		assert.Equal(t, 3, c.ProcedureCount, "category %s", c.Name)
	}

	dental, err := db.ListCategories(ctx, "dental")
	require.NoError(t, err)
	assert.Len(t, dental, 6)
}

func TestGetMarketAnalysis(t *testing.T) {
	db := newSeededDB(t)

	summaries, err := db.GetMarketAnalysis(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, summaries, 12)

	// sorted by summed market size descending
	for i := 1; i < len(summaries); i++ {
		assert.LessOrEqual(t, summaries[i].MarketSize, summaries[i-1].MarketSize)
	}
	assert.Equal(t, "Restorative Dentistry", summaries[0].CategoryName)
	assert.Greater(t, summaries[0].MeanGrowthRate, 0.0)
}

func TestGetGrowthSeriesProjection(t *testing.T) {
	db := newSeededDB(t)

	series, err := db.GetGrowthSeries(context.Background(), "dental", 2030)
	require.NoError(t, err)
	require.Len(t, series, 1)

	s := series[0]
	assert.Equal(t, "dental", s.Industry)
	assert.Equal(t, 2030, s.ProjectionYear)
	// 7 observed (2019-2025) + 5 projected (2026-2030)
	require.Len(t, s.Points, 12)

	var projected int
	for _, p := range s.Points {
		if p.Projected {
			projected++
			assert.Greater(t, p.Year, 2025)
		}
	}
	assert.Equal(t, 5, projected)

	last := s.Points[len(s.Points)-1]
	assert.Equal(t, 2030, last.Year)
	assert.Greater(t, last.MarketSize, 178.9)

	// dental 134.8 -> 178.9 over 6 years is about 4.8% CAGR
	assert.InDelta(t, 4.8, s.CAGR, 0.2)
}

func TestGetGrowthSeriesAllIndustries(t *testing.T) {
	db := newSeededDB(t)

	series, err := db.GetGrowthSeries(context.Background(), "", 2030)
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestGetGrowthSeriesNoProjectionForPastYear(t *testing.T) {
	db := newSeededDB(t)

	series, err := db.GetGrowthSeries(context.Background(), "aesthetic", 2024)
	require.NoError(t, err)
	require.Len(t, series, 1)
	for _, p := range series[0].Points {
		assert.False(t, p.Projected)
	}
	assert.Len(t, series[0].Points, 7)
}

func TestProjectLinearShortSeries(t *testing.T) {
	single := []models.GrowthPoint{{Industry: "dental", Year: 2025, MarketSize: 100}}
	assert.Len(t, projectLinear(single, 2030), 1)
	assert.Len(t, projectLinear(nil, 2030), 0)
}

func TestGetDemographics(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	views, err := db.GetDemographics(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 2)

	aesthetic, err := db.GetDemographics(ctx, "aesthetic")
	require.NoError(t, err)
	require.Len(t, aesthetic, 1)
	assert.Len(t, aesthetic[0].Segments, 6)
	// sorted spends: 480 760 1150 1390 1620 1840 -> median (1150+1390)/2
	assert.InDelta(t, 1270, aesthetic[0].MedianSpend, 0.01)
}

func TestMedianSpendOddCount(t *testing.T) {
	segments := []models.DemographicSegment{
		{SpendPerCapita: 300}, {SpendPerCapita: 100}, {SpendPerCapita: 200},
	}
	assert.Equal(t, 200.0, medianSpend(segments))
	assert.Equal(t, 0.0, medianSpend(nil))
}

func TestListMetroMarkets(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	bySize, err := db.ListMetroMarkets(ctx, models.MetroFilter{Industry: "dental"})
	require.NoError(t, err)
	require.Len(t, bySize, 10)
	for i := 1; i < len(bySize); i++ {
		assert.LessOrEqual(t, bySize[i].MarketSize, bySize[i-1].MarketSize)
	}

	byGrowth, err := db.ListMetroMarkets(ctx, models.MetroFilter{Industry: "aesthetic", SortBy: "growth_rate"})
	require.NoError(t, err)
	require.NotEmpty(t, byGrowth)
	for i := 1; i < len(byGrowth); i++ {
		assert.LessOrEqual(t, byGrowth[i].GrowthRate, byGrowth[i-1].GrowthRate)
	}

	texas, err := db.ListMetroMarkets(ctx, models.MetroFilter{State: "TX"})
	require.NoError(t, err)
	assert.Len(t, texas, 4)
}

func TestListNewsPagination(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	page1, err := db.ListNews(ctx, models.NewsFilter{}, 4, "")
	require.NoError(t, err)
	require.Len(t, page1.Articles, 4)
	require.True(t, page1.Pagination.HasMore)
	require.NotNil(t, page1.Pagination.NextCursor)

	// newest first
	for i := 1; i < len(page1.Articles); i++ {
		assert.False(t, page1.Articles[i].PublishedAt.After(page1.Articles[i-1].PublishedAt))
	}

	page2, err := db.ListNews(ctx, models.NewsFilter{}, 4, *page1.Pagination.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Articles, 4)
	assert.True(t, page2.Articles[0].PublishedAt.Before(page1.Articles[3].PublishedAt.Add(time.Second)))

	page3, err := db.ListNews(ctx, models.NewsFilter{}, 4, *page2.Pagination.NextCursor)
	require.NoError(t, err)
	assert.Len(t, page3.Articles, 2)
	assert.False(t, page3.Pagination.HasMore)
}

func TestListNewsFilters(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	dental, err := db.ListNews(ctx, models.NewsFilter{Industry: "dental"}, 20, "")
	require.NoError(t, err)
	assert.Len(t, dental.Articles, 5)

	trends, err := db.ListNews(ctx, models.NewsFilter{Category: "trends"}, 20, "")
	require.NoError(t, err)
	assert.Len(t, trends.Articles, 1)
}

func TestUpsertNewsDedupesOnURL(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	before, err := db.CountRows(ctx, "news_articles")
	require.NoError(t, err)

	articles := []models.NewsArticle{
		{
			Title:       "Updated headline",
			Source:      "Dental Tribune",
			URL:         "https://news.example.com/dental/clear-aligner-record",
			Industry:    "dental",
			Category:    "orthodontics",
			Summary:     "Revised summary after correction.",
			PublishedAt: time.Now().UTC().AddDate(0, 0, -2),
		},
		{
			Title:       "Brand new article",
			Source:      "Wire",
			URL:         "https://news.example.com/dental/new-article",
			Industry:    "dental",
			PublishedAt: time.Now().UTC(),
		},
	}

	_, err = db.UpsertNews(ctx, articles)
	require.NoError(t, err)

	after, err := db.CountRows(ctx, "news_articles")
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	page, err := db.ListNews(ctx, models.NewsFilter{Industry: "dental"}, 20, "")
	require.NoError(t, err)
	var found bool
	for _, a := range page.Articles {
		if a.URL == "https://news.example.com/dental/clear-aligner-record" {
			found = true
			assert.Equal(t, "Updated headline", a.Title)
		}
	}
	assert.True(t, found)
}

func TestUpsertGrowthPoints(t *testing.T) {
	db := newSeededDB(t)
	ctx := context.Background()

	points := []models.GrowthPoint{
		{Industry: "dental", Year: 2025, MarketSize: 180.0, GrowthRate: 6.2}, // update
		{Industry: "dental", Year: 2026, MarketSize: 190.0, GrowthRate: 5.6}, // insert
		{Industry: "dental", Year: 2031, MarketSize: 999, Projected: true},   // skipped
	}

	_, err := db.UpsertGrowthPoints(ctx, points)
	require.NoError(t, err)

	series, err := db.GetGrowthSeries(ctx, "dental", 2026)
	require.NoError(t, err)
	require.Len(t, series, 1)

	last := series[0].Points[len(series[0].Points)-1]
	assert.Equal(t, 2026, last.Year)
	assert.Equal(t, 190.0, last.MarketSize)
	assert.False(t, last.Projected)

	var size2025 float64
	for _, p := range series[0].Points {
		if p.Year == 2025 {
			size2025 = p.MarketSize
		}
	}
	assert.Equal(t, 180.0, size2025)

	count, err := db.CountRows(ctx, "market_growth")
	require.NoError(t, err)
	assert.Equal(t, int64(15), count) // 14 seeded + one new year
}

func TestGetStats(t *testing.T) {
	db := newSeededDB(t)

	stats, err := db.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(36), stats.TableCounts["procedures"])
	assert.Equal(t, int64(12), stats.TableCounts["categories"])
	assert.Greater(t, stats.TotalRows, int64(100))
	require.NotNil(t, stats.LastRefreshAt)
	assert.WithinDuration(t, time.Now(), *stats.LastRefreshAt, time.Minute)
}
