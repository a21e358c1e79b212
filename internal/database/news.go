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

// ListNews returns one page of news articles ordered by published_at
// descending (id as tie-breaker), filterable by industry and category.
func (db *DB) ListNews(ctx context.Context, filter models.NewsFilter, limit int, cursorToken string) (*models.NewsResponse, error) {
	start := time.Now()

	var conditions []string
	var args []interface{}
	if filter.Industry != "" {
		conditions = append(conditions, "industry = ?")
		args = append(args, filter.Industry)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	if cursorToken != "" {
		var cursor models.NewsCursor
		if err := decodeCursor(cursorToken, &cursor); err != nil {
			return nil, err
		}
		conditions = append(conditions, "(published_at, CAST(id AS VARCHAR)) < (?, ?)")
		args = append(args, cursor.PublishedAt, cursor.ID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT CAST(id AS VARCHAR), title, source, url, industry,
			COALESCE(category, ''), COALESCE(summary, ''), published_at, fetched_at
		FROM news_articles
		%s
		ORDER BY published_at DESC, CAST(id AS VARCHAR) DESC
		LIMIT ?
	`, where)
	args = append(args, limit+1)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.ObserveDBQuery("list", "news_articles", start, err)
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	defer closeWithLog(rows, "news rows")

	articles := []models.NewsArticle{}
	for rows.Next() {
		var a models.NewsArticle
		var idStr string
		if err := rows.Scan(&idStr, &a.Title, &a.Source, &a.URL, &a.Industry,
			&a.Category, &a.Summary, &a.PublishedAt, &a.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news article: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse article id %q: %w", idStr, err)
		}
		a.ID = id
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		metrics.ObserveDBQuery("list", "news_articles", start, err)
		return nil, err
	}

	resp := &models.NewsResponse{
		Articles:   articles,
		Pagination: models.PaginationInfo{Limit: limit},
	}
	if len(articles) > limit {
		resp.Articles = articles[:limit]
		resp.Pagination.HasMore = true

		last := resp.Articles[limit-1]
		token, err := encodeCursor(models.NewsCursor{
			PublishedAt: last.PublishedAt,
			ID:          last.ID.String(),
		})
		if err != nil {
			return nil, err
		}
		resp.Pagination.NextCursor = &token
	}

	metrics.ObserveDBQuery("list", "news_articles", start, nil)
	return resp, nil
}

// UpsertNews inserts or refreshes news articles pulled from the feed.
// Conflicts on url update the mutable fields; returns the number of rows
// written.
func (db *DB) UpsertNews(ctx context.Context, articles []models.NewsArticle) (int64, error) {
	start := time.Now()
	var written int64

	for _, a := range articles {
		id := a.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		res, err := db.conn.ExecContext(ctx, `
			INSERT INTO news_articles (id, title, source, url, industry, category, summary, published_at, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (url) DO UPDATE SET
				title = EXCLUDED.title,
				summary = EXCLUDED.summary,
				category = EXCLUDED.category,
				fetched_at = EXCLUDED.fetched_at
		`, id.String(), a.Title, a.Source, a.URL, a.Industry, a.Category, a.Summary,
			a.PublishedAt, time.Now().UTC())
		if err != nil {
			metrics.ObserveDBQuery("upsert", "news_articles", start, err)
			return written, fmt.Errorf("failed to upsert article %q: %w", a.URL, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		} else {
			written++
		}
	}

	metrics.ObserveDBQuery("upsert", "news_articles", start, nil)
	return written, nil
}

// UpsertGrowthPoints inserts or refreshes market-growth points pulled from
// the feed. Conflicts on (industry, year) update the measurements.
func (db *DB) UpsertGrowthPoints(ctx context.Context, points []models.GrowthPoint) (int64, error) {
	start := time.Now()
	var written int64

	for _, p := range points {
		if p.Projected {
			// Projections are computed at read time, never stored.
			continue
		}
		res, err := db.conn.ExecContext(ctx, `
			INSERT INTO market_growth (industry, year, market_size, growth_rate)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (industry, year) DO UPDATE SET
				market_size = EXCLUDED.market_size,
				growth_rate = EXCLUDED.growth_rate
		`, p.Industry, p.Year, p.MarketSize, p.GrowthRate)
		if err != nil {
			metrics.ObserveDBQuery("upsert", "market_growth", start, err)
			return written, fmt.Errorf("failed to upsert growth point %s/%d: %w", p.Industry, p.Year, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			written += n
		} else {
			written++
		}
	}

	metrics.ObserveDBQuery("upsert", "market_growth", start, nil)
	return written, nil
}
