// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/feed"
	"github.com/tswanson-dev/marketscope/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{MaxMemory: "512MB", Threads: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeFetcher struct {
	snapshot *feed.Snapshot
	err      error
	calls    int
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context) (*feed.Snapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

type fakeCache struct{ cleared int }

func (f *fakeCache) Clear() { f.cleared++ }

func TestReconcileFreshDatabase(t *testing.T) {
	db := newTestDB(t)
	l := New(db, nil, nil)

	report, err := l.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Tables, len(database.TableNames))

	for _, status := range report.Tables {
		// tables exist (created by database.New) but data tables start empty
		if status.Table == "rls_policies" {
			assert.Equal(t, OutcomeOK, status.Outcome)
		} else {
			assert.Equal(t, OutcomeSeeded, status.Outcome, "table %s", status.Table)
		}
		assert.Greater(t, status.Rows, int64(0), "table %s", status.Table)
	}
	assert.Empty(t, report.Failed())
}

func TestReconcileIdempotent(t *testing.T) {
	db := newTestDB(t)
	l := New(db, nil, nil)
	ctx := context.Background()

	_, err := l.Reconcile(ctx)
	require.NoError(t, err)

	countBefore, err := db.CountRows(ctx, "procedures")
	require.NoError(t, err)

	report, err := l.Reconcile(ctx)
	require.NoError(t, err)
	for _, status := range report.Tables {
		assert.Equal(t, OutcomeOK, status.Outcome, "table %s", status.Table)
	}

	countAfter, err := db.CountRows(ctx, "procedures")
	require.NoError(t, err)
	assert.Equal(t, countBefore, countAfter, "re-run must not duplicate rows")
}

func TestReconcileSeedOnEmptyDisabled(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	l := New(db, nil, nil)
	l.SetSeedOnEmpty(false)

	report, err := l.Reconcile(ctx)
	require.Error(t, err)

	// rls_policies is registry-filled when the database opens; every data
	// table stays empty and must be reported as unusable, not silently seeded
	assert.Len(t, report.Failed(), len(database.TableNames)-1)
	for _, status := range report.Tables {
		if status.Table == "rls_policies" {
			assert.Equal(t, OutcomeOK, status.Outcome)
			continue
		}
		assert.Equal(t, OutcomeFailed, status.Outcome, "table %s", status.Table)
	}

	count, err := db.CountRows(ctx, "procedures")
	require.NoError(t, err)
	assert.Zero(t, count, "disabled seeding must not insert rows")

	// flipping the switch back heals the store
	l.SetSeedOnEmpty(true)
	_, err = l.Reconcile(ctx)
	require.NoError(t, err)
}

func TestReconcileRecreatesDroppedTable(t *testing.T) {
	db := newTestDB(t)
	l := New(db, nil, nil)
	ctx := context.Background()

	_, err := l.Reconcile(ctx)
	require.NoError(t, err)

	_, err = db.Conn().ExecContext(ctx, "DROP TABLE metro_markets")
	require.NoError(t, err)

	report, err := l.Reconcile(ctx)
	require.NoError(t, err)

	for _, status := range report.Tables {
		if status.Table == "metro_markets" {
			assert.Equal(t, OutcomeCreated, status.Outcome)
			assert.Greater(t, status.Rows, int64(0))
		}
	}
}

func TestRefreshFromFeedUpserts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := db.SeedAll(ctx, false)
	require.NoError(t, err)

	cache := &fakeCache{}
	fetcher := &fakeFetcher{snapshot: &feed.Snapshot{
		GrowthPoints: []models.GrowthPoint{
			{Industry: "dental", Year: 2026, MarketSize: 188.4, GrowthRate: 5.3},
		},
		NewsArticles: []models.NewsArticle{
			{
				Title:       "Fresh from feed",
				Source:      "Wire",
				URL:         "https://news.example.com/fresh",
				Industry:    "dental",
				PublishedAt: time.Now().UTC(),
			},
		},
	}}

	l := New(db, fetcher, cache)
	report, err := l.RefreshFromFeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, "feed", report.Source)
	assert.False(t, report.Fallback)
	assert.Equal(t, int64(1), report.GrowthWritten)
	assert.Equal(t, int64(1), report.NewsWritten)
	assert.Equal(t, 1, cache.cleared)

	count, err := db.CountRows(ctx, "market_growth")
	require.NoError(t, err)
	assert.Equal(t, int64(15), count)
}

func TestRefreshFromFeedFallsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	fetcher := &fakeFetcher{err: feed.ErrFeedUnavailable}
	l := New(db, fetcher, nil)

	report, err := l.RefreshFromFeed(ctx)
	require.NoError(t, err)

	assert.Equal(t, "reference", report.Source)
	assert.True(t, report.Fallback)
	assert.Equal(t, 1, fetcher.calls)

	// fallback seeded the empty tables
	count, err := db.CountRows(ctx, "procedures")
	require.NoError(t, err)
	assert.Greater(t, count, int64(0))
}

func TestRefreshFallbackNeverEmptiesPopulatedTables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := db.SeedAll(ctx, false)
	require.NoError(t, err)

	// mutate a row so we can detect a destructive reseed
	_, err = db.Conn().ExecContext(ctx,
		`UPDATE market_growth SET market_size = 999 WHERE industry = 'dental' AND year = 2025`)
	require.NoError(t, err)

	l := New(db, &fakeFetcher{err: errors.New("boom")}, nil)
	report, err := l.RefreshFromFeed(ctx)
	require.NoError(t, err)
	assert.True(t, report.Fallback)

	var size float64
	err = db.Conn().QueryRowContext(ctx,
		`SELECT market_size FROM market_growth WHERE industry = 'dental' AND year = 2025`).Scan(&size)
	require.NoError(t, err)
	assert.Equal(t, 999.0, size, "fallback must not overwrite existing rows")
}

func TestRefreshFromFeedDisabled(t *testing.T) {
	db := newTestDB(t)

	l := New(db, nil, nil)
	report, err := l.RefreshFromFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "reference", report.Source)
	assert.True(t, report.Fallback)
}
