// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package loader reconciles the store against the expected schema and keeps
// the dataset fresh: idempotent create-if-missing/seed-if-empty checks at
// startup, and periodic refresh from the upstream feed with a bundled-data
// fallback.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/feed"
	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/metrics"
)

// Table reconciliation outcomes.
const (
	OutcomeOK      = "ok"      // table existed with rows
	OutcomeCreated = "created" // table was missing and has been created (and seeded)
	OutcomeSeeded  = "seeded"  // table existed but was empty and has been seeded
	OutcomeFailed  = "failed"  // table is unusable (create failed or still empty)
)

// SnapshotFetcher is the feed client surface the loader needs.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (*feed.Snapshot, error)
}

// Invalidator clears cached query results after the dataset changes.
type Invalidator interface {
	Clear()
}

// TableStatus is the reconciliation outcome for one table.
type TableStatus struct {
	Table   string `json:"table"`
	Outcome string `json:"outcome"`
	Rows    int64  `json:"rows"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes one reconciliation pass.
type Report struct {
	Tables    []TableStatus `json:"tables"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Failed lists the tables that ended unusable.
func (r *Report) Failed() []string {
	var failed []string
	for _, t := range r.Tables {
		if t.Outcome == OutcomeFailed {
			failed = append(failed, t.Table)
		}
	}
	return failed
}

// RefreshReport summarizes one feed refresh.
type RefreshReport struct {
	Source        string        `json:"source"` // "feed" or "reference"
	GrowthWritten int64         `json:"growth_written"`
	NewsWritten   int64         `json:"news_written"`
	Fallback      bool          `json:"fallback"`
	Duration      time.Duration `json:"duration"`
}

// Loader wires the store, the feed client, and the cache together.
type Loader struct {
	db          *database.DB
	feed        SnapshotFetcher // nil when the feed is disabled
	cache       Invalidator     // nil when no cache is attached
	seedOnEmpty bool
}

// New creates a Loader with seeding of empty tables enabled. feedClient and
// cache may be nil.
func New(db *database.DB, feedClient SnapshotFetcher, cache Invalidator) *Loader {
	return &Loader{db: db, feed: feedClient, cache: cache, seedOnEmpty: true}
}

// SetSeedOnEmpty controls whether Reconcile seeds reference data into empty
// tables. With seeding disabled an empty table is reported as failed instead.
func (l *Loader) SetSeedOnEmpty(enabled bool) {
	l.seedOnEmpty = enabled
}

// Reconcile checks every expected table: create if missing, seed if empty.
// The returned report carries a per-table outcome; the error is non-nil only
// when at least one table ends unusable.
func (l *Loader) Reconcile(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: time.Now()}

	for _, table := range database.TableNames {
		status := l.reconcileTable(ctx, table)
		report.Tables = append(report.Tables, status)
		metrics.ReconcileTableOutcome.WithLabelValues(table, status.Outcome).Inc()

		logging.Info().
			Str("table", table).
			Str("outcome", status.Outcome).
			Int64("rows", status.Rows).
			Msg("Reconciled table")
	}

	report.Duration = time.Since(report.StartedAt)

	if failed := report.Failed(); len(failed) > 0 {
		return report, fmt.Errorf("reconciliation left tables unusable: %s", strings.Join(failed, ", "))
	}
	return report, nil
}

// reconcileTable runs the existence/count/seed checks for one table.
func (l *Loader) reconcileTable(ctx context.Context, table string) TableStatus {
	status := TableStatus{Table: table, Outcome: OutcomeOK}

	exists, err := l.db.TableExists(ctx, table)
	if err != nil {
		status.Outcome = OutcomeFailed
		status.Error = err.Error()
		return status
	}

	created := false
	if !exists {
		if err := l.db.CreateTable(ctx, table); err != nil {
			status.Outcome = OutcomeFailed
			status.Error = fmt.Sprintf("create failed: %v", err)
			return status
		}
		created = true
	}

	count, err := l.db.CountRows(ctx, table)
	if err != nil {
		status.Outcome = OutcomeFailed
		status.Error = err.Error()
		return status
	}

	if count == 0 {
		if l.seedOnEmpty {
			count = l.seedEmptyTable(ctx, table, &status)
		} else {
			status.Error = "table is empty and seed_on_empty is disabled"
		}
	}

	status.Rows = count
	if created {
		status.Outcome = OutcomeCreated
	}
	if count == 0 && status.Outcome != OutcomeFailed {
		// a data table with zero rows serves nothing
		status.Outcome = OutcomeFailed
		if status.Error == "" {
			status.Error = "table is empty after seeding"
		}
	}
	return status
}

// seedEmptyTable fills an empty table from the bundled dataset and returns
// the resulting row count. rls_policies is registry-managed rather than
// reference-seeded.
func (l *Loader) seedEmptyTable(ctx context.Context, table string, status *TableStatus) int64 {
	var err error
	if table == "rls_policies" {
		err = l.db.RegisterRLSPolicies(ctx)
	} else {
		_, err = l.db.SeedTableByName(ctx, table)
	}
	if err != nil {
		status.Outcome = OutcomeFailed
		status.Error = fmt.Sprintf("seed failed: %v", err)
		return 0
	}
	status.Outcome = OutcomeSeeded

	count, err := l.db.CountRows(ctx, table)
	if err != nil {
		status.Outcome = OutcomeFailed
		status.Error = err.Error()
		return 0
	}
	return count
}

// RefreshFromFeed pulls the current snapshot from the upstream feed and
// upserts it. On total feed failure it falls back to the bundled reference
// dataset, which only fills empty tables and therefore never leaves a
// previously-populated table empty.
func (l *Loader) RefreshFromFeed(ctx context.Context) (*RefreshReport, error) {
	start := time.Now()
	report := &RefreshReport{Source: "feed"}
	defer func() {
		report.Duration = time.Since(start)
		metrics.FeedRefreshDuration.Observe(report.Duration.Seconds())
	}()

	if l.feed == nil {
		return l.fallbackToReference(ctx, report, errors.New("feed disabled"))
	}

	snapshot, err := l.feed.FetchSnapshot(ctx)
	if err != nil {
		return l.fallbackToReference(ctx, report, err)
	}

	growth, err := l.db.UpsertGrowthPoints(ctx, snapshot.GrowthPoints)
	if err != nil {
		return report, fmt.Errorf("failed to upsert growth points: %w", err)
	}
	report.GrowthWritten = growth

	news, err := l.db.UpsertNews(ctx, snapshot.NewsArticles)
	if err != nil {
		return report, fmt.Errorf("failed to upsert news: %w", err)
	}
	report.NewsWritten = news

	l.invalidate()
	logging.Info().
		Int64("growth_points", growth).
		Int64("news_articles", news).
		Msg("Refreshed dataset from feed")
	return report, nil
}

// fallbackToReference reseeds any empty tables from the bundled dataset.
func (l *Loader) fallbackToReference(ctx context.Context, report *RefreshReport, cause error) (*RefreshReport, error) {
	report.Source = "reference"
	report.Fallback = true
	metrics.FeedFallbacks.Inc()
	logging.Warn().Err(cause).Msg("Feed refresh unavailable, falling back to bundled reference dataset")

	results, err := l.db.SeedAll(ctx, false)
	if err != nil {
		return report, fmt.Errorf("reference fallback failed: %w", err)
	}
	for _, r := range results {
		report.GrowthWritten += r.Inserted
	}

	l.invalidate()
	return report, nil
}

func (l *Loader) invalidate() {
	if l.cache != nil {
		l.cache.Clear()
	}
}
