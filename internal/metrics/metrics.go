// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package metrics provides Prometheus instrumentation for Marketscope:
// DuckDB query performance, API latency/throughput, reference seeding,
// feed refresh outcomes, and cache efficiency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Seeding metrics

	SeedRowsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_rows_inserted_total",
			Help: "Total number of reference rows inserted during seeding",
		},
		[]string{"table"},
	)

	SeedRowsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_rows_failed_total",
			Help: "Total number of reference rows that failed to insert",
		},
		[]string{"table"},
	)

	SeedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_bulk_fallbacks_total",
			Help: "Times bulk insert failed and seeding fell back to row-at-a-time inserts",
		},
	)

	// API metrics

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache metrics

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Total number of analytics cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Total number of analytics cache misses",
		},
	)

	// Feed metrics

	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of upstream feed requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, breaker_open
	)

	FeedRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_refresh_duration_seconds",
			Help:    "Duration of full feed refresh cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	FeedFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_reference_fallbacks_total",
			Help: "Times a feed refresh fell back to the bundled reference dataset",
		},
	)

	// Diagnostics metrics

	ProbeVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probe_verdicts_total",
			Help: "Diagnostics probe verdicts by outcome",
		},
		[]string{"verdict"}, // hibernating, waking, responsive, unreachable
	)

	// Reconciliation metrics

	ReconcileTableOutcome = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_table_outcomes_total",
			Help: "Per-table reconciliation outcomes",
		},
		[]string{"table", "outcome"}, // outcome: ok, created, seeded, failed
	)
)

// ObserveDBQuery records a query duration and any error for a table/operation.
func ObserveDBQuery(operation, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// ObserveAPIRequest records one completed API request.
func ObserveAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
