// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package feed implements the client for the upstream market-data feed.
//
// The upstream exposes two generations of API. The current one serves a JSON
// snapshot at GET /api/v1/market-data. Older deployments only expose an RPC
// shim (POST /rpc/<name>) under one of three historical names. FetchSnapshot
// tries the primary endpoint first and walks the RPC names in order; the
// caller falls back to the bundled reference dataset when everything fails.
//
// All remote calls run behind a circuit breaker (open after a configurable
// run of consecutive failures, half-open probe after a cooldown) and a
// client-side rate limiter.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/metrics"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// rpcNames are the historical RPC shim names, tried in order.
var rpcNames = []string{"exec_sql", "execute_sql", "run_sql"}

// snapshotQuery is the statement sent to the RPC shim. The shim ignores
// everything but the dataset label and returns the same snapshot shape as
// the primary endpoint.
const snapshotQuery = "SELECT market_snapshot('current')"

// ErrFeedUnavailable indicates every endpoint variant failed or the breaker
// is open. Callers should fall back to the bundled reference dataset.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Snapshot is the dataset shape both feed endpoints return.
type Snapshot struct {
	GrowthPoints []models.GrowthPoint `json:"growth_points"`
	NewsArticles []models.NewsArticle `json:"news_articles"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// Client fetches market snapshots from the upstream feed.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*Snapshot]
	limiter *rate.Limiter
}

// NewClient builds a feed client from config. The breaker opens after
// cfg.BreakerMaxFailures consecutive failures and probes again after
// cfg.BreakerCooldown.
func NewClient(cfg *config.FeedConfig) *Client {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	cb := gobreaker.NewCircuitBreaker[*Snapshot](gobreaker.Settings{
		Name:    "market-feed",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Feed circuit breaker state change")
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FetchSnapshot retrieves the current market snapshot, trying the primary
// endpoint and then each RPC shim name. Returns ErrFeedUnavailable (wrapped)
// when nothing answers or the breaker is open.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("feed rate limiter: %w", err)
	}

	snapshot, err := c.cb.Execute(func() (*Snapshot, error) {
		return c.fetchWithFallback(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.FeedRequestsTotal.WithLabelValues("breaker", "breaker_open").Inc()
			return nil, fmt.Errorf("%w: circuit breaker open", ErrFeedUnavailable)
		}
		return nil, err
	}
	return snapshot, nil
}

// fetchWithFallback tries the primary endpoint, then the RPC names in order.
func (c *Client) fetchWithFallback(ctx context.Context) (*Snapshot, error) {
	snapshot, primaryErr := c.fetchPrimary(ctx)
	if primaryErr == nil {
		metrics.FeedRequestsTotal.WithLabelValues("market-data", "success").Inc()
		return snapshot, nil
	}
	metrics.FeedRequestsTotal.WithLabelValues("market-data", "error").Inc()
	logging.Warn().Err(primaryErr).Msg("Primary feed endpoint failed, trying RPC shim")

	var lastErr error = primaryErr
	for _, name := range rpcNames {
		snapshot, err := c.fetchRPC(ctx, name)
		if err == nil {
			metrics.FeedRequestsTotal.WithLabelValues("rpc/"+name, "success").Inc()
			logging.Info().Str("rpc", name).Msg("Feed RPC shim answered")
			return snapshot, nil
		}
		metrics.FeedRequestsTotal.WithLabelValues("rpc/"+name, "error").Inc()
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, lastErr)
}

// fetchPrimary calls GET {base}/api/v1/market-data.
func (c *Client) fetchPrimary(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/market-data", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	c.setHeaders(req)

	return c.doSnapshot(req)
}

// fetchRPC calls POST {base}/rpc/<name> with the snapshot query.
func (c *Client) fetchRPC(ctx context.Context, name string) (*Snapshot, error) {
	body, err := json.Marshal(map[string]string{"query": snapshotQuery})
	if err != nil {
		return nil, fmt.Errorf("failed to encode RPC body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/rpc/"+name, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build RPC request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	return c.doSnapshot(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}
}

// doSnapshot executes the request and decodes the snapshot.
func (c *Client) doSnapshot(req *http.Request) (*Snapshot, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode feed snapshot: %w", err)
	}
	if len(snapshot.GrowthPoints) == 0 && len(snapshot.NewsArticles) == 0 {
		return nil, errors.New("feed snapshot is empty")
	}
	return &snapshot, nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
