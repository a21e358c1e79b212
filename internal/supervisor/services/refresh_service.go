// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package services

import (
	"context"
	"time"

	"github.com/tswanson-dev/marketscope/internal/loader"
	"github.com/tswanson-dev/marketscope/internal/logging"
)

// Refresher matches loader.Loader's feed refresh method.
type Refresher interface {
	RefreshFromFeed(ctx context.Context) (*loader.RefreshReport, error)
}

// RefreshService periodically refreshes market data from the upstream feed.
// A failing refresh is logged and retried at the next tick; the loader itself
// already falls back to the bundled reference dataset.
type RefreshService struct {
	refresher Refresher
	interval  time.Duration
	name      string
}

// NewRefreshService creates the periodic refresher. The interval must be
// positive; callers disable refresh by not adding the service at all.
func NewRefreshService(refresher Refresher, interval time.Duration) *RefreshService {
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		name:      "feed-refresher",
	}
}

// Serve implements suture.Service. The first refresh happens one interval
// after startup since the startup path already runs its own refresh.
func (s *RefreshService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			report, err := s.refresher.RefreshFromFeed(ctx)
			if err != nil {
				logging.Error().Err(err).Msg("Scheduled feed refresh failed")
				continue
			}
			logging.Info().
				Str("source", report.Source).
				Int64("growth_written", report.GrowthWritten).
				Int64("news_written", report.NewsWritten).
				Bool("fallback", report.Fallback).
				Dur("duration", report.Duration).
				Msg("Scheduled feed refresh complete")
		}
	}
}

// String implements fmt.Stringer; suture uses it to identify the service.
func (s *RefreshService) String() string {
	return s.name
}
