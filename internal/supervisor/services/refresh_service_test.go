// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tswanson-dev/marketscope/internal/loader"
)

type mockRefresher struct {
	calls atomic.Int32
	err   error
}

func (m *mockRefresher) RefreshFromFeed(ctx context.Context) (*loader.RefreshReport, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &loader.RefreshReport{Source: "feed"}, nil
}

func TestRefreshServiceTicks(t *testing.T) {
	refresher := &mockRefresher{}
	svc := NewRefreshService(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 65*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, refresher.calls.Load(), int32(2))
}

func TestRefreshServiceSurvivesErrors(t *testing.T) {
	refresher := &mockRefresher{err: errors.New("feed down")}
	svc := NewRefreshService(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// errors must not terminate the loop
	assert.GreaterOrEqual(t, refresher.calls.Load(), int32(2))
}

func TestRefreshServiceString(t *testing.T) {
	assert.Equal(t, "feed-refresher", NewRefreshService(&mockRefresher{}, time.Minute).String())
}
