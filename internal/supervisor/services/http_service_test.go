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
	"github.com/stretchr/testify/require"
)

// mockHTTPServer implements HTTPServer. ListenAndServe blocks until Shutdown.
type mockHTTPServer struct {
	listenErr     error
	shutdownCalls atomic.Int32
	closed        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{closed: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.closed
	return errors.New("http: Server closed")
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	if m.shutdownCalls.Add(1) == 1 {
		close(m.closed)
	}
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	srv := newMockHTTPServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	assert.Equal(t, int32(1), srv.shutdownCalls.Load())
}

func TestHTTPServiceStartupFailure(t *testing.T) {
	srv := newMockHTTPServer()
	srv.listenErr = errors.New("bind: address already in use")
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.Zero(t, srv.shutdownCalls.Load())
}

func TestHTTPServiceDefaultsShutdownTimeout(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), 0)
	assert.Equal(t, 10*time.Second, svc.shutdownTimeout)
	assert.Equal(t, "http-server", svc.String())
}
