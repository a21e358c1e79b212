// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package api provides the HTTP read API for the dashboard: one endpoint per
// tab, health probes, and Prometheus metrics exposure. Routing uses Chi with
// go-chi/cors and go-chi/httprate middleware.
package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tswanson-dev/marketscope/internal/cache"
	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	db    *database.DB
	cache *cache.Cache
	cfg   *config.Config
	ready atomic.Bool
}

// NewHandler creates a Handler. The cache may be nil to disable response caching.
func NewHandler(db *database.DB, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{db: db, cache: c, cfg: cfg}
}

// SetReady marks startup reconciliation as complete; the readiness probe
// reports 503 until this is called.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// respondFromCache serves a cached payload if present. Returns true on a hit.
func (h *Handler) respondFromCache(w http.ResponseWriter, cacheKey string) bool {
	if h.cache == nil {
		return false
	}
	cached, found := h.cache.Get(cacheKey)
	if !found {
		return false
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   cached,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			Cached:    true,
		},
	})
	return true
}

// cacheAndRespond stores the payload and writes the success envelope with the
// measured query time.
func (h *Handler) cacheAndRespond(w http.ResponseWriter, cacheKey string, data interface{}, start time.Time) {
	if h.cache != nil {
		h.cache.Set(cacheKey, data)
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// pageSize resolves the limit query parameter against the configured default
// and maximum.
func (h *Handler) pageSize(r *http.Request) (int, *models.APIError) {
	limit := getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 {
		return 0, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "limit must be at least 1",
		}
	}
	if limit > h.cfg.API.MaxPageSize {
		return 0, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "limit exceeds the maximum page size",
			Details: map[string]interface{}{"max": h.cfg.API.MaxPageSize},
		}
	}
	return limit, nil
}
