// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package api

import (
	"net/http"
	"time"

	"github.com/tswanson-dev/marketscope/internal/cache"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// Request structs carry the query parameters of each endpoint so the
// validator can reject bad input before any query runs.

// IndustryRequest covers endpoints filtered only by industry.
type IndustryRequest struct {
	Industry string `validate:"omitempty,oneof=dental aesthetic"`
}

// ProceduresRequest holds /procedures query parameters.
type ProceduresRequest struct {
	Industry   string  `validate:"omitempty,oneof=dental aesthetic"`
	CategoryID int     `validate:"omitempty,gte=1"`
	MinGrowth  float64 `validate:"omitempty,gte=0"`
	Cursor     string  `validate:"omitempty,base64"`
}

// GrowthRequest holds /growth query parameters.
type GrowthRequest struct {
	Industry       string `validate:"omitempty,oneof=dental aesthetic"`
	ProjectionYear int    `validate:"gte=2020,lte=2050"`
}

// CompaniesRequest holds /companies query parameters.
type CompaniesRequest struct {
	Industry string `validate:"omitempty,oneof=dental aesthetic"`
	Segment  string `validate:"omitempty,max=64"`
}

// MetroMarketsRequest holds /metro-markets query parameters.
type MetroMarketsRequest struct {
	Industry string `validate:"omitempty,oneof=dental aesthetic"`
	State    string `validate:"omitempty,alpha,len=2"`
	SortBy   string `validate:"omitempty,oneof=market_size growth_rate"`
}

// NewsRequest holds /news query parameters.
type NewsRequest struct {
	Industry string `validate:"omitempty,oneof=dental aesthetic"`
	Category string `validate:"omitempty,max=64"`
	Cursor   string `validate:"omitempty,base64"`
}

// Overview returns the headline cards for the overview tab.
//
// Method: GET
// Path: /api/v1/overview
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cacheKey := cache.GenerateKey("overview", nil)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	overview, err := h.db.GetOverview(r.Context())
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, overview, start)
}

// Procedures returns a cursor-paginated procedure listing ordered by
// popularity rank.
//
// Method: GET
// Path: /api/v1/procedures
func (h *Handler) Procedures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := ProceduresRequest{
		Industry:   r.URL.Query().Get("industry"),
		CategoryID: getIntParam(r, "category_id", 0),
		MinGrowth:  getFloatParam(r, "min_growth", 0),
		Cursor:     r.URL.Query().Get("cursor"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}
	limit, apiErr := h.pageSize(r)
	if apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	filter := models.ProcedureFilter{
		Industry:   req.Industry,
		CategoryID: req.CategoryID,
		MinGrowth:  req.MinGrowth,
	}
	cacheKey := cache.GenerateKey("procedures", struct {
		ProceduresRequest
		Limit int
	}{req, limit})
	if h.respondFromCache(w, cacheKey) {
		return
	}

	page, err := h.db.ListProcedures(r.Context(), filter, limit, req.Cursor)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, page, start)
}

// Categories returns procedure categories with their procedure counts.
//
// Method: GET
// Path: /api/v1/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := IndustryRequest{Industry: r.URL.Query().Get("industry")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("categories", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	categories, err := h.db.ListCategories(r.Context(), req.Industry)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, categories, start)
}

// MarketAnalysis returns per-category aggregates ordered by market size.
//
// Method: GET
// Path: /api/v1/market-analysis
func (h *Handler) MarketAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := IndustryRequest{Industry: r.URL.Query().Get("industry")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("market-analysis", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	summaries, err := h.db.GetMarketAnalysis(r.Context(), req.Industry)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, summaries, start)
}

// Growth returns observed growth points plus a linear projection through the
// requested horizon year (default 2030).
//
// Method: GET
// Path: /api/v1/growth
func (h *Handler) Growth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := GrowthRequest{
		Industry:       r.URL.Query().Get("industry"),
		ProjectionYear: getIntParam(r, "projection_year", 2030),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("growth", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	series, err := h.db.GetGrowthSeries(r.Context(), req.Industry, req.ProjectionYear)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, series, start)
}

// Demographics returns patient demographic segments grouped by industry.
//
// Method: GET
// Path: /api/v1/demographics
func (h *Handler) Demographics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := IndustryRequest{Industry: r.URL.Query().Get("industry")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("demographics", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	views, err := h.db.GetDemographics(r.Context(), req.Industry)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, views, start)
}

// Companies returns market players ordered by market share.
//
// Method: GET
// Path: /api/v1/companies
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := CompaniesRequest{
		Industry: r.URL.Query().Get("industry"),
		Segment:  r.URL.Query().Get("segment"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("companies", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	companies, err := h.db.ListCompanies(r.Context(), models.CompanyFilter{
		Industry: req.Industry,
		Segment:  req.Segment,
	})
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, companies, start)
}

// MetroMarkets returns metropolitan market data, sortable by market size or
// growth rate.
//
// Method: GET
// Path: /api/v1/metro-markets
func (h *Handler) MetroMarkets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := MetroMarketsRequest{
		Industry: r.URL.Query().Get("industry"),
		State:    r.URL.Query().Get("state"),
		SortBy:   r.URL.Query().Get("sort_by"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("metro-markets", req)
	if h.respondFromCache(w, cacheKey) {
		return
	}

	markets, err := h.db.ListMetroMarkets(r.Context(), models.MetroFilter{
		Industry: req.Industry,
		State:    req.State,
		SortBy:   req.SortBy,
	})
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, markets, start)
}

// News returns a cursor-paginated news listing, newest first.
//
// Method: GET
// Path: /api/v1/news
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := NewsRequest{
		Industry: r.URL.Query().Get("industry"),
		Category: r.URL.Query().Get("category"),
		Cursor:   r.URL.Query().Get("cursor"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}
	limit, apiErr := h.pageSize(r)
	if apiErr != nil {
		respondAPIError(w, apiErr)
		return
	}

	cacheKey := cache.GenerateKey("news", struct {
		NewsRequest
		Limit int
	}{req, limit})
	if h.respondFromCache(w, cacheKey) {
		return
	}

	page, err := h.db.ListNews(r.Context(), models.NewsFilter{
		Industry: req.Industry,
		Category: req.Category,
	}, limit, req.Cursor)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	h.cacheAndRespond(w, cacheKey, page, start)
}

// Stats returns per-table row counts and the last refresh timestamp.
// Not cached: the endpoint exists to observe the live dataset.
//
// Method: GET
// Path: /api/v1/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
