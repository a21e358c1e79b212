// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tswanson-dev/marketscope/internal/cache"
	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/database"
	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/models"
)

// envelope mirrors models.APIResponse with a raw Data payload so each test
// can decode into its own shape.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			CacheTTL:        time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *Handler) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{MaxMemory: "512MB", Threads: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.SeedAll(context.Background(), false)
	require.NoError(t, err)

	cfg := testConfig()
	handler := NewHandler(db, cache.New(cfg.API.CacheTTL), cfg)
	handler.SetReady(true)
	return NewRouter(handler, &cfg.Security).Setup(), handler
}

func doGet(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func TestOverviewEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doGet(t, router, "/api/v1/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	var overview models.Overview
	require.NoError(t, json.Unmarshal(env.Data, &overview))
	assert.Equal(t, 36, overview.TotalProcedures)
	assert.Equal(t, 16, overview.TotalCompanies)
	assert.Len(t, overview.IndustrySummaries, 2)
	assert.Len(t, overview.FastestGrowing, 2)
}

func TestOverviewCachedOnSecondRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	_, first := doGet(t, router, "/api/v1/overview")
	assert.False(t, first.Metadata.Cached)

	_, second := doGet(t, router, "/api/v1/overview")
	assert.True(t, second.Metadata.Cached)
	assert.Zero(t, second.Metadata.QueryTimeMS)
}

func TestProceduresPagination(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doGet(t, router, "/api/v1/procedures?limit=30")
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.ProceduresResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Procedures, 30)
	require.True(t, page.Pagination.HasMore)
	require.NotNil(t, page.Pagination.NextCursor)

	_, env = doGet(t, router, "/api/v1/procedures?limit=30&cursor="+*page.Pagination.NextCursor)
	var rest models.ProceduresResponse
	require.NoError(t, json.Unmarshal(env.Data, &rest))
	assert.Len(t, rest.Procedures, 6)
	assert.False(t, rest.Pagination.HasMore)
}

func TestProceduresFilterByIndustry(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doGet(t, router, "/api/v1/procedures?industry=dental&limit=100")
	var page models.ProceduresResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Procedures, 18)
	for _, p := range page.Procedures {
		assert.Equal(t, "dental", p.Industry)
	}
}

func TestProceduresRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := map[string]string{
		"bad industry":  "/api/v1/procedures?industry=veterinary",
		"bad cursor":    "/api/v1/procedures?cursor=%21%21not-base64%21%21",
		"limit too big": "/api/v1/procedures?limit=5000",
		"limit zero":    "/api/v1/procedures?limit=0",
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := doGet(t, router, path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestProceduresGarbledCursorPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	// valid base64 that does not decode to a cursor
	rec, env := doGet(t, router, "/api/v1/procedures?cursor=bm90LWEtY3Vyc29y")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestCategoriesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doGet(t, router, "/api/v1/categories")
	var categories []models.Category
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, 12)
	for _, c := range categories {
		assert.Equal(t, 3, c.ProcedureCount)
	}

	_, env = doGet(t, router, "/api/v1/categories?industry=aesthetic")
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, 6)
}

func TestGrowthDefaultsProjectionYear(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doGet(t, router, "/api/v1/growth?industry=dental")
	var series []models.GrowthSeries
	require.NoError(t, json.Unmarshal(env.Data, &series))
	require.Len(t, series, 1)
	assert.Equal(t, 2030, series[0].ProjectionYear)

	last := series[0].Points[len(series[0].Points)-1]
	assert.Equal(t, 2030, last.Year)
	assert.True(t, last.Projected)
}

func TestGrowthRejectsOutOfRangeYear(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doGet(t, router, "/api/v1/growth?projection_year=2100")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestMetroMarketsSortValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doGet(t, router, "/api/v1/metro-markets?sort_by=population")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	_, env = doGet(t, router, "/api/v1/metro-markets?sort_by=growth_rate&industry=aesthetic")
	var markets []models.MetroMarket
	require.NoError(t, json.Unmarshal(env.Data, &markets))
	require.NotEmpty(t, markets)
	for i := 1; i < len(markets); i++ {
		assert.GreaterOrEqual(t, markets[i-1].GrowthRate, markets[i].GrowthRate)
	}
}

func TestNewsFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doGet(t, router, "/api/v1/news?industry=dental&limit=50")
	var page models.NewsResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Articles, 5)

	_, env = doGet(t, router, "/api/v1/news?category=trends&limit=50")
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Articles, 1)
}

func TestStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	_, env := doGet(t, router, "/api/v1/stats")
	var stats models.DatasetStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(36), stats.TableCounts["procedures"])
	assert.Greater(t, stats.TotalRows, int64(0))
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doGet(t, router, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
}

func TestHealthReadyGatedOnReconciliation(t *testing.T) {
	router, handler := newTestRouter(t)

	handler.SetReady(false)
	rec, env := doGet(t, router, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_READY", env.Error.Code)

	handler.SetReady(true)
	rec, env = doGet(t, router, "/api/v1/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP")
}

func TestErrorLogsCarryRequestID(t *testing.T) {
	db, err := database.New(&config.DatabaseConfig{MaxMemory: "512MB", Threads: 2})
	require.NoError(t, err)

	cfg := testConfig()
	handler := NewHandler(db, nil, cfg)
	handler.SetReady(true)
	router := NewRouter(handler, &cfg.Security).Setup()

	var buf bytes.Buffer
	prev := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&buf))
	t.Cleanup(func() { logging.SetLogger(prev) })

	// closing the store makes every query fail with a database error
	require.NoError(t, db.Close())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-Request-ID", "req-log-check-7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-log-check-7"`)
	assert.Contains(t, buf.String(), "DATABASE_ERROR")
}

func TestRequestIDEchoed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil)
	req.Header.Set("X-Request-ID", "upstream-id-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id-42", rec.Header().Get("X-Request-ID"))
}
