// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
//
// Status is "success" (see Data) or "error" (see Error). Metadata carries
// timing and cache information for observability.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata. QueryTimeMS is the database execution
// time in milliseconds; cached responses report 0 with Cached set.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError carries a machine-readable code ("VALIDATION_ERROR",
// "DATABASE_ERROR", "NOT_FOUND", ...) with a human-readable message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo is cursor-based pagination metadata. Cursors are opaque
// base64-encoded JSON of the sort key + id, stable under concurrent inserts.
type PaginationInfo struct {
	Limit      int     `json:"limit"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

// ProcedureCursor encodes the position in a procedure listing:
// popularity rank ascending with the row id as tie-breaker.
type ProcedureCursor struct {
	PopularityRank int    `json:"popularity_rank"`
	ID             string `json:"id"`
}

// NewsCursor encodes the position in a news listing:
// published_at descending with the row id as tie-breaker.
type NewsCursor struct {
	PublishedAt time.Time `json:"published_at"`
	ID          string    `json:"id"`
}

// ProceduresResponse wraps a procedure page with its pagination info.
type ProceduresResponse struct {
	Procedures []Procedure    `json:"procedures"`
	Pagination PaginationInfo `json:"pagination"`
}

// NewsResponse wraps a news page with its pagination info.
type NewsResponse struct {
	Articles   []NewsArticle  `json:"articles"`
	Pagination PaginationInfo `json:"pagination"`
}
