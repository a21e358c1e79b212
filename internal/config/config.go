// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package config provides layered configuration for Marketscope using Koanf v2.
//
// Precedence (highest wins): environment variables > YAML config file > defaults.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for all Marketscope binaries.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Feed     FeedConfig     `koanf:"feed"`
	Loader   LoaderConfig   `koanf:"loader"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Probe    ProbeConfig    `koanf:"probe"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file, or ":memory:" for an in-memory store.
	Path string `koanf:"path"`
	// MaxMemory is DuckDB's memory limit (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
	// PreserveInsertionOrder trades memory for stable unordered result order.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// FeedConfig holds settings for the upstream market-data feed.
type FeedConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
	// RequestsPerSecond paces outbound feed calls. 0 = unlimited.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// BreakerMaxFailures is the consecutive-failure count that opens the
	// circuit breaker.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`
	// BreakerCooldown is how long the breaker stays open before a half-open probe.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// LoaderConfig holds settings for schema/data reconciliation.
type LoaderConfig struct {
	// SeedOnEmpty seeds reference data into any expected table found empty.
	SeedOnEmpty bool `koanf:"seed_on_empty"`
	// RefreshInterval is the period between feed refreshes. 0 disables the
	// background refresher.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	// RefreshOnStartup performs one feed refresh during reconciliation.
	RefreshOnStartup bool `koanf:"refresh_on_startup"`
}

// APIConfig holds read-API behavior settings.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds CORS and rate-limit settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// ProbeConfig holds diagnostics probe settings for cmd/diagnose.
type ProbeConfig struct {
	// TargetURL is the base URL of the hosted API to probe.
	TargetURL string `koanf:"target_url"`
	// HealthPath is appended to TargetURL for probe requests.
	HealthPath string `koanf:"health_path"`
	// Samples is the number of probe requests to issue.
	Samples int `koanf:"samples"`
	// Interval is the spacing between probe requests.
	Interval time.Duration `koanf:"interval"`
	// Timeout is the per-request timeout.
	Timeout time.Duration `koanf:"timeout"`
	// HibernationThreshold is the first-response latency above which the
	// target is suspected to be waking from hibernation.
	HibernationThreshold time.Duration `koanf:"hibernation_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.Feed.Enabled {
		if err := validateHTTPURL("feed.url", c.Feed.URL); err != nil {
			return err
		}
	}
	if c.Probe.TargetURL != "" {
		if err := validateHTTPURL("probe.target_url", c.Probe.TargetURL); err != nil {
			return err
		}
	}
	if c.Probe.Samples < 1 {
		return fmt.Errorf("probe.samples must be at least 1, got %d", c.Probe.Samples)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_requests must be at least 1 when rate limiting is enabled")
	}
	return nil
}

// validateHTTPURL checks that value parses as an absolute http(s) URL.
func validateHTTPURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}

// IsProduction reports whether the server runs with production checks enabled.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
