// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// The diagnose binary probes a hosted deployment for hibernation symptoms.
// It sends spaced health-check requests, classifies the latency pattern, and
// prints a text report. The exit code reflects the verdict so cron jobs and
// CI checks can alert on a suspended service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/diagnostics"
	"github.com/tswanson-dev/marketscope/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	targetURL := flag.String("url", "", "base URL to probe (overrides config)")
	samples := flag.Int("samples", 0, "number of probe requests (overrides config)")
	timeout := flag.Duration("timeout", 0, "per-request timeout (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("marketscope-diagnose %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	probeCfg := cfg.Probe
	if *targetURL != "" {
		probeCfg.TargetURL = *targetURL
	}
	if *samples > 0 {
		probeCfg.Samples = *samples
	}
	if *timeout > 0 {
		probeCfg.Timeout = *timeout
	}
	if probeCfg.TargetURL == "" {
		fmt.Fprintln(os.Stderr, "no target: set -url or probe.target_url")
		os.Exit(2)
	}

	os.Exit(run(&probeCfg))
}

func run(probeCfg *config.ProbeConfig) int {
	// generous outer bound: samples * (interval + timeout) plus slack
	budget := time.Duration(probeCfg.Samples)*(probeCfg.Interval+probeCfg.Timeout) + 30*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	result, err := diagnostics.New(probeCfg).Probe(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "probe failed: %v\n", err)
		return 2
	}

	fmt.Print(diagnostics.RenderReport(result))

	switch result.Verdict {
	case diagnostics.VerdictResponsive, diagnostics.VerdictWaking:
		return 0
	default:
		return 1
	}
}
