// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package diagnostics

import (
	"fmt"
	"strings"
	"time"
)

// RenderReport formats a probe result as a human-readable text report with
// target, reachability, latency, verdict, and advice sections.
func RenderReport(r *Result) string {
	var b strings.Builder

	b.WriteString("=== API Diagnostics Report ===\n\n")

	b.WriteString("Target\n")
	fmt.Fprintf(&b, "  base url:    %s\n", r.Target)
	fmt.Fprintf(&b, "  health path: %s\n\n", r.HealthPath)

	b.WriteString("Reachability\n")
	ok, failed := 0, 0
	for _, s := range r.Samples {
		if s.OK() {
			ok++
		} else {
			failed++
		}
	}
	fmt.Fprintf(&b, "  samples:    %d\n", len(r.Samples))
	fmt.Fprintf(&b, "  successful: %d\n", ok)
	fmt.Fprintf(&b, "  failed:     %d\n", failed)
	for _, s := range r.Samples {
		if s.Err != "" {
			fmt.Fprintf(&b, "    sample %d: %s (%s)\n", s.Index+1, s.ErrType, s.Err)
		} else {
			fmt.Fprintf(&b, "    sample %d: %d in %s\n", s.Index+1, s.StatusCode, s.Latency.Round(time.Millisecond))
		}
	}
	b.WriteString("\n")

	b.WriteString("Latency\n")
	fmt.Fprintf(&b, "  first:        %s\n", firstLatency(r.Samples).Round(time.Millisecond))
	fmt.Fprintf(&b, "  min:          %s\n", r.MinLatency.Round(time.Millisecond))
	fmt.Fprintf(&b, "  later median: %s\n", r.MedianLater.Round(time.Millisecond))
	fmt.Fprintf(&b, "  max:          %s\n\n", r.MaxLatency.Round(time.Millisecond))

	fmt.Fprintf(&b, "Verdict: %s\n\n", strings.ToUpper(r.Verdict))

	b.WriteString("Advice\n")
	fmt.Fprintf(&b, "  %s\n", r.Advice)

	return b.String()
}
