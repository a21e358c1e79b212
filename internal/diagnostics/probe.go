// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

// Package diagnostics probes a hosted HTTP API for hibernation symptoms.
//
// Free-tier hosting platforms suspend idle services; the first request after
// a suspension either times out or takes seconds while later requests are
// fast. The probe sends a small number of spaced requests to the health path
// and classifies the latency pattern into one of four verdicts.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tswanson-dev/marketscope/internal/config"
	"github.com/tswanson-dev/marketscope/internal/logging"
	"github.com/tswanson-dev/marketscope/internal/metrics"
)

// Probe verdicts.
const (
	VerdictHibernating = "hibernating" // every sample timed out
	VerdictWaking      = "waking"      // slow first sample, fast steady state
	VerdictResponsive  = "responsive"  // healthy latency profile
	VerdictUnreachable = "unreachable" // errors that are not wake-up symptoms
)

// Error classifications for a sample.
const (
	errTypeDNS     = "dns"
	errTypeTimeout = "timeout"
	errTypeConnect = "connect"
	errTypeHTTP    = "http"
)

// Sample is one probe request.
type Sample struct {
	Index      int           `json:"index"`
	Latency    time.Duration `json:"latency"`
	StatusCode int           `json:"status_code,omitempty"`
	ErrType    string        `json:"err_type,omitempty"`
	Err        string        `json:"err,omitempty"`
}

// OK reports whether the sample got a 2xx response.
func (s Sample) OK() bool {
	return s.Err == "" && s.StatusCode >= 200 && s.StatusCode < 300
}

// Result is the full probe outcome.
type Result struct {
	Target      string        `json:"target"`
	HealthPath  string        `json:"health_path"`
	Samples     []Sample      `json:"samples"`
	MinLatency  time.Duration `json:"min_latency"`
	MedianLater time.Duration `json:"median_later"` // median of samples after the first
	MaxLatency  time.Duration `json:"max_latency"`
	Verdict     string        `json:"verdict"`
	Advice      string        `json:"advice"`
}

// Prober runs spaced health-check requests against a target base URL.
type Prober struct {
	cfg     *config.ProbeConfig
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Prober from config.
func New(cfg *config.ProbeConfig) *Prober {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Prober{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Probe sends the configured number of spaced requests and classifies the
// result. The context bounds the whole run.
func (p *Prober) Probe(ctx context.Context) (*Result, error) {
	samples := p.cfg.Samples
	if samples <= 0 {
		samples = 5
	}

	url := strings.TrimRight(p.cfg.TargetURL, "/") + p.cfg.HealthPath
	result := &Result{
		Target:     p.cfg.TargetURL,
		HealthPath: p.cfg.HealthPath,
	}

	for i := 0; i < samples; i++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("probe interrupted: %w", err)
		}

		sample := p.sampleOnce(ctx, i, url)
		result.Samples = append(result.Samples, sample)

		logging.Debug().
			Int("sample", i).
			Dur("latency", sample.Latency).
			Int("status", sample.StatusCode).
			Str("err_type", sample.ErrType).
			Msg("Probe sample")
	}

	p.classify(result)
	metrics.ProbeVerdicts.WithLabelValues(result.Verdict).Inc()
	return result, nil
}

// sampleOnce performs a single health request and classifies any error.
func (p *Prober) sampleOnce(ctx context.Context, index int, url string) Sample {
	sample := Sample{Index: index}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		sample.ErrType = errTypeConnect
		sample.Err = err.Error()
		return sample
	}

	start := time.Now()
	resp, err := p.http.Do(req)
	sample.Latency = time.Since(start)

	if err != nil {
		sample.ErrType = classifyError(err)
		sample.Err = err.Error()
		return sample
	}
	defer func() { _ = resp.Body.Close() }()

	sample.StatusCode = resp.StatusCode
	if resp.StatusCode >= 400 {
		sample.ErrType = errTypeHTTP
		sample.Err = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return sample
}

// classifyError distinguishes DNS failures, timeouts, and connect errors.
func classifyError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return errTypeDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errTypeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errTypeTimeout
	}
	return errTypeConnect
}

// classify fills latency stats and the hibernation verdict.
//
// Heuristics: every sample timing out means the service never woke up
// (hibernating). A slow first sample with a fast steady state (later median
// under 25% of the first latency) is the classic cold-start signature
// (waking). Any successful sample otherwise is responsive; everything else
// is unreachable.
func (p *Prober) classify(r *Result) {
	if len(r.Samples) == 0 {
		r.Verdict = VerdictUnreachable
		r.Advice = "No samples collected; increase the sample count."
		return
	}

	timeouts := 0
	successes := 0
	var latencies []time.Duration
	for _, s := range r.Samples {
		if s.ErrType == errTypeTimeout {
			timeouts++
		}
		if s.OK() {
			successes++
			latencies = append(latencies, s.Latency)
		}
	}

	r.MinLatency, r.MaxLatency = minMax(latencies)
	r.MedianLater = medianLatency(laterOK(r.Samples))

	threshold := p.cfg.HibernationThreshold
	if threshold <= 0 {
		threshold = 2 * time.Second
	}

	switch {
	case timeouts == len(r.Samples):
		r.Verdict = VerdictHibernating
		r.Advice = "Every request timed out. The service appears suspended and is not waking; " +
			"trigger a deploy or upgrade the hosting plan to keep it warm."
	case successes > 0 && firstLatency(r.Samples) >= threshold &&
		r.MedianLater > 0 && r.MedianLater < firstLatency(r.Samples)/4:
		r.Verdict = VerdictWaking
		r.Advice = "Slow first response with a fast steady state: cold-start symptom. " +
			"Schedule a keep-alive ping or upgrade the hosting plan to avoid hibernation."
	case successes > 0:
		r.Verdict = VerdictResponsive
		r.Advice = "Latency profile looks healthy. No hibernation symptoms detected."
	default:
		r.Verdict = VerdictUnreachable
		r.Advice = "No successful responses. Check DNS, the base URL, and whether the service is deployed."
	}
}

// firstLatency returns the latency of the first sample regardless of outcome.
func firstLatency(samples []Sample) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	return samples[0].Latency
}

// laterOK returns successful samples after the first request.
func laterOK(samples []Sample) []time.Duration {
	var out []time.Duration
	for i, s := range samples {
		if i == 0 {
			continue
		}
		if s.OK() {
			out = append(out, s.Latency)
		}
	}
	return out
}

func medianLatency(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func minMax(latencies []time.Duration) (min, max time.Duration) {
	for i, l := range latencies {
		if i == 0 || l < min {
			min = l
		}
		if l > max {
			max = l
		}
	}
	return min, max
}
