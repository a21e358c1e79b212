// Marketscope - Dental and Aesthetic Market Analytics
// Copyright 2026 T. Swanson (tswanson-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tswanson-dev/marketscope

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("overview", map[string]int{"total_procedures": 40})

	got, ok := c.Get("overview")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"total_procedures": 40}, got)
}

func TestCacheMiss(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(0), stats.Hits)
}

func TestCacheExpiration(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("growth:dental", "series", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("growth:dental")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Evictions)
}

func TestCacheDelete(t *testing.T) {
	c := New(time.Minute)

	c.Set("stats", 1)
	c.Delete("stats")

	_, ok := c.Get("stats")
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
	assert.Equal(t, int64(0), c.GetStats().TotalKeys)
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)
	assert.Equal(t, 0.0, c.HitRate())

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	assert.InDelta(t, 66.66, c.HitRate(), 0.1)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("key-%d", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("key-%d", n))
		}(i)
	}
	wg.Wait()
}

func TestGenerateKey(t *testing.T) {
	type filter struct {
		Industry string
		Limit    int
	}

	k1 := GenerateKey("procedures", filter{Industry: "dental", Limit: 20})
	k2 := GenerateKey("procedures", filter{Industry: "dental", Limit: 20})
	k3 := GenerateKey("procedures", filter{Industry: "aesthetic", Limit: 20})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "procedures:")
}

func TestGenerateKeyUnmarshalableParams(t *testing.T) {
	k := GenerateKey("stats", make(chan int))
	assert.Contains(t, k, "stats:")
}
