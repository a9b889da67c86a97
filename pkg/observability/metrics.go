// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"sync/atomic"
	"time"
)

// Metrics collects counters for a single bundling run.
// Safe for concurrent use.
type Metrics struct {
	files      atomic.Int64
	tokens     atomic.Int64
	bundles    atomic.Int64
	oversized  atomic.Int64
	cacheHits  atomic.Int64
	cacheMiss  atomic.Int64
	bytes      atomic.Int64
	durationNs atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Files       int
	Tokens      int
	Bundles     int
	Oversized   int
	CacheHits   int
	CacheMisses int
	Bytes       int64
	Duration    time.Duration
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordFile records one annotated and counted file.
func (m *Metrics) RecordFile(tokens int) {
	m.files.Add(1)
	m.tokens.Add(int64(tokens))
}

// RecordBundles records the number of bundles produced.
func (m *Metrics) RecordBundles(n int) {
	m.bundles.Add(int64(n))
}

// RecordOversized records an item that alone exceeded capacity.
func (m *Metrics) RecordOversized() {
	m.oversized.Add(1)
}

// RecordCacheHit records a token cache hit/miss.
func (m *Metrics) RecordCacheHit(hit bool) {
	if hit {
		m.cacheHits.Add(1)
		return
	}
	m.cacheMiss.Add(1)
}

// RecordBytes records bytes written to output.
func (m *Metrics) RecordBytes(n int64) {
	m.bytes.Add(n)
}

// RecordDuration records the wall time of the run.
func (m *Metrics) RecordDuration(d time.Duration) {
	m.durationNs.Store(int64(d))
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Files:       int(m.files.Load()),
		Tokens:      int(m.tokens.Load()),
		Bundles:     int(m.bundles.Load()),
		Oversized:   int(m.oversized.Load()),
		CacheHits:   int(m.cacheHits.Load()),
		CacheMisses: int(m.cacheMiss.Load()),
		Bytes:       m.bytes.Load(),
		Duration:    time.Duration(m.durationNs.Load()),
	}
}
