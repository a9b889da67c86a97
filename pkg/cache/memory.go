// Copyright 2026 Gptizer. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process, optionally bounded with
// least-recently-used eviction. Values are copied on the way in and out.
type MemoryCache struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List // front is most recently used
	index      map[string]*list.Element
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries bounds the cache; n <= 0 means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(m *MemoryCache) {
		m.maxEntries = n
	}
}

// NewMemoryCache creates an empty memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	m := &MemoryCache{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache. Expired entries are dropped on access.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.index[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	entry := el.Value.(*Entry)
	if entry.Expired(time.Now()) {
		m.remove(el)
		return nil, ErrCacheMiss
	}
	m.order.MoveToFront(el)
	return append([]byte(nil), entry.Value...), nil
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &Entry{Key: key, Value: append([]byte(nil), value...), ExpiresAt: expiry(ttl)}
	if el, ok := m.index[key]; ok {
		el.Value = entry
		m.order.MoveToFront(el)
		return nil
	}

	m.index[key] = m.order.PushFront(entry)
	if m.maxEntries > 0 && m.order.Len() > m.maxEntries {
		m.remove(m.order.Back())
	}
	return nil
}

// Delete implements Cache.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

// Clear implements Cache.
func (m *MemoryCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.index = make(map[string]*list.Element)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *MemoryCache) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.index, el.Value.(*Entry).Key)
}
