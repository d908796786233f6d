// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is an in-process Store bounded by entry count.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	maxItems   int
	now        func() time.Time
	closed     atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates a MemoryStore. maxItems <= 0 means unbounded.
func NewMemoryStore(defaultTTL time.Duration, maxItems int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		maxItems:   maxItems,
		now:        time.Now,
	}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		m.misses.Add(1)
		return nil, ErrMiss
	}
	m.hits.Add(1)
	return append([]byte(nil), e.value...), nil
}

// Set implements Store. When full, expired entries go first, then the entry
// closest to expiry.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && m.maxItems > 0 && len(m.entries) >= m.maxItems {
		m.removeExpiredLocked(now)
		if len(m.entries) >= m.maxItems {
			m.evictOneLocked()
		}
	}
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), expiresAt: now.Add(ttl)}
	m.sets.Add(1)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// DeleteByPrefix implements Store.
func (m *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(_ context.Context) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// RemoveExpired drops every expired entry and returns how many went.
func (m *MemoryStore) RemoveExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeExpiredLocked(m.now())
}

func (m *MemoryStore) removeExpiredLocked(now time.Time) int {
	n := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

func (m *MemoryStore) evictOneLocked() {
	var victim string
	var soonest time.Time
	for k, e := range m.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim, soonest = k, e.expiresAt
		}
	}
	delete(m.entries, victim)
}

// Stats implements Store.
func (m *MemoryStore) Stats() Stats {
	m.mu.RLock()
	items := len(m.entries)
	m.mu.RUnlock()

	hits, misses := m.hits.Load(), m.misses.Load()
	return Stats{
		Backend: "memory",
		Hits:    hits,
		Misses:  misses,
		Sets:    m.sets.Load(),
		Items:   items,
		HitRate: hitRate(hits, misses),
	}
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.closed.Store(true)
	return nil
}

var _ Store = (*MemoryStore)(nil)
