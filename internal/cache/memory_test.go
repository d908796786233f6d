// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestMemoryStore(ttl time.Duration, maxItems int) (*MemoryStore, *fakeClock) {
	clk := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryStore(ttl, maxItems)
	m.now = clk.Now
	return m, clk
}

func TestMemoryStore_GetSet(t *testing.T) {
	m, _ := newTestMemoryStore(time.Minute, 0)
	ctx := context.Background()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty store = %v, want ErrMiss", err)
	}

	value := []byte("v")
	if err := m.Set(ctx, "k", value, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q (stored value must be a copy)", got, "v")
	}

	s := m.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 || s.HitRate != 50 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	m, clk := newTestMemoryStore(time.Minute, 0)
	ctx := context.Background()

	_ = m.Set(ctx, "short", []byte("1"), time.Second)
	_ = m.Set(ctx, "long", []byte("2"), 0)

	clk.Advance(2 * time.Second)
	if _, err := m.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Errorf("expired Get = %v, want ErrMiss", err)
	}
	if _, err := m.Get(ctx, "long"); err != nil {
		t.Errorf("Get long: %v", err)
	}
	if n := m.RemoveExpired(); n != 1 {
		t.Errorf("RemoveExpired = %d, want 1", n)
	}
}

func TestMemoryStore_Eviction(t *testing.T) {
	m, _ := newTestMemoryStore(time.Minute, 2)
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("a"), time.Second)
	_ = m.Set(ctx, "b", []byte("b"), time.Hour)
	_ = m.Set(ctx, "c", []byte("c"), time.Hour)

	if _, err := m.Get(ctx, "a"); !errors.Is(err, ErrMiss) {
		t.Errorf("entry closest to expiry should be evicted, got %v", err)
	}
	if m.Stats().Items != 2 {
		t.Errorf("Items = %d, want 2", m.Stats().Items)
	}
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	m, _ := newTestMemoryStore(time.Minute, 0)
	ctx := context.Background()

	for _, k := range []string{"projects:1", "projects:2", "blog:1"} {
		_ = m.Set(ctx, k, []byte(k), 0)
	}
	if err := m.DeleteByPrefix(ctx, "projects:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if _, err := m.Get(ctx, "projects:1"); !errors.Is(err, ErrMiss) {
		t.Error("projects:1 should be gone")
	}
	if _, err := m.Get(ctx, "blog:1"); err != nil {
		t.Errorf("blog:1 should survive: %v", err)
	}

	_ = m.Clear(ctx)
	if m.Stats().Items != 0 {
		t.Error("Clear left entries behind")
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	m, _ := newTestMemoryStore(time.Minute, 0)
	_ = m.Close()

	if err := m.Set(context.Background(), "k", nil, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Set after Close = %v, want ErrClosed", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	m, _ := newTestMemoryStore(time.Minute, 50)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d-%d", i, j)
				_ = m.Set(ctx, key, []byte(key), 0)
				_, _ = m.Get(ctx, key)
				if j%10 == 0 {
					_ = m.DeleteByPrefix(ctx, fmt.Sprintf("k%d-", i))
				}
			}
		}(i)
	}
	wg.Wait()

	if items := m.Stats().Items; items > 50 {
		t.Errorf("Items = %d, exceeds bound 50", items)
	}
}
