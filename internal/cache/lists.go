// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// ListCache stores JSON-encoded list results in a Store. Backend errors are
// logged and treated as misses so a failing cache never fails a request.
type ListCache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewListCache wraps store. ttl applies to every entry.
func NewListCache(store Store, ttl time.Duration, logger *slog.Logger) *ListCache {
	return &ListCache{store: store, ttl: ttl, logger: logger}
}

// Get decodes the entry at key into dest and reports whether it was found.
func (c *ListCache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("cache entry undecodable", "key", key, "error", err)
		_ = c.store.Delete(ctx, key)
		return false
	}
	return true
}

// Set encodes value and stores it under key.
func (c *ListCache) Set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache entry unencodable", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *ListCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := c.store.DeleteByPrefix(ctx, prefix); err != nil {
		c.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}

// Clear drops every entry.
func (c *ListCache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Stats reports the backend counters.
func (c *ListCache) Stats() Stats {
	return c.store.Stats()
}
