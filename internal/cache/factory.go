// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config selects and sizes the cache backend.
type Config struct {
	RedisURL   string // empty selects the memory store
	Prefix     string
	DefaultTTL time.Duration
	MaxItems   int
}

// New returns a RedisStore when RedisURL is set and reachable, otherwise a
// MemoryStore. An unreachable Redis is logged and does not stop startup.
func New(cfg Config, logger *slog.Logger) Store {
	if cfg.RedisURL != "" {
		rs, err := NewRedisStore(RedisOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			logger.Info("using redis cache", "prefix", cfg.Prefix)
			return rs
		}
		logger.Warn("redis cache unavailable, falling back to memory", "error", err)
	}
	return NewMemoryStore(cfg.DefaultTTL, cfg.MaxItems)
}
