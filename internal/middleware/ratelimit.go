// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/olegiv/folio/internal/util"
)

// maxLimiterEntries bounds per-IP limiter maps; the map is reset when exceeded.
const maxLimiterEntries = 10000

// limiterCache holds one token bucket per key.
type limiterCache[K comparable] struct {
	mu       sync.RWMutex
	limiters map[K]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, ok := lc.limiters[key]
	lc.mu.RUnlock()
	if ok {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if limiter, ok = lc.limiters[key]; ok {
		return limiter
	}
	if len(lc.limiters) >= maxLimiterEntries {
		lc.limiters = make(map[K]*rate.Limiter)
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache[K]) len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// RemoveExpired drops limiters whose bucket is full again, returning how many went.
func (lc *limiterCache[K]) RemoveExpired() int {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	removed := 0
	for k, l := range lc.limiters {
		if l.Tokens() >= float64(lc.burst) {
			delete(lc.limiters, k)
			removed++
		}
	}
	return removed
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	name    string
	message string
	cache   *limiterCache[string]
}

// NewRateLimiter creates a per-IP limiter. name appears in logs; message is
// returned to limited clients.
func NewRateLimiter(name string, rps float64, burst int, message string) *RateLimiter {
	return &RateLimiter{
		name:    name,
		message: message,
		cache:   newLimiterCache[string](rps, burst),
	}
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.cache.get(ip).Allow()
}

// RemoveExpired drops idle limiters.
func (rl *RateLimiter) RemoveExpired() int {
	return rl.cache.RemoveExpired()
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := util.ClientIP(r)
		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded", "limiter", rl.name, "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
			writeError(w, http.StatusTooManyRequests, rl.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the whole seconds needed to earn one token.
func (rl *RateLimiter) retryAfter() int {
	if rl.cache.rate <= 0 {
		return 60
	}
	secs := int(1/float64(rl.cache.rate) + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}
