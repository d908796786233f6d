// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(method, path, ip string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":12345"
	return req
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter("contact", 0.001, 2, "Too many contact submissions")
	h := rl.Middleware(okHandler())

	codes := func(ip string, n int) []int {
		var out []int
		for i := 0; i < n; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestFrom(http.MethodPost, "/api/contact", ip))
			out = append(out, rec.Code)
		}
		return out
	}

	got := codes("203.0.113.1", 3)
	want := []int{200, 200, 429}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes = %v, want %v", got, want)
		}
	}
	if other := codes("203.0.113.2", 1); other[0] != http.StatusOK {
		t.Errorf("second IP limited: %v", other)
	}
}

func TestRateLimiterResponse(t *testing.T) {
	rl := NewRateLimiter("api", 0.5, 1, "Slow down")
	h := rl.Middleware(okHandler())

	h.ServeHTTP(httptest.NewRecorder(), requestFrom(http.MethodGet, "/", "198.51.100.9"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodGet, "/", "198.51.100.9"))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Message != "Slow down" {
		t.Errorf("body = %+v", body)
	}
}

func TestLimiterCacheRemoveExpired(t *testing.T) {
	lc := newLimiterCache[string](1, 5)
	lc.get("idle")
	busy := lc.get("busy")
	for i := 0; i < 5; i++ {
		busy.Allow()
	}

	if n := lc.RemoveExpired(); n != 1 {
		t.Errorf("RemoveExpired() = %d, want 1", n)
	}
	if lc.len() != 1 {
		t.Errorf("len = %d, want 1", lc.len())
	}
}

func TestLimiterCacheBounded(t *testing.T) {
	lc := newLimiterCache[int](1, 1)
	for i := 0; i <= maxLimiterEntries; i++ {
		lc.get(i)
	}
	if lc.len() != 1 {
		t.Errorf("len = %d after overflow, want 1", lc.len())
	}
}
