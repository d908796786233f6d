// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(max int) (*LoginProtection, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: max,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	})
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	if lp.maxFailedAttempts != 5 || lp.lockoutDuration != 15*time.Minute || lp.attemptWindow != 15*time.Minute {
		t.Errorf("defaults not applied: %+v", lp)
	}
}

func TestLockoutAfterFailures(t *testing.T) {
	lp, clock := newTestLoginProtection(3)
	const email = "admin@example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailure(email); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	if got := lp.RemainingAttempts(email); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailure(email)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailure() = %v, %v; want lock for 1m", locked, d)
	}
	if locked, remaining := lp.IsLocked(email); !locked || remaining != time.Minute {
		t.Errorf("IsLocked() = %v, %v", locked, remaining)
	}

	clock.advance(61 * time.Second)
	if locked, _ := lp.IsLocked(email); locked {
		t.Error("still locked after lockout elapsed")
	}
}

func TestLockoutDoubles(t *testing.T) {
	lp, clock := newTestLoginProtection(1)
	const email = "admin@example.com"

	want := []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}
	for i, w := range want {
		_, d := lp.RecordFailure(email)
		if d != w {
			t.Errorf("lockout %d = %v, want %v", i+1, d, w)
		}
		clock.advance(d + time.Second)
	}
}

func TestLockoutCapped(t *testing.T) {
	lp, _ := newTestLoginProtection(1)
	lp.lockoutDuration = 20 * time.Hour
	lp.RecordFailure("a@example.com")
	if _, d := lp.RecordFailure("a@example.com"); d != maxLockout {
		t.Errorf("second lockout = %v, want %v", d, maxLockout)
	}
}

func TestWindowResetsCount(t *testing.T) {
	lp, clock := newTestLoginProtection(3)
	lp.RecordFailure("a@example.com")
	lp.RecordFailure("a@example.com")
	clock.advance(11 * time.Minute)
	if locked, _ := lp.RecordFailure("a@example.com"); locked {
		t.Error("failures outside the window should not accumulate")
	}
	if got := lp.RemainingAttempts("a@example.com"); got != 2 {
		t.Errorf("RemainingAttempts() = %d, want 2", got)
	}
}

func TestRecordSuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(3)
	lp.RecordFailure("a@example.com")
	lp.RecordSuccess("a@example.com")
	if got := lp.RemainingAttempts("a@example.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtectionRemoveExpired(t *testing.T) {
	lp, clock := newTestLoginProtection(3)
	lp.RecordFailure("old@example.com")
	clock.advance(20 * time.Minute)
	lp.RecordFailure("new@example.com")

	if n := lp.RemoveExpired(); n != 1 {
		t.Errorf("RemoveExpired() = %d, want 1", n)
	}
	if got := lp.RemainingAttempts("new@example.com"); got != 2 {
		t.Errorf("recent record dropped: remaining = %d", got)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	h := lp.Middleware(okHandler())

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPost, http.StatusOK},
		{http.MethodPost, http.StatusTooManyRequests},
		{http.MethodGet, http.StatusOK},
	}
	for i, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom(tt.method, "/api/auth/login", "192.0.2.7"))
		if rec.Code != tt.want {
			t.Errorf("request %d (%s): status = %d, want %d", i, tt.method, rec.Code, tt.want)
		}
	}
}
