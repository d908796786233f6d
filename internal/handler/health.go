// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/olegiv/folio/internal/version"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Pinger is an optional dependency probed by /health, such as the Redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and health endpoints.
type HealthHandler struct {
	db         *sql.DB
	uploadsDir string
	env        string
	extra      map[string]Pinger
	startTime  time.Time
	now        func() time.Time
}

// NewHealthHandler creates a HealthHandler. extra checks are reported under their keys.
func NewHealthHandler(db *sql.DB, uploadsDir, env string, extra map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		db:         db,
		uploadsDir: uploadsDir,
		env:        env,
		extra:      extra,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status      string           `json:"status"`
	Timestamp   time.Time        `json:"timestamp"`
	Uptime      string           `json:"uptime"`
	Version     string           `json:"version"`
	Environment string           `json:"environment"`
	GoRoutines  int              `json:"goroutines"`
	Checks      map[string]Check `json:"checks"`
}

// Check is one probe result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"uploads":  h.checkUploads(),
	}
	for name, p := range h.extra {
		checks[name] = probe(r.Context(), p)
	}

	status := StatusHealthy
	for name, c := range checks {
		switch {
		case c.Status == StatusUnhealthy && name == "database":
			status = StatusUnhealthy
		case c.Status != StatusHealthy && status == StatusHealthy:
			status = StatusDegraded
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	WriteJSON(w, code, HealthStatus{
		Status:      status,
		Timestamp:   h.now().UTC(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Version:     version.Get().Version,
		Environment: h.env,
		GoRoutines:  runtime.NumGoroutine(),
		Checks:      checks,
	})
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. Only the database gates readiness.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if c := h.checkDatabase(r.Context()); c.Status != StatusHealthy {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return probe(ctx, pingFunc(h.db.PingContext))
}

func (h *HealthHandler) checkUploads() Check {
	info, err := os.Stat(h.uploadsDir)
	switch {
	case os.IsNotExist(err):
		return Check{Status: StatusHealthy, Message: "Uploads directory does not exist yet"}
	case err != nil:
		return Check{Status: StatusDegraded, Message: "Uploads directory is not accessible"}
	case !info.IsDir():
		return Check{Status: StatusDegraded, Message: "Uploads path is not a directory"}
	}
	return Check{Status: StatusHealthy}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func probe(ctx context.Context, p Pinger) Check {
	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start).Round(time.Microsecond).String()
	if err != nil {
		return Check{Status: StatusUnhealthy, Message: fmt.Sprintf("ping failed: %v", err), Latency: latency}
	}
	return Check{Status: StatusHealthy, Latency: latency}
}
