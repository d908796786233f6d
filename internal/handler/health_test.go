// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/testutil"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func health(t *testing.T, h *HealthHandler) (int, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var st HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return rec.Code, st
}

func TestHealth(t *testing.T) {
	db := testutil.TestMemDB(t)

	t.Run("healthy", func(t *testing.T) {
		code, st := health(t, NewHealthHandler(db, t.TempDir(), "test", map[string]Pinger{"redis": stubPinger{}}))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, StatusHealthy, st.Status)
		assert.Equal(t, "test", st.Environment)
		assert.Contains(t, st.Checks, "database")
		assert.Contains(t, st.Checks, "redis")
	})

	t.Run("redis down degrades", func(t *testing.T) {
		code, st := health(t, NewHealthHandler(db, t.TempDir(), "test", map[string]Pinger{"redis": stubPinger{errors.New("refused")}}))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, StatusDegraded, st.Status)
		assert.Equal(t, StatusUnhealthy, st.Checks["redis"].Status)
	})

	t.Run("uploads is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "uploads")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		_, st := health(t, NewHealthHandler(db, path, "test", nil))
		assert.Equal(t, StatusDegraded, st.Status)
	})
}

func TestReadiness(t *testing.T) {
	db := testutil.TestMemDB(t)
	h := NewHealthHandler(db, t.TempDir(), "test", nil)

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.Close())
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String())
}

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil, "", "test", nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
