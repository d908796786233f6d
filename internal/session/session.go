// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages admin login sessions backed by the SQLite sessions table.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const userIDKey = "user_id"

// Options configures the session manager.
type Options struct {
	Lifetime        time.Duration
	Secure          bool // production: Secure cookie with the __Host- prefix
	CleanupInterval time.Duration
}

// Manager wraps scs with the login helpers the API needs.
type Manager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// New creates a Manager storing sessions in db.
func New(db *sql.DB, opts Options) *Manager {
	if opts.Lifetime <= 0 {
		opts.Lifetime = 24 * time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}

	store := sqlite3store.NewWithCleanupInterval(db, opts.CleanupInterval)

	sm := scs.New()
	sm.Store = store
	sm.Lifetime = opts.Lifetime
	sm.IdleTimeout = opts.Lifetime / 2
	sm.Cookie.Name = "folio_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = opts.Secure
	if opts.Secure {
		sm.Cookie.Name = "__Host-folio_session"
	}

	return &Manager{SessionManager: sm, store: store}
}

// Login renews the session token and records userID.
func (m *Manager) Login(ctx context.Context, userID int64) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	m.Put(ctx, userIDKey, userID)
	return nil
}

// Logout destroys the session.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// UserID returns the logged in user's id, or 0.
func (m *Manager) UserID(ctx context.Context) int64 {
	return m.GetInt64(ctx, userIDKey)
}

// Close stops the background expiry sweep.
func (m *Manager) Close() {
	m.store.StopCleanup()
}
