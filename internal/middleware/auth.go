// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/util"
)

type contextKey string

const userKey contextKey = "user"

// SessionReader exposes the logged in user id of the current session.
type SessionReader interface {
	UserID(ctx context.Context) int64
	Logout(ctx context.Context) error
}

// UserLoader loads users by id.
type UserLoader interface {
	Get(ctx context.Context, id int64) (model.User, error)
}

// LoadUser puts the session's user, if any, into the request context.
// A session pointing at a deleted user is destroyed.
func LoadUser(sessions SessionReader, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessions.UserID(r.Context())
			if id == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, err := users.Get(r.Context(), id)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					_ = sessions.Logout(r.Context())
				} else {
					slog.Error("failed to load session user", "user_id", id, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects requests without an admin user in context:
// 401 when nobody is logged in, 403 for a non-admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin() {
			slog.Warn("admin access blocked",
				"user_id", user.ID,
				logging.KeyIP, util.ClientIP(r),
				logging.KeyURL, r.URL.Path,
				logging.KeyCategory, "security",
			)
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by LoadUser, or nil.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userKey).(model.User)
	if !ok {
		return nil
	}
	return &user
}
