// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/util"
)

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := handler.DecodeJSON(w, r, &creds); err != nil {
		handler.Error(w, r, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	ip := util.ClientIP(r)

	if locked, remaining := h.login.IsLocked(email); locked {
		h.logger.Warn("login attempt on locked account",
			"email", email,
			logging.KeyIP, ip,
			logging.KeyCategory, "auth",
		)
		handler.Fail(w, http.StatusTooManyRequests,
			fmt.Sprintf("Account temporarily locked. Try again in %d minutes.", int(remaining.Minutes())+1))
		return
	}

	user, err := h.users.Authenticate(r.Context(), creds)
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			handler.Invalid(w, verrs)
		case errors.Is(err, service.ErrInvalidCredentials):
			locked, _ := h.login.RecordFailure(email)
			h.logger.Warn("failed login attempt",
				"email", email,
				"locked", locked,
				logging.KeyIP, ip,
				logging.KeyCategory, "auth",
			)
			handler.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			handler.Error(w, r, err)
		}
		return
	}

	if err := h.sessions.Login(r.Context(), user.ID); err != nil {
		handler.Error(w, r, err)
		return
	}
	h.login.RecordSuccess(email)
	h.logger.Info("user logged in", "user_id", user.ID, logging.KeyIP, ip)
	handler.Message(w, "Logged in successfully", user)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Logged out successfully", nil)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		handler.Fail(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	handler.OK(w, user)
}
