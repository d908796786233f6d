// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService authenticates and manages admin accounts.
type UserService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewUserService creates a UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{queries: store.New(db), now: time.Now}
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, creds model.Credentials) (model.User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := creds.Validate(); err != nil {
		return model.User{}, err
	}

	u, err := s.queries.GetUserByEmail(ctx, creds.Email)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckDummy(creds.Password)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(creds.Password, u.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(creds.Password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, u.ID, hash, now); err != nil {
				slog.Warn("failed to upgrade password hash", "user_id", u.ID, "error", err)
			}
		}
	}
	if err := s.queries.UpdateUserLastLogin(ctx, u.ID, now); err != nil {
		slog.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}
	u.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	return userFromStore(u), nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return model.User{}, storeErr("getting user", "user", err)
	}
	return userFromStore(u), nil
}

// EnsureAdmin creates an admin account when no user exists yet. It reports
// whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	n, err := s.queries.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, name, email, password); err != nil {
		return false, err
	}
	return true, nil
}

// Create adds an admin account.
func (s *UserService) Create(ctx context.Context, name, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var errs model.ValidationErrors
	if email == "" {
		errs.Add("email", "Email is required")
	}
	if len(password) < auth.MinPasswordLength {
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters", auth.MinPasswordLength))
	}
	if err := errs.Err(); err != nil {
		return model.User{}, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "Administrator"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	now := s.now().UTC()
	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, storeErr("creating user", "user", err)
	}
	return userFromStore(u), nil
}
