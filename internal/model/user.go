// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types of the portfolio (projects, blog
// posts, contacts, users, events) and the validation schema every write
// passes through before it reaches the store.
package model

import "time"

// RoleAdmin is the only user role.
const RoleAdmin = "admin"

// User is an administrator account.
type User struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the user may use the admin API.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	var errs ValidationErrors
	if c.Email == "" {
		errs.Add("email", "Email is required")
	}
	if c.Password == "" {
		errs.Add("password", "Password is required")
	}
	return errs.Err()
}
