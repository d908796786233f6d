// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the portfolio API:
// authentication, rate limiting, login protection, CSRF and security headers.
package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the API envelope for failures raised before a handler runs.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// writeError writes a JSON envelope with success=false.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message})
}
