// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler holds the HTTP plumbing shared by the API handlers: the
// response envelope, request decoding, query parameters and health checks.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    any                    `json:"data,omitempty"`
	Errors  model.ValidationErrors `json:"errors,omitempty"`
	Count   *int                   `json:"count,omitempty"`
	Total   *int64                 `json:"total,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// OK writes {success: true, data}.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with a message and data.
func Created(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Message writes a successful envelope carrying only a message, and data when non-nil.
func Message(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// List writes one page of a listing with count and total.
func List[T any](w http.ResponseWriter, res service.ListResult[T]) {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	count := len(items)
	total := res.Total
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: items, Count: &count, Total: &total})
}

// Fail writes {success: false, message}.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Message: message})
}

// Invalid writes a 400 listing every field error.
func Invalid(w http.ResponseWriter, errs model.ValidationErrors) {
	WriteJSON(w, http.StatusBadRequest, Envelope{Message: "Validation failed", Errors: errs})
}

// Error maps err to a status and writes it. Unexpected errors are logged
// with the request id and reported to the client generically.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs    model.ValidationErrors
		conflict *service.ConflictError
		tooLarge *http.MaxBytesError
		bodyErr  *BodyError
	)
	switch {
	case errors.As(err, &verrs):
		Invalid(w, verrs)
	case errors.As(err, &conflict):
		WriteJSON(w, http.StatusConflict, Envelope{Message: conflict.Message, Errors: conflict.FieldErrors()})
	case errors.Is(err, service.ErrNotFound):
		Fail(w, http.StatusNotFound, capitalize(err.Error()))
	case errors.As(err, &tooLarge), errors.Is(err, ErrFileTooLarge):
		Fail(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &bodyErr):
		Fail(w, http.StatusBadRequest, bodyErr.Message)
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"request_id", middleware.GetReqID(r.Context()),
			logging.KeyURL, r.URL.Path,
		)
		Fail(w, http.StatusInternalServerError, "Server error")
	}
}

// NotFound is the router's fallback for unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	Fail(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed is the router's fallback for known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimSpace(s[size:])
}
