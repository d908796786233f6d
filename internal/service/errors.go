// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// Sentinel errors. Validation failures are reported as model.ValidationErrors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ConflictError reports a write rejected by a unique key.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// FieldErrors renders the conflict in the same shape as a validation failure.
func (e *ConflictError) FieldErrors() model.ValidationErrors {
	return model.ValidationErrors{{Field: e.Field, Message: e.Message}}
}

// storeErr maps store errors for an entity into service errors, wrapping
// anything unexpected with op for logging.
func storeErr(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	var ce *store.ConflictError
	if errors.As(err, &ce) {
		field := ce.Column
		msg := "A " + entity + " with this " + field + " already exists"
		if entity == "blog post" && field == "slug" {
			msg = "A blog post with this title already exists"
		}
		return &ConflictError{Field: field, Message: msg}
	}
	return fmt.Errorf("%s: %w", op, err)
}
