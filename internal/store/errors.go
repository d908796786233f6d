// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a write would violate a unique index.
var ErrConflict = errors.New("unique constraint violation")

// ConflictError names the column whose unique index rejected a write.
type ConflictError struct {
	Column string
	Err    error
}

func (e *ConflictError) Error() string {
	return "duplicate " + e.Column + ": " + e.Err.Error()
}

func (e *ConflictError) Unwrap() []error {
	return []error{ErrConflict, e.Err}
}

// translateErr maps driver errors to store errors. Both SQLite drivers in use
// (modernc and mattn) report unique violations with the same message text.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return err
	}
	col := msg[i+len(marker):]
	if j := strings.IndexAny(col, " ,("); j >= 0 {
		col = col[:j]
	}
	if k := strings.LastIndexByte(col, '.'); k >= 0 {
		col = col[k+1:]
	}
	return &ConflictError{Column: col, Err: err}
}
