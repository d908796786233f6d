// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError is a single violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated constraint of one write.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Has reports whether field has at least one violation.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns v as an error, or nil when nothing was recorded.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var (
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
	readTimePattern  = regexp.MustCompile(`^\d+\s+min\s+read$`)
	githubURLPattern = regexp.MustCompile(`^https://github\.com/`)
	liveURLPattern   = regexp.MustCompile(`^https?://`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func requireText(errs *ValidationErrors, field, label, value string, maxLen int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		errs.Add(field, label+" is required")
	case maxLen > 0 && n > maxLen:
		errs.Add(field, label+" must be at most "+strconv.Itoa(maxLen)+" characters")
	}
}

func requireOneOf(errs *ValidationErrors, field, label, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	errs.Add(field, "Invalid "+label+"; must be one of: "+strings.Join(allowed, ", "))
}

// ErrInvalidImage is returned by image stores for payloads that are not a decodable image.
var ErrInvalidImage = errors.New("invalid image")
