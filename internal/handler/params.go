// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/service"
)

// IDParam parses the chi URL parameter name as a positive id.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// PaginationFromQuery reads page and limit. Missing or non-numeric values
// become zero and are replaced with defaults by Normalize.
func PaginationFromQuery(q url.Values) service.Pagination {
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return service.Pagination{Page: page, Limit: limit}.Normalize()
}

// OptionalBool reads a boolean filter. Absent or unrecognised values are nil.
func OptionalBool(q url.Values, key string) *bool {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	b, ok := ParseBool(raw)
	if !ok {
		return nil
	}
	return &b
}
