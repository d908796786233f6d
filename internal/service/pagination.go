// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination selects one page of a listing. Page is 1-indexed.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize replaces out-of-range values with defaults and caps Limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset is (page-1)*limit.
func (p Pagination) Offset() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// ListResult is one page of items and the size of the whole filtered set.
type ListResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
