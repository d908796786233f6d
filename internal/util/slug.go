// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared across packages: slugs, text
// normalisation, upload filenames, path safety, client IPs and SQL null values.
package util

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives a URL-safe identifier from a title: lowercase, every maximal
// run of characters outside [a-z0-9] becomes a single hyphen, and leading and
// trailing hyphens are trimmed. A title without ASCII letters or digits yields "".
func Slugify(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteByte(c)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// IsValidSlug reports whether s could have been produced by Slugify.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return false
		}
	}
	return !strings.Contains(s, "--")
}

// NormalizeText trims surrounding whitespace and converts s to Unicode NFC so
// visually identical input is stored identically.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
