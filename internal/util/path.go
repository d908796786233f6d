// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// maxUploadNameLength bounds the stored base name, extension excluded.
const maxUploadNameLength = 80

// SanitizeUploadName turns a client-supplied filename into a safe, ASCII-only
// base name: directories are stripped, letters are transliterated, and every
// other run of characters becomes a hyphen. The extension is lowercased.
func SanitizeUploadName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = ""
	}

	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	pending := false
	for _, r := range unidecode.Unidecode(stem) {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !ok {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('-')
		}
		pending = false
		b.WriteRune(r)
	}

	name := b.String()
	if len(name) > maxUploadNameLength {
		name = strings.TrimRight(name[:maxUploadNameLength], "-")
	}
	if name == "" {
		name = "image"
	}
	return name + sanitizeExt(ext)
}

func sanitizeExt(ext string) string {
	if len(ext) < 2 {
		return ""
	}
	for i := 1; i < len(ext); i++ {
		c := ext[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return ""
		}
	}
	return ext
}

// SafeJoinPath joins components onto base and rejects results that escape it.
func SafeJoinPath(base string, components ...string) (string, error) {
	full := filepath.Join(append([]string{base}, components...)...)

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q", full, base)
	}
	return full, nil
}
