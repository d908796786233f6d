// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth     = "auth"
	EventCategoryContent  = "content"
	EventCategoryContact  = "contact"
	EventCategorySystem   = "system"
	EventCategorySecurity = "security"
)

// Event is a persisted log record.
type Event struct {
	ID         int64          `json:"id"`
	Level      string         `json:"level"`
	Category   string         `json:"category"`
	Message    string         `json:"message"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	IPAddress  string         `json:"ipAddress,omitempty"`
	RequestURL string         `json:"requestUrl,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}
