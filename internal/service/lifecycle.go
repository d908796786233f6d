// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

// Lifecycle is the system-managed state of a blog post.
type Lifecycle struct {
	Slug        string
	PublishedAt *time.Time
}

// ApplyLifecycle returns the lifecycle state after a write of change:
//   - the slug is re-derived only when title is in the change set;
//   - publishedAt is stamped with now only when published is in the change
//     set, is true, and no publish time exists yet. It is never cleared.
//
// merged is the post after the change has been applied.
func ApplyLifecycle(prior Lifecycle, change model.BlogPostPatch, merged model.BlogPostFields, now time.Time) Lifecycle {
	next := prior
	if change.Title != nil {
		next.Slug = util.Slugify(merged.Title)
	}
	if change.Published != nil && *change.Published && next.PublishedAt == nil {
		t := now.UTC()
		next.PublishedAt = &t
	}
	return next
}
