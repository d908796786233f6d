// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestBlogPostValidate(t *testing.T) {
	tests := []struct {
		name   string
		patch  BlogPostPatch
		fields []string
	}{
		{
			name: "valid",
			patch: BlogPostPatch{
				Title: ptr("Hello"), Excerpt: ptr("x"), Content: ptr("body"),
				Category: ptr(BlogCategoryTechnical), ReadTime: ptr("3 min read"),
			},
		},
		{
			name:   "empty",
			patch:  BlogPostPatch{},
			fields: []string{"title", "excerpt", "content", "category", "readTime"},
		},
		{
			name: "bad read time",
			patch: BlogPostPatch{
				Title: ptr("Hello"), Excerpt: ptr("x"), Content: ptr("body"),
				Category: ptr(BlogCategoryReview), ReadTime: ptr("3 minutes"),
			},
			fields: []string{"readTime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Apply(NewBlogPostFields()).Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			assertStringSliceEqual(t, "fields", fieldsOf(t, err), tt.fields)
		})
	}
}

func TestBlogPostTagsNormalized(t *testing.T) {
	f := BlogPostPatch{Tags: &[]string{" Go ", "go", "", "Web Development"}}.Apply(NewBlogPostFields())
	assertStringSliceEqual(t, "tags", f.Tags, []string{"go", "web development"})
}

func TestBlogPostSchedule(t *testing.T) {
	at := time.Date(2030, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	f := BlogPostPatch{ScheduledAt: &at}.Apply(NewBlogPostFields())
	if f.ScheduledAt == nil || !f.ScheduledAt.Equal(at) || f.ScheduledAt.Location() != time.UTC {
		t.Fatalf("ScheduledAt = %v", f.ScheduledAt)
	}

	f = BlogPostPatch{ClearSchedule: true}.Apply(f)
	if f.ScheduledAt != nil {
		t.Errorf("ScheduledAt should be cleared, got %v", f.ScheduledAt)
	}
}
