// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/folio/internal/util"
)

// Blog post categories.
const (
	BlogCategoryPersonal   = "Personal"
	BlogCategoryTechnical  = "Technical"
	BlogCategoryExperience = "Experience"
	BlogCategoryTutorial   = "Tutorial"
	BlogCategoryReview     = "Review"
)

// BlogCategories lists every valid blog post category.
var BlogCategories = []string{
	BlogCategoryPersonal, BlogCategoryTechnical, BlogCategoryExperience, BlogCategoryTutorial, BlogCategoryReview,
}

// Field limits.
const (
	BlogTitleMaxLength   = 150
	BlogExcerptMaxLength = 300
)

// BlogPostSummary is a blog post without its body, as returned by listings.
type BlogPostSummary struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          *string    `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Category      string     `json:"category"`
	ReadTime      string     `json:"readTime"`
	Image         *string    `json:"image"`
	ImagePublicID *string    `json:"imagePublicId"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	Featured      bool       `json:"featured"`
	Views         int64      `json:"views"`
	Likes         int64      `json:"likes"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ScheduledAt   *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BlogPost is the full document including content.
type BlogPost struct {
	BlogPostSummary
	Content     string `json:"content"`
	ContentHTML string `json:"contentHtml,omitempty"`
}

// BlogPostFields are the client-writable fields of a blog post. Slug,
// PublishedAt and the counters are system-managed.
type BlogPostFields struct {
	Title       string
	Excerpt     string
	Content     string
	Category    string
	ReadTime    string
	Tags        []string
	Published   bool
	Featured    bool
	ScheduledAt *time.Time
}

// NewBlogPostFields returns the defaults a new post starts from.
func NewBlogPostFields() BlogPostFields {
	return BlogPostFields{Tags: []string{}}
}

// BlogPostPatch is a change set: nil fields are absent. ClearSchedule removes
// a pending ScheduledAt.
type BlogPostPatch struct {
	Title         *string    `json:"title"`
	Excerpt       *string    `json:"excerpt"`
	Content       *string    `json:"content"`
	Category      *string    `json:"category"`
	ReadTime      *string    `json:"readTime"`
	Tags          *[]string  `json:"tags"`
	Published     *bool      `json:"published"`
	Featured      *bool      `json:"featured"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	ClearSchedule bool       `json:"clearSchedule"`
}

// Apply merges the patch over f and normalises the result.
func (p BlogPostPatch) Apply(f BlogPostFields) BlogPostFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Excerpt != nil {
		f.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		f.Content = *p.Content
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.ReadTime != nil {
		f.ReadTime = *p.ReadTime
	}
	if p.Tags != nil {
		f.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Published != nil {
		f.Published = *p.Published
	}
	if p.Featured != nil {
		f.Featured = *p.Featured
	}
	switch {
	case p.ClearSchedule:
		f.ScheduledAt = nil
	case p.ScheduledAt != nil:
		t := p.ScheduledAt.UTC()
		f.ScheduledAt = &t
	}
	f.normalize()
	return f
}

func (f *BlogPostFields) normalize() {
	f.Title = util.NormalizeText(f.Title)
	f.Excerpt = util.NormalizeText(f.Excerpt)
	f.Content = util.NormalizeText(f.Content)
	f.Category = strings.TrimSpace(f.Category)
	f.ReadTime = strings.TrimSpace(f.ReadTime)
	f.Tags = cleanList(f.Tags, true)
}

// Validate checks every constraint and returns ValidationErrors listing all violations.
func (f BlogPostFields) Validate() error {
	var errs ValidationErrors
	requireText(&errs, "title", "Title", f.Title, BlogTitleMaxLength)
	requireText(&errs, "excerpt", "Excerpt", f.Excerpt, BlogExcerptMaxLength)
	requireText(&errs, "content", "Content", f.Content, 0)
	requireOneOf(&errs, "category", "category", f.Category, BlogCategories)
	if !readTimePattern.MatchString(f.ReadTime) {
		errs.Add("readTime", `Read time must be in format "X min read"`)
	}
	return errs.Err()
}
