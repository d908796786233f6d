// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports portfolio content to JSON, optionally zipped
// together with its uploaded images, and imports such exports back.
package transfer

import "time"

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// Zip archive layout.
const (
	exportFileName = "export.json"
	mediaDir       = "media/"
)

// Entity names used in ImportResult and ImportError.
const (
	EntityProjects  = "projects"
	EntityBlogPosts = "blog_posts"
)

// ExportData represents the complete export structure.
type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Projects   []ExportProject  `json:"projects,omitempty"`
	BlogPosts  []ExportBlogPost `json:"blog_posts,omitempty"`
}

// ExportProject is a project without its database id. Projects are matched
// by title on import.
type ExportProject struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Technologies  []string  `json:"technologies"`
	Category      string    `json:"category"`
	Year          string    `json:"year"`
	Status        string    `json:"status"`
	Image         string    `json:"image,omitempty"`
	ImagePublicID string    `json:"image_public_id,omitempty"`
	GithubURL     *string   `json:"github_url,omitempty"`
	LiveURL       *string   `json:"live_url,omitempty"`
	Featured      bool      `json:"featured"`
	Order         int64     `json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ExportBlogPost is a blog post with its counters. Posts are matched by slug
// on import; posts that were never published have no slug.
type ExportBlogPost struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug,omitempty"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	Category      string     `json:"category"`
	ReadTime      string     `json:"read_time"`
	Image         string     `json:"image,omitempty"`
	ImagePublicID string     `json:"image_public_id,omitempty"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	Featured      bool       `json:"featured"`
	Views         int64      `json:"views"`
	Likes         int64      `json:"likes"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Post status filters for ExportOptions.PostStatus.
const (
	PostStatusAll       = "all"
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// ExportOptions configures what to include in the export.
type ExportOptions struct {
	IncludeProjects   bool   `json:"include_projects"`
	IncludeBlogPosts  bool   `json:"include_blog_posts"`
	IncludeMediaFiles bool   `json:"include_media_files"` // zip exports only
	PostStatus        string `json:"post_status"`
}

// DefaultExportOptions returns options that include everything.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		IncludeProjects:   true,
		IncludeBlogPosts:  true,
		IncludeMediaFiles: true,
		PostStatus:        PostStatusAll,
	}
}

// ConflictStrategy decides what happens to imported records that already exist.
type ConflictStrategy string

// Conflict strategies.
const (
	ConflictSkip      ConflictStrategy = "skip"
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions configures an import.
type ImportOptions struct {
	DryRun           bool             `json:"dry_run"`
	ConflictStrategy ConflictStrategy `json:"conflict_strategy"`
	ImportMediaFiles bool             `json:"import_media_files"` // zip imports only
}

// DefaultImportOptions skips existing records and restores media files.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ConflictStrategy: ConflictSkip,
		ImportMediaFiles: true,
	}
}

// ImportError describes one rejected record.
type ImportError struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ImportResult counts what an import did, or would do on a dry run.
type ImportResult struct {
	DryRun  bool           `json:"dry_run"`
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
	Skipped map[string]int `json:"skipped"`
	Media   int            `json:"media"`
	Errors  []ImportError  `json:"errors,omitempty"`
}

// NewImportResult returns an empty result.
func NewImportResult(dryRun bool) *ImportResult {
	return &ImportResult{
		DryRun:  dryRun,
		Created: make(map[string]int),
		Updated: make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// AddError records a rejected record.
func (r *ImportResult) AddError(entity, id, message string) {
	r.Errors = append(r.Errors, ImportError{Entity: entity, ID: id, Message: message})
}

// IncrementCreated counts a created record.
func (r *ImportResult) IncrementCreated(entity string) { r.Created[entity]++ }

// IncrementUpdated counts an overwritten record.
func (r *ImportResult) IncrementUpdated(entity string) { r.Updated[entity]++ }

// IncrementSkipped counts a record left untouched because it already existed.
func (r *ImportResult) IncrementSkipped(entity string) { r.Skipped[entity]++ }

// HasErrors reports whether any record was rejected.
func (r *ImportResult) HasErrors() bool {
	return len(r.Errors) > 0
}
