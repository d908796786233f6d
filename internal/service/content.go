// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the portfolio's business logic: validated
// content mutations, filtered listings, the blog post lifecycle, contact
// handling, and the admin dashboard.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// Image kinds double as the first segment of the upload key.
const (
	ImageKindProjects = "projects"
	ImageKindBlog     = "blog"
)

// UploadURLPrefix is prepended to image keys to form the stored reference.
const UploadURLPrefix = "/uploads/"

// Cache key prefixes for list responses.
const (
	projectsCachePrefix = "projects:"
	blogCachePrefix     = "blog:"
)

// ImageUpload is an image payload accompanying a create or update.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// ContentService runs queries and mutations over projects and blog posts.
type ContentService struct {
	db       *sql.DB
	queries  *store.Queries
	images   ImageStore
	cache    ListCache
	renderer Renderer
	now      func() time.Time
	logger   *slog.Logger
}

// ContentOption configures a ContentService.
type ContentOption func(*ContentService)

// WithImageStore sets where uploaded images go.
func WithImageStore(images ImageStore) ContentOption {
	return func(s *ContentService) { s.images = images }
}

// WithListCache caches list responses; mutations invalidate them.
func WithListCache(c ListCache) ContentOption {
	return func(s *ContentService) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithRenderer enables contentHtml on single post reads.
func WithRenderer(r Renderer) ContentOption {
	return func(s *ContentService) { s.renderer = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ContentOption {
	return func(s *ContentService) { s.now = now }
}

// WithLogger overrides slog.Default.
func WithLogger(l *slog.Logger) ContentOption {
	return func(s *ContentService) { s.logger = l }
}

// NewContentService creates a ContentService.
func NewContentService(db *sql.DB, opts ...ContentOption) *ContentService {
	s := &ContentService{
		db:      db,
		queries: store.New(db),
		cache:   noopCache{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type storedImage struct {
	path     string
	publicID string
}

func (s *ContentService) storeImage(ctx context.Context, kind string, img *ImageUpload, now time.Time) (*storedImage, error) {
	if img == nil {
		return nil, nil
	}
	if s.images == nil {
		return nil, errors.New("image uploads are not configured")
	}
	key := fmt.Sprintf("%s/%d-%s", kind, now.UnixMilli(), util.SanitizeUploadName(img.Filename))
	publicID, err := s.images.Put(ctx, key, img.Data)
	if err != nil {
		if errors.Is(err, model.ErrInvalidImage) {
			return nil, model.ValidationErrors{{Field: "image", Message: "Only image files are allowed"}}
		}
		return nil, fmt.Errorf("storing image: %w", err)
	}
	return &storedImage{path: UploadURLPrefix + key, publicID: publicID}, nil
}

// discardImage removes a stored image best-effort.
func (s *ContentService) discardImage(ctx context.Context, path string) {
	if s.images == nil || !strings.HasPrefix(path, UploadURLPrefix) {
		return
	}
	if err := s.images.Remove(ctx, strings.TrimPrefix(path, UploadURLPrefix)); err != nil {
		s.logger.Warn("failed to remove image", "path", path, "error", err)
	}
}

// imageColumns picks the image columns for a write: the new image when one
// was stored, otherwise the existing values.
func imageColumns(img *storedImage, image, publicID sql.NullString) (sql.NullString, sql.NullString) {
	if img == nil {
		return image, publicID
	}
	return sql.NullString{String: img.path, Valid: true}, sql.NullString{String: img.publicID, Valid: true}
}

func (img *storedImage) pathOrEmpty() string {
	if img == nil {
		return ""
	}
	return img.path
}

func optionalBoolKey(b *bool) string {
	if b == nil {
		return "*"
	}
	if *b {
		return "1"
	}
	return "0"
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b bool) sql.NullBool {
	return sql.NullBool{Bool: b, Valid: true}
}
