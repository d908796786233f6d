// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"archive/zip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// Exporter handles exporting portfolio content.
type Exporter struct {
	queries   *store.Queries
	logger    *slog.Logger
	uploadDir string
	now       func() time.Time
}

// NewExporter creates a new Exporter instance.
func NewExporter(db store.DBTX, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		queries:   store.New(db),
		logger:    logger,
		uploadDir: "./uploads",
		now:       time.Now,
	}
}

// SetUploadDir sets the directory uploaded images are read from.
func (e *Exporter) SetUploadDir(dir string) {
	e.uploadDir = dir
}

// Export collects the content selected by opts.
func (e *Exporter) Export(ctx context.Context, opts ExportOptions) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: e.now().UTC(),
	}

	if opts.IncludeProjects {
		if err := e.exportProjects(ctx, data); err != nil {
			return nil, fmt.Errorf("exporting projects: %w", err)
		}
	}
	if opts.IncludeBlogPosts {
		if err := e.exportBlogPosts(ctx, data, opts.PostStatus); err != nil {
			return nil, fmt.Errorf("exporting blog posts: %w", err)
		}
	}
	return data, nil
}

// ExportToWriter writes the export as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, opts ExportOptions, w io.Writer) error {
	data, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportWithMedia writes a zip archive holding export.json and, when
// opts.IncludeMediaFiles is set, every referenced image and its thumbnail.
func (e *Exporter) ExportWithMedia(ctx context.Context, opts ExportOptions, w io.Writer) error {
	data, err := e.Export(ctx, opts)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)

	if opts.IncludeMediaFiles {
		seen := make(map[string]bool)
		for _, ref := range imageRefs(data) {
			key, ok := uploadKey(ref)
			if !ok || seen[key] {
				continue
			}
			seen[key] = true
			if err := e.addImageToZip(zw, key); err != nil {
				e.logger.Warn("failed to add image to export", "image", ref, "error", err)
			}
		}
	}

	jw, err := zw.Create(exportFileName)
	if err != nil {
		return fmt.Errorf("creating %s in zip: %w", exportFileName, err)
	}
	encoder := json.NewEncoder(jw)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("writing %s: %w", exportFileName, err)
	}
	return zw.Close()
}

// addImageToZip copies an uploaded image and, if present, its thumbnail.
func (e *Exporter) addImageToZip(zw *zip.Writer, key string) error {
	if err := e.addFileToZip(zw, key); err != nil {
		return err
	}
	thumb := imaging.ThumbKey(key)
	if err := e.addFileToZip(zw, thumb); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("failed to add thumbnail to export", "key", thumb, "error", err)
	}
	return nil
}

func (e *Exporter) addFileToZip(zw *zip.Writer, key string) error {
	path, err := util.SafeJoinPath(e.uploadDir, key)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = mediaDir + key
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func (e *Exporter) exportProjects(ctx context.Context, data *ExportData) error {
	// LIMIT -1 lifts the limit in SQLite.
	rows, err := e.queries.ListProjects(ctx, store.ListProjectsParams{Limit: -1})
	if err != nil {
		return err
	}
	for _, p := range rows {
		data.Projects = append(data.Projects, ExportProject{
			Title:         p.Title,
			Description:   p.Description,
			Technologies:  model.DecodeList(p.Technologies),
			Category:      p.Category,
			Year:          p.Year,
			Status:        p.Status,
			Image:         p.Image.String,
			ImagePublicID: p.ImagePublicID.String,
			GithubURL:     util.PtrFromNullString(p.GithubURL),
			LiveURL:       util.PtrFromNullString(p.LiveURL),
			Featured:      p.Featured,
			Order:         p.SortOrder,
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return nil
}

func (e *Exporter) exportBlogPosts(ctx context.Context, data *ExportData, status string) error {
	var published sql.NullBool
	switch status {
	case "", PostStatusAll:
	case PostStatusPublished:
		published = sql.NullBool{Bool: true, Valid: true}
	case PostStatusDraft:
		published = sql.NullBool{Bool: false, Valid: true}
	default:
		return fmt.Errorf("unknown post status %q", status)
	}

	rows, err := e.queries.ListAllBlogPosts(ctx, published)
	if err != nil {
		return err
	}
	for _, p := range rows {
		data.BlogPosts = append(data.BlogPosts, ExportBlogPost{
			Title:         p.Title,
			Slug:          p.Slug.String,
			Excerpt:       p.Excerpt,
			Content:       p.Content,
			Category:      p.Category,
			ReadTime:      p.ReadTime,
			Image:         p.Image.String,
			ImagePublicID: p.ImagePublicID.String,
			Tags:          model.DecodeList(p.Tags),
			Published:     p.Published,
			Featured:      p.Featured,
			Views:         p.Views,
			Likes:         p.Likes,
			PublishedAt:   util.PtrFromNullTime(p.PublishedAt),
			ScheduledAt:   util.PtrFromNullTime(p.ScheduledAt),
			CreatedAt:     p.CreatedAt,
			UpdatedAt:     p.UpdatedAt,
		})
	}
	return nil
}

func imageRefs(data *ExportData) []string {
	var refs []string
	for _, p := range data.Projects {
		if p.Image != "" {
			refs = append(refs, p.Image)
		}
	}
	for _, p := range data.BlogPosts {
		if p.Image != "" {
			refs = append(refs, p.Image)
		}
	}
	return refs
}

// uploadKey strips the upload URL prefix from a stored image reference.
// References to images hosted elsewhere have no key.
func uploadKey(ref string) (string, bool) {
	if !strings.HasPrefix(ref, service.UploadURLPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(ref, service.UploadURLPrefix)
	return key, key != ""
}
