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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// Size limits for zip imports.
const (
	maxZipExportJSONBytes            = 32 << 20
	maxZipMediaFileUncompressedBytes = 20 << 20
)

// ErrValidation is returned by Import when the data fails validation.
// The rejected records are listed in ImportResult.Errors.
var ErrValidation = errors.New("import validation failed")

// Importer handles importing portfolio content.
type Importer struct {
	db        *sql.DB
	logger    *slog.Logger
	uploadDir string
	now       func() time.Time
}

// NewImporter creates a new Importer instance.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		db:        db,
		logger:    logger,
		uploadDir: "./uploads",
		now:       time.Now,
	}
}

// SetUploadDir sets the directory media files are extracted to.
func (i *Importer) SetUploadDir(dir string) {
	i.uploadDir = dir
}

// Import validates data and writes it in a single transaction. On a dry run
// nothing is written and the result reports what would have happened.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := NewImportResult(opts.DryRun)

	if errs := i.Validate(data); len(errs) > 0 {
		result.Errors = errs
		return result, ErrValidation
	}

	if opts.DryRun {
		if err := i.importAll(ctx, store.New(i.db), data, opts, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	err := store.InTx(ctx, i.db, func(q *store.Queries) error {
		return i.importAll(ctx, q, data, opts, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ImportFromReader decodes a JSON export and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// ImportFromZip imports an archive written by Exporter.ExportWithMedia.
// Media files are extracted before the database import and removed again if
// it fails.
func (i *Importer) ImportFromZip(ctx context.Context, zr *zip.Reader, opts ImportOptions) (*ImportResult, error) {
	data, err := readExportJSON(zr)
	if err != nil {
		return nil, err
	}

	var extracted []string
	if opts.ImportMediaFiles && !opts.DryRun {
		if extracted, err = i.extractMediaFiles(zr); err != nil {
			removeAll(extracted)
			return nil, err
		}
	}

	result, err := i.Import(ctx, data, opts)
	if err != nil {
		removeAll(extracted)
		return result, err
	}
	if opts.DryRun {
		result.Media = countMedia(zr)
	} else {
		result.Media = len(extracted)
	}
	return result, nil
}

// ImportFromZipFile opens a zip archive and imports it.
func (i *Importer) ImportFromZipFile(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip file: %w", err)
	}
	defer func() { _ = zr.Close() }()

	return i.ImportFromZip(ctx, &zr.Reader, opts)
}

// Validate checks every record and returns one ImportError per problem.
func (i *Importer) Validate(data *ExportData) []ImportError {
	var errs []ImportError
	add := func(entity, id, msg string) {
		errs = append(errs, ImportError{Entity: entity, ID: id, Message: msg})
	}

	if data.Version == "" {
		add("export", "", "missing version field")
	} else if major(data.Version) != major(ExportVersion) {
		add("export", "", fmt.Sprintf("unsupported export version %q", data.Version))
	}

	for idx, p := range data.Projects {
		if err := projectFields(p).Validate(); err != nil {
			add(EntityProjects, recordID(idx, p.Title), err.Error())
		}
	}

	slugs := make(map[string]bool)
	for idx, p := range data.BlogPosts {
		id := recordID(idx, p.Title)
		if err := blogPostFields(p).Validate(); err != nil {
			add(EntityBlogPosts, id, err.Error())
		}
		slug := postSlug(p)
		if slug == "" {
			continue
		}
		if !util.IsValidSlug(slug) {
			add(EntityBlogPosts, id, fmt.Sprintf("invalid slug %q", slug))
		}
		if slugs[slug] {
			add(EntityBlogPosts, id, fmt.Sprintf("duplicate slug %q", slug))
		}
		slugs[slug] = true
	}
	return errs
}

func (i *Importer) importAll(ctx context.Context, q *store.Queries, data *ExportData, opts ImportOptions, result *ImportResult) error {
	for _, p := range data.Projects {
		if err := i.importProject(ctx, q, p, opts, result); err != nil {
			return fmt.Errorf("importing project %q: %w", p.Title, err)
		}
	}
	for _, p := range data.BlogPosts {
		if err := i.importBlogPost(ctx, q, p, opts, result); err != nil {
			return fmt.Errorf("importing blog post %q: %w", p.Title, err)
		}
	}
	return nil
}

func (i *Importer) importProject(ctx context.Context, q *store.Queries, p ExportProject, opts ImportOptions, result *ImportResult) error {
	f := projectFields(p)
	created, updated := timestamps(p.CreatedAt, p.UpdatedAt, i.now())

	existing, err := q.GetProjectByTitle(ctx, f.Title)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result.IncrementCreated(EntityProjects)
		if opts.DryRun {
			return nil
		}
		_, err = q.CreateProject(ctx, store.CreateProjectParams{
			Title:         f.Title,
			Description:   f.Description,
			Technologies:  model.EncodeList(f.Technologies),
			Category:      f.Category,
			Year:          f.Year,
			Status:        f.Status,
			Image:         nullString(p.Image),
			ImagePublicID: nullString(p.ImagePublicID),
			GithubURL:     util.NullStringFromPtr(f.GithubURL),
			LiveURL:       util.NullStringFromPtr(f.LiveURL),
			Featured:      f.Featured,
			SortOrder:     f.Order,
			CreatedAt:     created,
			UpdatedAt:     updated,
		})
		return err
	case err != nil:
		return err
	case opts.ConflictStrategy != ConflictOverwrite:
		result.IncrementSkipped(EntityProjects)
		return nil
	}

	result.IncrementUpdated(EntityProjects)
	if opts.DryRun {
		return nil
	}
	_, err = q.UpdateProject(ctx, store.UpdateProjectParams{
		ID:            existing.ID,
		Title:         f.Title,
		Description:   f.Description,
		Technologies:  model.EncodeList(f.Technologies),
		Category:      f.Category,
		Year:          f.Year,
		Status:        f.Status,
		Image:         nullString(p.Image),
		ImagePublicID: nullString(p.ImagePublicID),
		GithubURL:     util.NullStringFromPtr(f.GithubURL),
		LiveURL:       util.NullStringFromPtr(f.LiveURL),
		Featured:      f.Featured,
		SortOrder:     f.Order,
		UpdatedAt:     updated,
	})
	return err
}

func (i *Importer) importBlogPost(ctx context.Context, q *store.Queries, p ExportBlogPost, opts ImportOptions, result *ImportResult) error {
	f := blogPostFields(p)
	now := i.now()
	created, updated := timestamps(p.CreatedAt, p.UpdatedAt, now)
	slug := postSlug(p)

	publishedAt := util.NullTimeFromPtr(p.PublishedAt)
	if f.Published && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: now.UTC(), Valid: true}
	}
	scheduledAt := util.NullTimeFromPtr(f.ScheduledAt)
	if f.Published {
		scheduledAt = sql.NullTime{}
	}

	var existing store.BlogPost
	err := sql.ErrNoRows
	if slug != "" {
		existing, err = q.GetBlogPostBySlug(ctx, slug)
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result.IncrementCreated(EntityBlogPosts)
		if opts.DryRun {
			return nil
		}
		post, err := q.CreateBlogPost(ctx, store.CreateBlogPostParams{
			Title:         f.Title,
			Slug:          nullString(slug),
			Excerpt:       f.Excerpt,
			Content:       f.Content,
			Category:      f.Category,
			ReadTime:      f.ReadTime,
			Image:         nullString(p.Image),
			ImagePublicID: nullString(p.ImagePublicID),
			Tags:          model.EncodeList(f.Tags),
			Published:     f.Published,
			Featured:      f.Featured,
			PublishedAt:   publishedAt,
			ScheduledAt:   scheduledAt,
			CreatedAt:     created,
			UpdatedAt:     updated,
		})
		if err != nil {
			return err
		}
		return q.SetBlogPostCounters(ctx, post.ID, max(p.Views, 0), max(p.Likes, 0))
	case err != nil:
		return err
	case opts.ConflictStrategy != ConflictOverwrite:
		result.IncrementSkipped(EntityBlogPosts)
		return nil
	}

	result.IncrementUpdated(EntityBlogPosts)
	if opts.DryRun {
		return nil
	}
	_, err = q.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID:            existing.ID,
		Title:         f.Title,
		Slug:          nullString(slug),
		Excerpt:       f.Excerpt,
		Content:       f.Content,
		Category:      f.Category,
		ReadTime:      f.ReadTime,
		Image:         nullString(p.Image),
		ImagePublicID: nullString(p.ImagePublicID),
		Tags:          model.EncodeList(f.Tags),
		Published:     f.Published,
		Featured:      f.Featured,
		PublishedAt:   publishedAt,
		ScheduledAt:   scheduledAt,
		UpdatedAt:     updated,
	})
	if err != nil {
		return err
	}
	return q.SetBlogPostCounters(ctx, existing.ID, max(p.Views, 0), max(p.Likes, 0))
}

// extractMediaFiles writes every media/ entry under the upload directory and
// returns the paths written so far, also on error.
func (i *Importer) extractMediaFiles(zr *zip.Reader) ([]string, error) {
	var written []string
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, mediaDir) || f.FileInfo().IsDir() {
			continue
		}
		key, err := parseMediaZipPath(f.Name)
		if err != nil {
			return written, err
		}
		path, err := i.extractMediaFile(f, key)
		if err != nil {
			return written, fmt.Errorf("extracting %s: %w", f.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func (i *Importer) extractMediaFile(f *zip.File, key string) (string, error) {
	if f.UncompressedSize64 > maxZipMediaFileUncompressedBytes {
		return "", fmt.Errorf("media file exceeds max size of %d bytes", maxZipMediaFileUncompressedBytes)
	}
	dest, err := util.SafeJoinPath(i.uploadDir, key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}

	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	if _, err := copyWithLimit(out, rc, maxZipMediaFileUncompressedBytes); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", err
	}
	return dest, out.Close()
}

// parseMediaZipPath maps media/{kind}/{file} to the upload key {kind}/{file}.
func parseMediaZipPath(name string) (string, error) {
	parts := strings.Split(strings.TrimPrefix(name, mediaDir), "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid media path: %s", name)
	}
	kind, file := parts[0], parts[1]
	if kind != service.ImageKindProjects && kind != service.ImageKindBlog {
		return "", fmt.Errorf("invalid media path: %s", name)
	}
	if file == "" || file == "." || file == ".." || strings.ContainsAny(file, `\:`) {
		return "", fmt.Errorf("invalid media path: %s", name)
	}
	return kind + "/" + file, nil
}

// copyWithLimit copies at most limit bytes and fails if src holds more.
func copyWithLimit(dst io.Writer, src io.Reader, limit int64) (int64, error) {
	n, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return n, err
	}
	if n > limit {
		return n, fmt.Errorf("media file exceeds max size of %d bytes", limit)
	}
	return n, nil
}

func readExportJSON(zr *zip.Reader) (*ExportData, error) {
	for _, f := range zr.File {
		if f.Name != exportFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", exportFileName, err)
		}
		defer func() { _ = rc.Close() }()

		var data ExportData
		if err := json.NewDecoder(io.LimitReader(rc, maxZipExportJSONBytes)).Decode(&data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", exportFileName, err)
		}
		return &data, nil
	}
	return nil, fmt.Errorf("%s not found in zip archive", exportFileName)
}

func countMedia(zr *zip.Reader) int {
	n := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, mediaDir) && !f.FileInfo().IsDir() {
			n++
		}
	}
	return n
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

func projectFields(p ExportProject) model.ProjectFields {
	return model.ProjectPatch{
		Title:        &p.Title,
		Description:  &p.Description,
		Technologies: &p.Technologies,
		Category:     &p.Category,
		Year:         &p.Year,
		Status:       &p.Status,
		GithubURL:    p.GithubURL,
		LiveURL:      p.LiveURL,
		Featured:     &p.Featured,
		Order:        &p.Order,
	}.Apply(model.NewProjectFields())
}

func blogPostFields(p ExportBlogPost) model.BlogPostFields {
	return model.BlogPostPatch{
		Title:       &p.Title,
		Excerpt:     &p.Excerpt,
		Content:     &p.Content,
		Category:    &p.Category,
		ReadTime:    &p.ReadTime,
		Tags:        &p.Tags,
		Published:   &p.Published,
		Featured:    &p.Featured,
		ScheduledAt: p.ScheduledAt,
	}.Apply(model.NewBlogPostFields())
}

// postSlug is the exported slug, or one derived from the title for published
// posts exported without a slug.
func postSlug(p ExportBlogPost) string {
	slug := strings.TrimSpace(p.Slug)
	if slug == "" && p.Published {
		slug = util.Slugify(p.Title)
	}
	return slug
}

func timestamps(created, updated, now time.Time) (time.Time, time.Time) {
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return created.UTC(), updated.UTC()
}

func recordID(idx int, title string) string {
	if title != "" {
		return title
	}
	return "#" + strconv.Itoa(idx)
}

func major(version string) string {
	m, _, _ := strings.Cut(version, ".")
	return m
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
