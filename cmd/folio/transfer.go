// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/transfer"
)

func newExportCmd() *cobra.Command {
	opts := transfer.DefaultExportOptions()
	var (
		asZip      bool
		noProjects bool
		noPosts    bool
	)
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export projects and blog posts",
		Long: `Write projects and blog posts as JSON to file, or to stdout when file is
omitted or "-". With --zip the output is a zip archive that also carries the
uploaded images.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			opts.IncludeProjects = !noProjects
			opts.IncludeBlogPosts = !noPosts
			ex := transfer.NewExporter(db, slog.Default())
			ex.SetUploadDir(cfg.UploadsDir)

			w := cmd.OutOrStdout()
			var file *os.File
			if len(args) == 1 && args[0] != "-" {
				if file, err = os.Create(args[0]); err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			if asZip {
				err = ex.ExportWithMedia(cmd.Context(), opts, w)
			} else {
				err = ex.ExportToWriter(cmd.Context(), opts, w)
			}
			if err != nil {
				return err
			}
			if file != nil {
				return file.Close()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asZip, "zip", false, "write a zip archive including uploaded images")
	cmd.Flags().StringVar(&opts.PostStatus, "posts", transfer.PostStatusAll, "blog posts to export: all, published or draft")
	cmd.Flags().BoolVar(&noProjects, "no-projects", false, "leave projects out")
	cmd.Flags().BoolVar(&noPosts, "no-posts", false, "leave blog posts out")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		dryRun    bool
		overwrite bool
		noMedia   bool
	)
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import projects and blog posts from an export",
		Long: `Import a file written by "folio export". Zip archives are recognised by their
.zip extension. Existing projects (matched by title) and blog posts (matched
by slug) are skipped unless --overwrite is given. The import is all or nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			opts := transfer.DefaultImportOptions()
			opts.DryRun = dryRun
			opts.ImportMediaFiles = !noMedia
			if overwrite {
				opts.ConflictStrategy = transfer.ConflictOverwrite
			}

			imp := transfer.NewImporter(db, slog.Default())
			imp.SetUploadDir(cfg.UploadsDir)

			path := args[0]
			var result *transfer.ImportResult
			if strings.EqualFold(filepath.Ext(path), ".zip") {
				result, err = imp.ImportFromZipFile(cmd.Context(), path, opts)
			} else {
				var f *os.File
				if f, err = os.Open(path); err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer func() { _ = f.Close() }()
				result, err = imp.ImportFromReader(cmd.Context(), f, opts)
			}
			if result != nil {
				printImportResult(cmd.OutOrStdout(), result)
			}
			if err != nil {
				if errors.Is(err, transfer.ErrValidation) {
					return fmt.Errorf("%w: %d record(s) rejected", err, len(result.Errors))
				}
				return err
			}

			if !dryRun {
				clearSharedCache(cmd.Context(), cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing records instead of skipping them")
	cmd.Flags().BoolVar(&noMedia, "no-media", false, "do not extract images from a zip archive")
	return cmd
}

func printImportResult(w io.Writer, r *transfer.ImportResult) {
	prefix := ""
	if r.DryRun {
		prefix = "(dry run) "
	}
	for _, entity := range []string{transfer.EntityProjects, transfer.EntityBlogPosts} {
		_, _ = fmt.Fprintf(w, "%s%s: %d created, %d updated, %d skipped\n",
			prefix, strings.ReplaceAll(entity, "_", " "), r.Created[entity], r.Updated[entity], r.Skipped[entity])
	}
	if r.Media > 0 {
		_, _ = fmt.Fprintf(w, "%smedia files: %d\n", prefix, r.Media)
	}
	for _, e := range r.Errors {
		_, _ = fmt.Fprintf(w, "error: %s %s: %s\n", e.Entity, e.ID, e.Message)
	}
}

// clearSharedCache drops cached listings held in Redis so running servers
// see the imported content. The in-memory cache lives in the server process
// and expires on its own.
func clearSharedCache(ctx context.Context, cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	rs, err := cache.NewRedisStore(cache.RedisOptions{
		URL:        cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.ListCacheTTL,
	})
	if err != nil {
		slog.Warn("could not clear list cache", "error", err)
		return
	}
	defer func() { _ = rs.Close() }()
	if err := rs.Clear(ctx); err != nil {
		slog.Warn("could not clear list cache", "error", err)
	}
}
