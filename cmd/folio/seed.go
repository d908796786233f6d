// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/service"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample content and the admin account",
		Long: `Insert the sample projects and blog posts into empty tables, and create the
admin account from FOLIO_ADMIN_EMAIL and FOLIO_ADMIN_PASSWORD when no user exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := cmd.Context()
			if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
				created, err := service.NewUserService(db).EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
				if err != nil {
					return fmt.Errorf("creating admin user: %w", err)
				}
				if created {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "admin user %s created\n", cfg.AdminEmail)
				}
			}

			res, err := service.NewContentService(db).Seed(ctx)
			if err != nil {
				return fmt.Errorf("seeding content: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d projects and %d blog posts\n", res.Projects, res.BlogPosts)
			return nil
		},
	}
}
