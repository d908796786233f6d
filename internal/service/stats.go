// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ProjectStats aggregates all projects.
type ProjectStats struct {
	Total      int64           `json:"total"`
	Completed  int64           `json:"completed"`
	Categories []CategoryCount `json:"categories"`
}

// BlogStats aggregates published blog posts.
type BlogStats struct {
	Total      int64           `json:"total"`
	TotalViews int64           `json:"totalViews"`
	Categories []CategoryCount `json:"categories"`
}

// Stats is the public portfolio summary.
type Stats struct {
	Projects ProjectStats `json:"projects"`
	Blog     BlogStats    `json:"blog"`
}

// Stats computes live aggregates inside one read transaction so every number
// comes from the same snapshot. It is never cached.
func (s *ContentService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return st, fmt.Errorf("starting stats transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := s.queries.WithTx(tx)

	if st.Projects.Total, err = q.CountProjects(ctx, store.ProjectFilter{}); err != nil {
		return st, fmt.Errorf("counting projects: %w", err)
	}
	if st.Projects.Completed, err = q.CountProjectsByStatus(ctx, model.ProjectStatusCompleted); err != nil {
		return st, fmt.Errorf("counting completed projects: %w", err)
	}
	projectCats, err := q.CountProjectsByCategory(ctx)
	if err != nil {
		return st, fmt.Errorf("counting project categories: %w", err)
	}
	st.Projects.Categories = mapSlice(projectCats, categoryCountFromStore)

	if st.Blog.Total, err = q.CountBlogPosts(ctx, store.BlogPostFilter{Published: nullBool(true)}); err != nil {
		return st, fmt.Errorf("counting published posts: %w", err)
	}
	if st.Blog.TotalViews, err = q.SumPublishedBlogPostViews(ctx); err != nil {
		return st, fmt.Errorf("summing views: %w", err)
	}
	blogCats, err := q.CountPublishedBlogPostsByCategory(ctx)
	if err != nil {
		return st, fmt.Errorf("counting blog categories: %w", err)
	}
	st.Blog.Categories = mapSlice(blogCats, categoryCountFromStore)

	return st, nil
}

func categoryCountFromStore(c store.CategoryCount) CategoryCount {
	return CategoryCount{Category: c.Category, Count: c.Count}
}
