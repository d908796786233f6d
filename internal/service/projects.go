// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// ProjectQuery filters and paginates ListProjects.
type ProjectQuery struct {
	Category string
	Featured *bool
	Pagination
}

func (q ProjectQuery) cacheKey() string {
	return fmt.Sprintf("%scat=%s|feat=%s|p=%d|l=%d",
		projectsCachePrefix, q.Category, optionalBoolKey(q.Featured), q.Page, q.Limit)
}

// ListProjects returns one page of projects ordered by featured desc, order asc,
// createdAt desc, plus the filtered total.
func (s *ContentService) ListProjects(ctx context.Context, q ProjectQuery) (ListResult[model.Project], error) {
	q.Pagination = q.Pagination.Normalize()

	var result ListResult[model.Project]
	key := q.cacheKey()
	if s.cache.Get(ctx, key, &result) {
		return result, nil
	}

	filter := store.ProjectFilter{Category: q.Category, Featured: util.NullBoolFromPtr(q.Featured)}
	rows, err := s.queries.ListProjects(ctx, store.ListProjectsParams{
		ProjectFilter: filter,
		Limit:         int64(q.Limit),
		Offset:        q.Offset(),
	})
	if err != nil {
		return result, fmt.Errorf("listing projects: %w", err)
	}
	total, err := s.queries.CountProjects(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("counting projects: %w", err)
	}

	result = ListResult[model.Project]{Items: mapSlice(rows, projectFromStore), Total: total}
	s.cache.Set(ctx, key, result)
	return result, nil
}

// GetProject returns a project by id.
func (s *ContentService) GetProject(ctx context.Context, id int64) (model.Project, error) {
	p, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, storeErr("getting project", "project", err)
	}
	return projectFromStore(p), nil
}

// CreateProject validates the patch over project defaults, attaches an
// optional image and persists the result.
func (s *ContentService) CreateProject(ctx context.Context, patch model.ProjectPatch, img *ImageUpload) (model.Project, error) {
	fields := patch.Apply(model.NewProjectFields())
	if err := fields.Validate(); err != nil {
		return model.Project{}, err
	}

	now := s.now().UTC()
	stored, err := s.storeImage(ctx, ImageKindProjects, img, now)
	if err != nil {
		return model.Project{}, err
	}
	image, publicID := imageColumns(stored, nullString(""), nullString(""))

	p, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		Title:         fields.Title,
		Description:   fields.Description,
		Technologies:  model.EncodeList(fields.Technologies),
		Category:      fields.Category,
		Year:          fields.Year,
		Status:        fields.Status,
		Image:         image,
		ImagePublicID: publicID,
		GithubURL:     util.NullStringFromPtr(fields.GithubURL),
		LiveURL:       util.NullStringFromPtr(fields.LiveURL),
		Featured:      fields.Featured,
		SortOrder:     fields.Order,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		s.discardImage(ctx, stored.pathOrEmpty())
		return model.Project{}, storeErr("creating project", "project", err)
	}

	s.cache.InvalidatePrefix(ctx, projectsCachePrefix)
	s.logger.Info("project created", "project_id", p.ID, "title", p.Title)
	return projectFromStore(p), nil
}

// UpdateProject merges patch over the stored project, re-validates the merged
// record and persists it. A new image replaces the previous one.
func (s *ContentService) UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch, img *ImageUpload) (model.Project, error) {
	existing, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, storeErr("getting project", "project", err)
	}

	fields := patch.Apply(projectFieldsFromStore(existing))
	if err := fields.Validate(); err != nil {
		return model.Project{}, err
	}

	now := s.now().UTC()
	stored, err := s.storeImage(ctx, ImageKindProjects, img, now)
	if err != nil {
		return model.Project{}, err
	}
	image, publicID := imageColumns(stored, existing.Image, existing.ImagePublicID)

	p, err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		ID:            id,
		Title:         fields.Title,
		Description:   fields.Description,
		Technologies:  model.EncodeList(fields.Technologies),
		Category:      fields.Category,
		Year:          fields.Year,
		Status:        fields.Status,
		Image:         image,
		ImagePublicID: publicID,
		GithubURL:     util.NullStringFromPtr(fields.GithubURL),
		LiveURL:       util.NullStringFromPtr(fields.LiveURL),
		Featured:      fields.Featured,
		SortOrder:     fields.Order,
		UpdatedAt:     now,
	})
	if err != nil {
		s.discardImage(ctx, stored.pathOrEmpty())
		return model.Project{}, storeErr("updating project", "project", err)
	}
	if stored != nil && existing.Image.Valid {
		s.discardImage(ctx, existing.Image.String)
	}

	s.cache.InvalidatePrefix(ctx, projectsCachePrefix)
	return projectFromStore(p), nil
}

// DeleteProject permanently removes a project and its image.
func (s *ContentService) DeleteProject(ctx context.Context, id int64) error {
	existing, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return storeErr("getting project", "project", err)
	}
	if err := s.queries.DeleteProject(ctx, id); err != nil {
		return storeErr("deleting project", "project", err)
	}
	if existing.Image.Valid {
		s.discardImage(ctx, existing.Image.String)
	}

	s.cache.InvalidatePrefix(ctx, projectsCachePrefix)
	s.logger.Info("project deleted", "project_id", id)
	return nil
}
