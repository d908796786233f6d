// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const projectColumns = `id, title, description, technologies, category, year, status,
	image, image_public_id, github_url, live_url, featured, sort_order, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Technologies, &p.Category, &p.Year, &p.Status,
		&p.Image, &p.ImagePublicID, &p.GithubURL, &p.LiveURL, &p.Featured, &p.SortOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

const createProject = `INSERT INTO projects (
	title, description, technologies, category, year, status,
	image, image_public_id, github_url, live_url, featured, sort_order, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateProjectParams are the inputs of CreateProject.
type CreateProjectParams struct {
	Title         string
	Description   string
	Technologies  string
	Category      string
	Year          string
	Status        string
	Image         sql.NullString
	ImagePublicID sql.NullString
	GithubURL     sql.NullString
	LiveURL       sql.NullString
	Featured      bool
	SortOrder     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	res, err := q.db.ExecContext(ctx, createProject,
		arg.Title, arg.Description, arg.Technologies, arg.Category, arg.Year, arg.Status,
		arg.Image, arg.ImagePublicID, arg.GithubURL, arg.LiveURL, arg.Featured, arg.SortOrder,
		arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return Project{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Project{}, err
	}
	return q.GetProject(ctx, id)
}

const getProject = `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

func (q *Queries) GetProject(ctx context.Context, id int64) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, id))
}

const updateProject = `UPDATE projects SET
	title = ?, description = ?, technologies = ?, category = ?, year = ?, status = ?,
	image = ?, image_public_id = ?, github_url = ?, live_url = ?, featured = ?, sort_order = ?,
	updated_at = ?
WHERE id = ?`

// UpdateProjectParams are the inputs of UpdateProject. Every column is written.
type UpdateProjectParams struct {
	ID            int64
	Title         string
	Description   string
	Technologies  string
	Category      string
	Year          string
	Status        string
	Image         sql.NullString
	ImagePublicID sql.NullString
	GithubURL     sql.NullString
	LiveURL       sql.NullString
	Featured      bool
	SortOrder     int64
	UpdatedAt     time.Time
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	res, err := q.db.ExecContext(ctx, updateProject,
		arg.Title, arg.Description, arg.Technologies, arg.Category, arg.Year, arg.Status,
		arg.Image, arg.ImagePublicID, arg.GithubURL, arg.LiveURL, arg.Featured, arg.SortOrder,
		arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return Project{}, translateErr(err)
	}
	if err := requireAffected(res); err != nil {
		return Project{}, err
	}
	return q.GetProject(ctx, arg.ID)
}

const deleteProject = `DELETE FROM projects WHERE id = ?`

// DeleteProject removes a project and reports sql.ErrNoRows when nothing matched.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ProjectFilter narrows ListProjects and CountProjects. Empty and null fields match everything.
type ProjectFilter struct {
	Category string
	Featured sql.NullBool
}

const listProjects = `SELECT ` + projectColumns + ` FROM projects
WHERE (?1 = '' OR category = ?1)
  AND (?2 IS NULL OR featured = ?2)
ORDER BY featured DESC, sort_order ASC, created_at DESC, id DESC
LIMIT ?3 OFFSET ?4`

// ListProjectsParams are the inputs of ListProjects.
type ListProjectsParams struct {
	ProjectFilter
	Limit  int64
	Offset int64
}

func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects, arg.Category, arg.Featured, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const countProjects = `SELECT COUNT(*) FROM projects
WHERE (?1 = '' OR category = ?1)
  AND (?2 IS NULL OR featured = ?2)`

func (q *Queries) CountProjects(ctx context.Context, arg ProjectFilter) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProjects, arg.Category, arg.Featured).Scan(&n)
	return n, err
}

const countProjectsByStatus = `SELECT COUNT(*) FROM projects WHERE status = ?`

func (q *Queries) CountProjectsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProjectsByStatus, status).Scan(&n)
	return n, err
}

const countProjectsByCategory = `SELECT category, COUNT(*) FROM projects GROUP BY category ORDER BY category`

func (q *Queries) CountProjectsByCategory(ctx context.Context) ([]CategoryCount, error) {
	return q.categoryCounts(ctx, countProjectsByCategory)
}

const listRecentProjects = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentProjects(ctx context.Context, limit int64) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listRecentProjects, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const getProjectByTitle = `SELECT ` + projectColumns + ` FROM projects WHERE title = ? ORDER BY id ASC LIMIT 1`

// GetProjectByTitle returns the oldest project with the given title.
func (q *Queries) GetProjectByTitle(ctx context.Context, title string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectByTitle, title))
}

func (q *Queries) categoryCounts(ctx context.Context, query string, args ...any) ([]CategoryCount, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
