// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const blogPostColumns = `id, title, slug, excerpt, content, category, read_time, image, image_public_id,
	tags, published, featured, views, likes, published_at, scheduled_at, created_at, updated_at`

// Summary listings select an empty string in place of content.
const blogPostSummaryColumns = `id, title, slug, excerpt, '' AS content, category, read_time, image, image_public_id,
	tags, published, featured, views, likes, published_at, scheduled_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category, &p.ReadTime,
		&p.Image, &p.ImagePublicID, &p.Tags, &p.Published, &p.Featured, &p.Views, &p.Likes,
		&p.PublishedAt, &p.ScheduledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func scanBlogPosts(rows *sql.Rows) ([]BlogPost, error) {
	defer func() { _ = rows.Close() }()
	items := []BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const createBlogPost = `INSERT INTO blog_posts (
	title, slug, excerpt, content, category, read_time, image, image_public_id,
	tags, published, featured, published_at, scheduled_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateBlogPostParams are the inputs of CreateBlogPost. Counters start at zero.
type CreateBlogPostParams struct {
	Title         string
	Slug          sql.NullString
	Excerpt       string
	Content       string
	Category      string
	ReadTime      string
	Image         sql.NullString
	ImagePublicID sql.NullString
	Tags          string
	Published     bool
	Featured      bool
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	res, err := q.db.ExecContext(ctx, createBlogPost,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.Category, arg.ReadTime,
		arg.Image, arg.ImagePublicID, arg.Tags, arg.Published, arg.Featured,
		arg.PublishedAt, arg.ScheduledAt, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return BlogPost{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return BlogPost{}, err
	}
	return q.GetBlogPost(ctx, id)
}

const getBlogPost = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetBlogPost(ctx context.Context, id int64) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPost, id))
}

const getPublishedBlogPostBySlug = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = ? AND published = 1`

func (q *Queries) GetPublishedBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getPublishedBlogPostBySlug, slug))
}

const updateBlogPost = `UPDATE blog_posts SET
	title = ?, slug = ?, excerpt = ?, content = ?, category = ?, read_time = ?,
	image = ?, image_public_id = ?, tags = ?, published = ?, featured = ?,
	published_at = ?, scheduled_at = ?, updated_at = ?
WHERE id = ?`

// UpdateBlogPostParams are the inputs of UpdateBlogPost. Counters are never
// written here; they change only through the increment statements.
type UpdateBlogPostParams struct {
	ID            int64
	Title         string
	Slug          sql.NullString
	Excerpt       string
	Content       string
	Category      string
	ReadTime      string
	Image         sql.NullString
	ImagePublicID sql.NullString
	Tags          string
	Published     bool
	Featured      bool
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
	UpdatedAt     time.Time
}

func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	res, err := q.db.ExecContext(ctx, updateBlogPost,
		arg.Title, arg.Slug, arg.Excerpt, arg.Content, arg.Category, arg.ReadTime,
		arg.Image, arg.ImagePublicID, arg.Tags, arg.Published, arg.Featured,
		arg.PublishedAt, arg.ScheduledAt, arg.UpdatedAt, arg.ID,
	)
	if err != nil {
		return BlogPost{}, translateErr(err)
	}
	if err := requireAffected(res); err != nil {
		return BlogPost{}, err
	}
	return q.GetBlogPost(ctx, arg.ID)
}

const deleteBlogPost = `DELETE FROM blog_posts WHERE id = ?`

func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteBlogPost, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const incrementBlogPostViews = `UPDATE blog_posts SET views = views + 1
WHERE slug = ? AND published = 1
RETURNING views`

// IncrementBlogPostViews adds one view in a single statement and returns the new count.
func (q *Queries) IncrementBlogPostViews(ctx context.Context, slug string) (int64, error) {
	var views int64
	err := q.db.QueryRowContext(ctx, incrementBlogPostViews, slug).Scan(&views)
	return views, err
}

const incrementBlogPostLikes = `UPDATE blog_posts SET likes = likes + 1
WHERE slug = ? AND published = 1
RETURNING likes`

// IncrementBlogPostLikes adds one like in a single statement and returns the new count.
func (q *Queries) IncrementBlogPostLikes(ctx context.Context, slug string) (int64, error) {
	var likes int64
	err := q.db.QueryRowContext(ctx, incrementBlogPostLikes, slug).Scan(&likes)
	return likes, err
}

// BlogPostFilter narrows ListBlogPosts and CountBlogPosts. Empty and null fields match everything.
type BlogPostFilter struct {
	Category  string
	Featured  sql.NullBool
	Published sql.NullBool
}

const blogPostWhere = `
WHERE (?1 = '' OR category = ?1)
  AND (?2 IS NULL OR featured = ?2)
  AND (?3 IS NULL OR published = ?3)`

const listBlogPostSummaries = `SELECT ` + blogPostSummaryColumns + ` FROM blog_posts` + blogPostWhere + `
ORDER BY featured DESC, published_at IS NULL, published_at DESC, created_at DESC, id DESC
LIMIT ?4 OFFSET ?5`

// ListBlogPostsParams are the inputs of ListBlogPostSummaries.
type ListBlogPostsParams struct {
	BlogPostFilter
	Limit  int64
	Offset int64
}

// ListBlogPostSummaries returns one page of posts with Content left empty.
func (q *Queries) ListBlogPostSummaries(ctx context.Context, arg ListBlogPostsParams) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listBlogPostSummaries,
		arg.Category, arg.Featured, arg.Published, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanBlogPosts(rows)
}

const countBlogPosts = `SELECT COUNT(*) FROM blog_posts` + blogPostWhere

func (q *Queries) CountBlogPosts(ctx context.Context, arg BlogPostFilter) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBlogPosts, arg.Category, arg.Featured, arg.Published).Scan(&n)
	return n, err
}

const sumPublishedBlogPostViews = `SELECT COALESCE(SUM(views), 0) FROM blog_posts WHERE published = 1`

func (q *Queries) SumPublishedBlogPostViews(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, sumPublishedBlogPostViews).Scan(&n)
	return n, err
}

const countPublishedBlogPostsByCategory = `SELECT category, COUNT(*) FROM blog_posts
WHERE published = 1 GROUP BY category ORDER BY category`

func (q *Queries) CountPublishedBlogPostsByCategory(ctx context.Context) ([]CategoryCount, error) {
	return q.categoryCounts(ctx, countPublishedBlogPostsByCategory)
}

const listRecentBlogPosts = `SELECT ` + blogPostSummaryColumns + ` FROM blog_posts ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentBlogPosts(ctx context.Context, limit int64) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listRecentBlogPosts, limit)
	if err != nil {
		return nil, err
	}
	return scanBlogPosts(rows)
}

const listDueScheduledBlogPosts = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE published = 0 AND scheduled_at IS NOT NULL AND scheduled_at <= ?
ORDER BY scheduled_at ASC, id ASC`

// ListDueScheduledBlogPosts returns unpublished posts whose scheduled time has passed.
func (q *Queries) ListDueScheduledBlogPosts(ctx context.Context, now time.Time) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listDueScheduledBlogPosts, now)
	if err != nil {
		return nil, err
	}
	return scanBlogPosts(rows)
}

const getBlogPostBySlug = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = ?`

// GetBlogPostBySlug finds a post by slug regardless of its published state.
func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostBySlug, slug))
}

const listAllBlogPosts = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE (?1 IS NULL OR published = ?1)
ORDER BY created_at ASC, id ASC`

// ListAllBlogPosts returns every post with content, oldest first.
func (q *Queries) ListAllBlogPosts(ctx context.Context, published sql.NullBool) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listAllBlogPosts, published)
	if err != nil {
		return nil, err
	}
	return scanBlogPosts(rows)
}

const setBlogPostCounters = `UPDATE blog_posts SET views = ?, likes = ? WHERE id = ?`

// SetBlogPostCounters overwrites the view and like counters. Only imports use it.
func (q *Queries) SetBlogPostCounters(ctx context.Context, id, views, likes int64) error {
	res, err := q.db.ExecContext(ctx, setBlogPostCounters, views, likes, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
