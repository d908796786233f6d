// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

// BlogQuery filters and paginates ListBlogPosts. A nil Published lists
// posts in every state; public handlers default it to true.
type BlogQuery struct {
	Category  string
	Featured  *bool
	Published *bool
	Pagination
}

func (q BlogQuery) cacheKey() string {
	return fmt.Sprintf("%scat=%s|feat=%s|pub=%s|p=%d|l=%d",
		blogCachePrefix, q.Category, optionalBoolKey(q.Featured), optionalBoolKey(q.Published), q.Page, q.Limit)
}

// ListBlogPosts returns one page of post summaries ordered by featured desc,
// publishedAt desc, createdAt desc, plus the filtered total.
func (s *ContentService) ListBlogPosts(ctx context.Context, q BlogQuery) (ListResult[model.BlogPostSummary], error) {
	q.Pagination = q.Pagination.Normalize()

	var result ListResult[model.BlogPostSummary]
	key := q.cacheKey()
	if s.cache.Get(ctx, key, &result) {
		return result, nil
	}

	filter := store.BlogPostFilter{
		Category:  q.Category,
		Featured:  util.NullBoolFromPtr(q.Featured),
		Published: util.NullBoolFromPtr(q.Published),
	}
	rows, err := s.queries.ListBlogPostSummaries(ctx, store.ListBlogPostsParams{
		BlogPostFilter: filter,
		Limit:          int64(q.Limit),
		Offset:         q.Offset(),
	})
	if err != nil {
		return result, fmt.Errorf("listing blog posts: %w", err)
	}
	total, err := s.queries.CountBlogPosts(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("counting blog posts: %w", err)
	}

	result = ListResult[model.BlogPostSummary]{Items: mapSlice(rows, blogSummaryFromStore), Total: total}
	s.cache.Set(ctx, key, result)
	return result, nil
}

// GetPublishedBlogPost returns a published post by slug and counts the read.
// The view increment is a single atomic statement, so concurrent reads never
// lose a count.
func (s *ContentService) GetPublishedBlogPost(ctx context.Context, slug string) (model.BlogPost, error) {
	if !util.IsValidSlug(slug) {
		return model.BlogPost{}, fmt.Errorf("blog post %w", ErrNotFound)
	}

	views, err := s.queries.IncrementBlogPostViews(ctx, slug)
	if err != nil {
		return model.BlogPost{}, storeErr("incrementing views", "blog post", err)
	}
	p, err := s.queries.GetPublishedBlogPostBySlug(ctx, slug)
	if err != nil {
		return model.BlogPost{}, storeErr("getting blog post", "blog post", err)
	}
	if p.Views < views {
		p.Views = views
	}

	post := blogPostFromStore(p)
	s.renderContent(&post)
	return post, nil
}

// GetBlogPost returns a post by id in any state without counting a view.
func (s *ContentService) GetBlogPost(ctx context.Context, id int64) (model.BlogPost, error) {
	p, err := s.queries.GetBlogPost(ctx, id)
	if err != nil {
		return model.BlogPost{}, storeErr("getting blog post", "blog post", err)
	}
	post := blogPostFromStore(p)
	s.renderContent(&post)
	return post, nil
}

func (s *ContentService) renderContent(post *model.BlogPost) {
	if s.renderer == nil {
		return
	}
	html, err := s.renderer.Render(post.Content)
	if err != nil {
		s.logger.Warn("failed to render blog post", "post_id", post.ID, "error", err)
		return
	}
	post.ContentHTML = html
}

// LikeBlogPost adds one like to a published post and returns the new count.
func (s *ContentService) LikeBlogPost(ctx context.Context, slug string) (int64, error) {
	if !util.IsValidSlug(slug) {
		return 0, fmt.Errorf("blog post %w", ErrNotFound)
	}
	likes, err := s.queries.IncrementBlogPostLikes(ctx, slug)
	if err != nil {
		return 0, storeErr("incrementing likes", "blog post", err)
	}
	s.cache.InvalidatePrefix(ctx, blogCachePrefix)
	return likes, nil
}

// CreateBlogPost validates the patch over post defaults, derives the slug,
// stamps the publish time when created published, and persists the post.
func (s *ContentService) CreateBlogPost(ctx context.Context, patch model.BlogPostPatch, img *ImageUpload) (model.BlogPost, error) {
	fields := patch.Apply(model.NewBlogPostFields())
	if err := fields.Validate(); err != nil {
		return model.BlogPost{}, err
	}

	now := s.now().UTC()
	lc := ApplyLifecycle(Lifecycle{}, patch, fields, now)

	stored, err := s.storeImage(ctx, ImageKindBlog, img, now)
	if err != nil {
		return model.BlogPost{}, err
	}
	image, publicID := imageColumns(stored, nullString(""), nullString(""))

	p, err := s.queries.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title:         fields.Title,
		Slug:          nullString(lc.Slug),
		Excerpt:       fields.Excerpt,
		Content:       fields.Content,
		Category:      fields.Category,
		ReadTime:      fields.ReadTime,
		Image:         image,
		ImagePublicID: publicID,
		Tags:          model.EncodeList(fields.Tags),
		Published:     fields.Published,
		Featured:      fields.Featured,
		PublishedAt:   util.NullTimeFromPtr(lc.PublishedAt),
		ScheduledAt:   util.NullTimeFromPtr(fields.ScheduledAt),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		s.discardImage(ctx, stored.pathOrEmpty())
		return model.BlogPost{}, storeErr("creating blog post", "blog post", err)
	}

	s.cache.InvalidatePrefix(ctx, blogCachePrefix)
	s.logger.Info("blog post created", "post_id", p.ID, "slug", p.Slug.String, "published", p.Published)
	return blogPostFromStore(p), nil
}

// UpdateBlogPost merges patch over the stored post, re-validates, routes the
// change set through the lifecycle policy and persists the result.
func (s *ContentService) UpdateBlogPost(ctx context.Context, id int64, patch model.BlogPostPatch, img *ImageUpload) (model.BlogPost, error) {
	existing, err := s.queries.GetBlogPost(ctx, id)
	if err != nil {
		return model.BlogPost{}, storeErr("getting blog post", "blog post", err)
	}

	fields := patch.Apply(blogFieldsFromStore(existing))
	if err := fields.Validate(); err != nil {
		return model.BlogPost{}, err
	}

	now := s.now().UTC()
	lc := ApplyLifecycle(blogLifecycleFromStore(existing), patch, fields, now)

	stored, err := s.storeImage(ctx, ImageKindBlog, img, now)
	if err != nil {
		return model.BlogPost{}, err
	}
	image, publicID := imageColumns(stored, existing.Image, existing.ImagePublicID)

	p, err := s.queries.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		ID:            id,
		Title:         fields.Title,
		Slug:          nullString(lc.Slug),
		Excerpt:       fields.Excerpt,
		Content:       fields.Content,
		Category:      fields.Category,
		ReadTime:      fields.ReadTime,
		Image:         image,
		ImagePublicID: publicID,
		Tags:          model.EncodeList(fields.Tags),
		Published:     fields.Published,
		Featured:      fields.Featured,
		PublishedAt:   util.NullTimeFromPtr(lc.PublishedAt),
		ScheduledAt:   util.NullTimeFromPtr(fields.ScheduledAt),
		UpdatedAt:     now,
	})
	if err != nil {
		s.discardImage(ctx, stored.pathOrEmpty())
		return model.BlogPost{}, storeErr("updating blog post", "blog post", err)
	}
	if stored != nil && existing.Image.Valid {
		s.discardImage(ctx, existing.Image.String)
	}

	s.cache.InvalidatePrefix(ctx, blogCachePrefix)
	return blogPostFromStore(p), nil
}

// DeleteBlogPost permanently removes a post and its image.
func (s *ContentService) DeleteBlogPost(ctx context.Context, id int64) error {
	existing, err := s.queries.GetBlogPost(ctx, id)
	if err != nil {
		return storeErr("getting blog post", "blog post", err)
	}
	if err := s.queries.DeleteBlogPost(ctx, id); err != nil {
		return storeErr("deleting blog post", "blog post", err)
	}
	if existing.Image.Valid {
		s.discardImage(ctx, existing.Image.String)
	}

	s.cache.InvalidatePrefix(ctx, blogCachePrefix)
	s.logger.Info("blog post deleted", "post_id", id)
	return nil
}

// PublishScheduled publishes every unpublished post whose scheduled time has
// passed. Posts failing validation or colliding on slug are skipped and logged.
func (s *ContentService) PublishScheduled(ctx context.Context) (int, error) {
	due, err := s.queries.ListDueScheduledBlogPosts(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("listing scheduled posts: %w", err)
	}

	published := 0
	publish := true
	for _, p := range due {
		_, err := s.UpdateBlogPost(ctx, p.ID, model.BlogPostPatch{Published: &publish, ClearSchedule: true}, nil)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			s.logger.Warn("failed to publish scheduled post", "post_id", p.ID, "error", err)
			continue
		}
		published++
	}
	if published > 0 {
		s.logger.Info("published scheduled blog posts", "count", published)
	}
	return published, nil
}
