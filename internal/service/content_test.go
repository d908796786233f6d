// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/testutil"
)

type fakeImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: make(map[string][]byte)}
}

func (f *fakeImages) Put(_ context.Context, key string, data []byte) (string, error) {
	if !strings.HasPrefix(string(data), "IMG") {
		return "", model.ErrInvalidImage
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "id-" + key, nil
}

func (f *fakeImages) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.removed = append(f.removed, key)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]any
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]any)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return false
	}
	switch d := dest.(type) {
	case *ListResult[model.Project]:
		*d = v.(ListResult[model.Project])
	case *ListResult[model.BlogPostSummary]:
		*d = v.(ListResult[model.BlogPostSummary])
	default:
		return false
	}
	return true
}

func (c *fakeCache) Set(_ context.Context, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) InvalidatePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, prefix)
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestContentService(t *testing.T, opts ...ContentOption) (*ContentService, *clock) {
	t.Helper()
	db := testutil.TestDB(t)
	clk := &clock{now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}
	base := []ContentOption{WithClock(clk.Now), WithLogger(testutil.DiscardLogger())}
	return NewContentService(db, append(base, opts...)...), clk
}

func validProjectPatch(title string) model.ProjectPatch {
	return model.ProjectPatch{
		Title:        ptr(title),
		Description:  ptr("A project"),
		Technologies: ptr([]string{"Go"}),
		Category:     ptr("Web Development"),
		Year:         ptr("2024"),
	}
}

func validPostPatch(title string, published bool) model.BlogPostPatch {
	return model.BlogPostPatch{
		Title:     ptr(title),
		Excerpt:   ptr("An excerpt"),
		Content:   ptr("# Heading\n\nBody"),
		Category:  ptr("Technical"),
		ReadTime:  ptr("5 min read"),
		Published: ptr(published),
	}
}

func TestCreateBlogPostHelloWorld(t *testing.T) {
	svc, clk := newTestContentService(t)
	ctx := context.Background()

	post, err := svc.CreateBlogPost(ctx, validPostPatch("Hello, World! 2024", true), nil)
	require.NoError(t, err)
	require.NotNil(t, post.Slug)
	assert.Equal(t, "hello-world-2024", *post.Slug)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(clk.Now()))
	assert.Zero(t, post.Views)

	got, err := svc.GetPublishedBlogPost(ctx, "hello-world-2024")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, "# Heading\n\nBody", got.Content)
}

func TestCreateBlogPostDuplicateTitle(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	_, err := svc.CreateBlogPost(ctx, validPostPatch("Same Title", false), nil)
	require.NoError(t, err)

	_, err = svc.CreateBlogPost(ctx, validPostPatch("same   title!", false), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "slug", ce.Field)
	assert.Equal(t, "A blog post with this title already exists", ce.Message)
}

func TestCreateBlogPostValidation(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.CreateBlogPost(context.Background(), model.BlogPostPatch{ReadTime: ptr("soon")}, nil)
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"title", "excerpt", "content", "category", "readTime"}, fields)
}

func TestUpdateBlogPostSlugGatedOnTitle(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	post, err := svc.CreateBlogPost(ctx, validPostPatch("Original Title", false), nil)
	require.NoError(t, err)

	updated, err := svc.UpdateBlogPost(ctx, post.ID, model.BlogPostPatch{Excerpt: ptr("New excerpt")}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Slug)
	assert.Equal(t, "original-title", *updated.Slug)

	updated, err = svc.UpdateBlogPost(ctx, post.ID, model.BlogPostPatch{Title: ptr("Renamed Post")}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Slug)
	assert.Equal(t, "renamed-post", *updated.Slug)
}

func TestUpdateBlogPostPublishedAtStampedOnce(t *testing.T) {
	svc, clk := newTestContentService(t)
	ctx := context.Background()

	post, err := svc.CreateBlogPost(ctx, validPostPatch("Draft", false), nil)
	require.NoError(t, err)
	assert.Nil(t, post.PublishedAt)

	clk.Advance(time.Hour)
	first := clk.Now()
	post, err = svc.UpdateBlogPost(ctx, post.ID, model.BlogPostPatch{Published: ptr(true)}, nil)
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(first))

	clk.Advance(time.Hour)
	_, err = svc.UpdateBlogPost(ctx, post.ID, model.BlogPostPatch{Published: ptr(false)}, nil)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	post, err = svc.UpdateBlogPost(ctx, post.ID, model.BlogPostPatch{Published: ptr(true)}, nil)
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, post.PublishedAt.Equal(first), "publishedAt moved to %v", post.PublishedAt)
}

func TestUpdateBlogPostNotFound(t *testing.T) {
	svc, _ := newTestContentService(t)

	_, err := svc.UpdateBlogPost(context.Background(), 999, model.BlogPostPatch{Title: ptr("x")}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBlogPost(context.Background(), 999), ErrNotFound)
}

func TestListBlogPostsPublishedFilter(t *testing.T) {
	svc, clk := newTestContentService(t)
	ctx := context.Background()

	for i, published := range []bool{true, false, true} {
		clk.Advance(time.Minute)
		_, err := svc.CreateBlogPost(ctx, validPostPatch(fmt.Sprintf("Post %d", i), published), nil)
		require.NoError(t, err)
	}

	pub, err := svc.ListBlogPosts(ctx, BlogQuery{Published: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pub.Total)
	for _, p := range pub.Items {
		assert.True(t, p.Published)
	}
	assert.Equal(t, "Post 2", pub.Items[0].Title)

	drafts, err := svc.ListBlogPosts(ctx, BlogQuery{Published: ptr(false)})
	require.NoError(t, err)
	require.Len(t, drafts.Items, 1)
	assert.Equal(t, "Post 1", drafts.Items[0].Title)

	all, err := svc.ListBlogPosts(ctx, BlogQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}

func TestGetPublishedBlogPostViews(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	_, err := svc.CreateBlogPost(ctx, validPostPatch("Counted", true), nil)
	require.NoError(t, err)
	_, err = svc.CreateBlogPost(ctx, validPostPatch("Hidden", false), nil)
	require.NoError(t, err)

	for want := int64(1); want <= 2; want++ {
		got, err := svc.GetPublishedBlogPost(ctx, "counted")
		require.NoError(t, err)
		assert.Equal(t, want, got.Views)
	}

	const readers = 10
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.GetPublishedBlogPost(ctx, "counted")
		}()
	}
	wg.Wait()

	got, err := svc.GetPublishedBlogPost(ctx, "counted")
	require.NoError(t, err)
	assert.Equal(t, int64(2+readers+1), got.Views)

	_, err = svc.GetPublishedBlogPost(ctx, "hidden")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetPublishedBlogPost(ctx, "Not A Slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeBlogPost(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	_, err := svc.CreateBlogPost(ctx, validPostPatch("Likeable", true), nil)
	require.NoError(t, err)

	likes, err := svc.LikeBlogPost(ctx, "likeable")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	_, err = svc.LikeBlogPost(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsPagination(t *testing.T) {
	svc, clk := newTestContentService(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		clk.Advance(time.Minute)
		_, err := svc.CreateProject(ctx, validProjectPatch(fmt.Sprintf("Project %02d", i)), nil)
		require.NoError(t, err)
	}

	page, err := svc.ListProjects(ctx, ProjectQuery{Pagination: Pagination{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	require.Len(t, page.Items, 10)
	// Newest first: page 2 starts at the 11th newest project.
	assert.Equal(t, "Project 15", page.Items[0].Title)
	assert.Equal(t, "Project 06", page.Items[9].Title)
}

func TestListProjectsFeaturedFilter(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	for i, featured := range []bool{false, true, true} {
		p := validProjectPatch(fmt.Sprintf("P%d", i))
		p.Featured = ptr(featured)
		p.Order = ptr(int64(3 - i))
		_, err := svc.CreateProject(ctx, p, nil)
		require.NoError(t, err)
	}

	res, err := svc.ListProjects(ctx, ProjectQuery{Featured: ptr(true)})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "P2", res.Items[0].Title)
	assert.Equal(t, "P1", res.Items[1].Title)
	for _, p := range res.Items {
		assert.True(t, p.Featured)
	}
}

func TestProjectImageLifecycle(t *testing.T) {
	images := newFakeImages()
	svc, clk := newTestContentService(t, WithImageStore(images))
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, validProjectPatch("With Image"), &ImageUpload{Filename: "Shot 1.PNG", Data: []byte("IMG1")})
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	wantPath := fmt.Sprintf("/uploads/projects/%d-Shot-1.png", clk.Now().UnixMilli())
	assert.Equal(t, wantPath, *p.Image)
	require.NotNil(t, p.ImagePublicID)

	clk.Advance(time.Second)
	p, err = svc.UpdateProject(ctx, p.ID, model.ProjectPatch{}, &ImageUpload{Filename: "b.jpg", Data: []byte("IMG2")})
	require.NoError(t, err)
	assert.Contains(t, images.removed, strings.TrimPrefix(wantPath, UploadURLPrefix))

	_, err = svc.UpdateProject(ctx, p.ID, model.ProjectPatch{}, &ImageUpload{Filename: "c.txt", Data: []byte("text")})
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("image"))

	require.NoError(t, svc.DeleteProject(ctx, p.ID))
	assert.Empty(t, images.objects)
	_, err = svc.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCacheInvalidation(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestContentService(t, WithListCache(cache))
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, validProjectPatch("First"), nil)
	require.NoError(t, err)

	res, err := svc.ListProjects(ctx, ProjectQuery{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Len(t, cache.entries, 1)

	_, err = svc.CreateProject(ctx, validProjectPatch("Second"), nil)
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, projectsCachePrefix)

	res, err = svc.ListProjects(ctx, ProjectQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestStats(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	done := validProjectPatch("Done")
	done.Status = ptr(model.ProjectStatusCompleted)
	_, err := svc.CreateProject(ctx, done, nil)
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, validProjectPatch("Doing"), nil)
	require.NoError(t, err)

	_, err = svc.CreateBlogPost(ctx, validPostPatch("Read Me", true), nil)
	require.NoError(t, err)
	_, err = svc.CreateBlogPost(ctx, validPostPatch("Draft Only", false), nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.GetPublishedBlogPost(ctx, "read-me")
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Projects.Total)
	assert.Equal(t, int64(1), stats.Projects.Completed)
	assert.Equal(t, []CategoryCount{{Category: "Web Development", Count: 2}}, stats.Projects.Categories)
	assert.Equal(t, int64(1), stats.Blog.Total)
	assert.Equal(t, int64(3), stats.Blog.TotalViews)
	assert.Equal(t, []CategoryCount{{Category: "Technical", Count: 1}}, stats.Blog.Categories)
}

func TestPublishScheduled(t *testing.T) {
	svc, clk := newTestContentService(t)
	ctx := context.Background()

	patch := validPostPatch("Later", false)
	patch.ScheduledAt = ptr(clk.Now().Add(time.Hour))
	post, err := svc.CreateBlogPost(ctx, patch, nil)
	require.NoError(t, err)

	n, err := svc.PublishScheduled(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.Advance(2 * time.Hour)
	n, err = svc.PublishScheduled(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.GetBlogPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Published)
	assert.Nil(t, got.ScheduledAt)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.Equal(clk.Now()))
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	res, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Projects: 2, BlogPosts: 3}, res)

	res, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, res)

	post, err := svc.GetPublishedBlogPost(ctx, "my-journey-into-web-development")
	require.NoError(t, err)
	assert.Equal(t, []string{"web development", "learning", "journey", "beginner"}, post.Tags)
}

func TestStoreErrUnexpected(t *testing.T) {
	err := storeErr("doing thing", "project", errors.New("disk full"))
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "doing thing: disk full")
}
