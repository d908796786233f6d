// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/testutil"
)

func newProject(title string, featured bool, order int64, created time.Time) store.CreateProjectParams {
	return store.CreateProjectParams{
		Title:        title,
		Description:  "description",
		Technologies: `["Go"]`,
		Category:     "Web Development",
		Year:         "2024",
		Status:       "Completed",
		Featured:     featured,
		SortOrder:    order,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func newPost(title, slug string, published bool, created time.Time) store.CreateBlogPostParams {
	p := store.CreateBlogPostParams{
		Title:     title,
		Slug:      sql.NullString{String: slug, Valid: slug != ""},
		Excerpt:   "excerpt",
		Content:   "content",
		Category:  "Technical",
		ReadTime:  "5 min read",
		Tags:      `["go"]`,
		Published: published,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if published {
		p.PublishedAt = sql.NullTime{Time: created, Valid: true}
	}
	return p
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testutil.TestMemDB(t)

	if err := store.Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	v, err := store.MigrationVersion(db)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if v != 5 {
		t.Errorf("version = %d, want 5", v)
	}
}

func TestProductionDriver(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p, err := q.CreateProject(ctx, newProject("Folio", true, 1, created))
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, created)
	}
	if !p.Featured || p.SortOrder != 1 {
		t.Errorf("got featured=%v order=%d", p.Featured, p.SortOrder)
	}
}

func TestProjectOrdering(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	inputs := []store.CreateProjectParams{
		newProject("plain-old", false, 0, base),
		newProject("featured-2", true, 2, base.Add(time.Hour)),
		newProject("featured-1", true, 1, base.Add(2*time.Hour)),
		newProject("plain-new", false, 0, base.Add(3*time.Hour)),
	}
	for _, in := range inputs {
		if _, err := q.CreateProject(ctx, in); err != nil {
			t.Fatalf("CreateProject(%s): %v", in.Title, err)
		}
	}

	rows, err := q.ListProjects(ctx, store.ListProjectsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	want := []string{"featured-1", "featured-2", "plain-new", "plain-old"}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, r := range rows {
		if r.Title != want[i] {
			t.Errorf("row %d = %q, want %q", i, r.Title, want[i])
		}
	}

	featured := store.ProjectFilter{Featured: sql.NullBool{Bool: true, Valid: true}}
	n, err := q.CountProjects(ctx, featured)
	if err != nil {
		t.Fatalf("CountProjects: %v", err)
	}
	if n != 2 {
		t.Errorf("featured count = %d, want 2", n)
	}
}

func TestProjectNotFound(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)

	if _, err := q.GetProject(ctx, 42); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetProject error = %v, want sql.ErrNoRows", err)
	}
	if err := q.DeleteProject(ctx, 42); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("DeleteProject error = %v, want sql.ErrNoRows", err)
	}
}

func TestBlogPostSlugConflict(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	if _, err := q.CreateBlogPost(ctx, newPost("Hello", "hello", true, now)); err != nil {
		t.Fatalf("first CreateBlogPost: %v", err)
	}
	_, err := q.CreateBlogPost(ctx, newPost("Hello", "hello", true, now))
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	var ce *store.ConflictError
	if !errors.As(err, &ce) || ce.Column != "slug" {
		t.Errorf("conflict column = %+v, want slug", ce)
	}

	// NULL slugs never collide.
	for i := 0; i < 2; i++ {
		if _, err := q.CreateBlogPost(ctx, newPost("!!!", "", false, now)); err != nil {
			t.Fatalf("CreateBlogPost with empty slug #%d: %v", i, err)
		}
	}
}

func TestIncrementBlogPostViews(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	if _, err := q.CreateBlogPost(ctx, newPost("Live", "live", true, now)); err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}
	if _, err := q.CreateBlogPost(ctx, newPost("Draft", "draft", false, now)); err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}

	const readers = 20
	var wg sync.WaitGroup
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := q.IncrementBlogPostViews(ctx, "live"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("IncrementBlogPostViews: %v", err)
	}

	views, err := q.IncrementBlogPostViews(ctx, "live")
	if err != nil {
		t.Fatalf("IncrementBlogPostViews: %v", err)
	}
	if views != readers+1 {
		t.Errorf("views = %d, want %d", views, readers+1)
	}

	if _, err := q.IncrementBlogPostViews(ctx, "draft"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("draft increment error = %v, want sql.ErrNoRows", err)
	}

	likes, err := q.IncrementBlogPostLikes(ctx, "live")
	if err != nil {
		t.Fatalf("IncrementBlogPostLikes: %v", err)
	}
	if likes != 1 {
		t.Errorf("likes = %d, want 1", likes)
	}
}

func TestListBlogPostSummaries(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range []store.CreateBlogPostParams{
		newPost("old", "old", true, base),
		newPost("new", "new", true, base.Add(time.Hour)),
		newPost("draft", "draft", false, base.Add(2*time.Hour)),
	} {
		if _, err := q.CreateBlogPost(ctx, p); err != nil {
			t.Fatalf("CreateBlogPost(%s): %v", p.Title, err)
		}
	}

	tests := []struct {
		name      string
		published sql.NullBool
		want      []string
	}{
		{"all", sql.NullBool{}, []string{"new", "old", "draft"}},
		{"published", sql.NullBool{Bool: true, Valid: true}, []string{"new", "old"}},
		{"drafts", sql.NullBool{Bool: false, Valid: true}, []string{"draft"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := store.BlogPostFilter{Published: tt.published}
			rows, err := q.ListBlogPostSummaries(ctx, store.ListBlogPostsParams{BlogPostFilter: filter, Limit: 10})
			if err != nil {
				t.Fatalf("ListBlogPostSummaries: %v", err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, r := range rows {
				if r.Title != tt.want[i] {
					t.Errorf("row %d = %q, want %q", i, r.Title, tt.want[i])
				}
				if r.Content != "" {
					t.Errorf("row %d carries content", i)
				}
			}
			n, err := q.CountBlogPosts(ctx, filter)
			if err != nil {
				t.Fatalf("CountBlogPosts: %v", err)
			}
			if n != int64(len(tt.want)) {
				t.Errorf("count = %d, want %d", n, len(tt.want))
			}
		})
	}
}

func TestListDueScheduledBlogPosts(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	due := newPost("due", "due", false, now.Add(-time.Hour))
	due.ScheduledAt = sql.NullTime{Time: now.Add(-time.Minute), Valid: true}
	later := newPost("later", "later", false, now.Add(-time.Hour))
	later.ScheduledAt = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
	for _, p := range []store.CreateBlogPostParams{due, later} {
		if _, err := q.CreateBlogPost(ctx, p); err != nil {
			t.Fatalf("CreateBlogPost(%s): %v", p.Title, err)
		}
	}

	rows, err := q.ListDueScheduledBlogPosts(ctx, now)
	if err != nil {
		t.Fatalf("ListDueScheduledBlogPosts: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "due" {
		t.Fatalf("got %v, want only the due post", rows)
	}
}

func TestInTxRollsBack(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.InTx(ctx, db, func(q *store.Queries) error {
		if _, err := q.CreateProject(ctx, newProject("tx", false, 0, time.Now().UTC())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}
	n, err := store.New(db).CountProjects(ctx, store.ProjectFilter{})
	if err != nil {
		t.Fatalf("CountProjects: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d after rollback, want 0", n)
	}
}

func TestEventsAndCleanup(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)
	now := time.Now().UTC()

	for i, at := range []time.Time{now.Add(-48 * time.Hour), now} {
		err := q.CreateEvent(ctx, store.CreateEventParams{
			Level:     "warning",
			Category:  "system",
			Message:   "event",
			Metadata:  "{}",
			CreatedAt: at,
		})
		if err != nil {
			t.Fatalf("CreateEvent #%d: %v", i, err)
		}
	}

	deleted, err := q.DeleteEventsBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	n, err := q.CountEvents(ctx, "")
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 1 {
		t.Errorf("remaining = %d, want 1", n)
	}
}

func TestTransferQueries(t *testing.T) {
	db := testutil.TestMemDB(t)
	ctx := context.Background()
	q := store.New(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	draft, err := q.CreateBlogPost(ctx, newPost("Draft", "draft", false, base))
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}
	if _, err := q.CreateBlogPost(ctx, newPost("Live", "live", true, base.Add(time.Hour))); err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}

	got, err := q.GetBlogPostBySlug(ctx, "draft")
	if err != nil {
		t.Fatalf("GetBlogPostBySlug: %v", err)
	}
	if got.ID != draft.ID {
		t.Errorf("GetBlogPostBySlug id = %d, want %d", got.ID, draft.ID)
	}

	all, err := q.ListAllBlogPosts(ctx, sql.NullBool{})
	if err != nil {
		t.Fatalf("ListAllBlogPosts: %v", err)
	}
	if len(all) != 2 || all[0].Slug.String != "draft" || all[0].Content == "" {
		t.Errorf("ListAllBlogPosts = %+v, want both posts oldest first with content", all)
	}
	published, err := q.ListAllBlogPosts(ctx, sql.NullBool{Bool: true, Valid: true})
	if err != nil {
		t.Fatalf("ListAllBlogPosts(published): %v", err)
	}
	if len(published) != 1 || published[0].Slug.String != "live" {
		t.Errorf("published posts = %+v", published)
	}

	if err := q.SetBlogPostCounters(ctx, draft.ID, 12, 3); err != nil {
		t.Fatalf("SetBlogPostCounters: %v", err)
	}
	got, _ = q.GetBlogPost(ctx, draft.ID)
	if got.Views != 12 || got.Likes != 3 {
		t.Errorf("counters = %d/%d, want 12/3", got.Views, got.Likes)
	}
	if err := q.SetBlogPostCounters(ctx, 9999, 1, 1); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("SetBlogPostCounters(missing) = %v, want sql.ErrNoRows", err)
	}

	first, err := q.CreateProject(ctx, newProject("Twin", false, 0, base))
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := q.CreateProject(ctx, newProject("Twin", false, 0, base.Add(time.Hour))); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	p, err := q.GetProjectByTitle(ctx, "Twin")
	if err != nil {
		t.Fatalf("GetProjectByTitle: %v", err)
	}
	if p.ID != first.ID {
		t.Errorf("GetProjectByTitle id = %d, want %d", p.ID, first.ID)
	}
	if _, err := q.GetProjectByTitle(ctx, "Nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetProjectByTitle(missing) = %v, want sql.ErrNoRows", err)
	}
}
