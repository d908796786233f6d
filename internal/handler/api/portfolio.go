// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/service"
)

// ListProjects handles GET /api/portfolio/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.content.ListProjects(r.Context(), service.ProjectQuery{
		Category:   q.Get("category"),
		Featured:   handler.OptionalBool(q, "featured"),
		Pagination: handler.PaginationFromQuery(q),
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.List(w, res)
}

// GetProject handles GET /api/portfolio/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	p, err := h.content.GetProject(r.Context(), id)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, p)
}

// ListPublishedBlogPosts handles GET /api/portfolio/blog. Without a
// published filter only published posts are listed.
func (h *Handler) ListPublishedBlogPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	published := handler.OptionalBool(q, "published")
	if published == nil {
		t := true
		published = &t
	}
	h.listBlogPosts(w, r, published)
}

func (h *Handler) listBlogPosts(w http.ResponseWriter, r *http.Request, published *bool) {
	q := r.URL.Query()
	res, err := h.content.ListBlogPosts(r.Context(), service.BlogQuery{
		Category:   q.Get("category"),
		Featured:   handler.OptionalBool(q, "featured"),
		Published:  published,
		Pagination: handler.PaginationFromQuery(q),
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.List(w, res)
}

// GetBlogPostBySlug handles GET /api/portfolio/blog/{slug} and counts a view.
func (h *Handler) GetBlogPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.content.GetPublishedBlogPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, post)
}

// LikeBlogPost handles POST /api/portfolio/blog/{slug}/like.
func (h *Handler) LikeBlogPost(w http.ResponseWriter, r *http.Request) {
	likes, err := h.content.LikeBlogPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, map[string]int64{"likes": likes})
}

// Stats handles GET /api/portfolio/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.content.Stats(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, stats)
}

// Skills handles GET /api/portfolio/skills.
func (h *Handler) Skills(w http.ResponseWriter, _ *http.Request) {
	handler.OK(w, h.profile.Skills)
}

// Experience handles GET /api/portfolio/experience.
func (h *Handler) Experience(w http.ResponseWriter, _ *http.Request) {
	handler.OK(w, h.profile.Experience)
}

// Info handles GET /api/portfolio/info.
func (h *Handler) Info(w http.ResponseWriter, _ *http.Request) {
	handler.OK(w, h.profile.Info)
}
