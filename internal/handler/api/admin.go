// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/service"
)

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboard.Get(r.Context())
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, d)
}

// AdminListProjects handles GET /api/admin/projects.
func (h *Handler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	h.ListProjects(w, r)
}

// AdminGetProject handles GET /api/admin/projects/{id}.
func (h *Handler) AdminGetProject(w http.ResponseWriter, r *http.Request) {
	h.GetProject(w, r)
}

// CreateProject handles POST /api/admin/projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	patch, img, err := h.decodeProject(w, r)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	p, err := h.content.CreateProject(r.Context(), patch, img)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Created(w, "Project created successfully", p)
}

// UpdateProject handles PUT /api/admin/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	patch, img, err := h.decodeProject(w, r)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	p, err := h.content.UpdateProject(r.Context(), id, patch, img)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Project updated successfully", p)
}

// DeleteProject handles DELETE /api/admin/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Project not found")
		return
	}
	if err := h.content.DeleteProject(r.Context(), id); err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Project deleted successfully", nil)
}

// AdminListBlogPosts handles GET /api/admin/blog. Drafts are included
// unless a published filter is given.
func (h *Handler) AdminListBlogPosts(w http.ResponseWriter, r *http.Request) {
	h.listBlogPosts(w, r, handler.OptionalBool(r.URL.Query(), "published"))
}

// AdminGetBlogPost handles GET /api/admin/blog/{id}. Views are not counted.
func (h *Handler) AdminGetBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Blog post not found")
		return
	}
	post, err := h.content.GetBlogPost(r.Context(), id)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.OK(w, post)
}

// CreateBlogPost handles POST /api/admin/blog.
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	patch, img, err := h.decodeBlogPost(w, r)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	post, err := h.content.CreateBlogPost(r.Context(), patch, img)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Created(w, "Blog post created successfully", post)
}

// UpdateBlogPost handles PUT /api/admin/blog/{id}.
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Blog post not found")
		return
	}
	patch, img, err := h.decodeBlogPost(w, r)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	post, err := h.content.UpdateBlogPost(r.Context(), id, patch, img)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Blog post updated successfully", post)
}

// DeleteBlogPost handles DELETE /api/admin/blog/{id}.
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Blog post not found")
		return
	}
	if err := h.content.DeleteBlogPost(r.Context(), id); err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Blog post deleted successfully", nil)
}

// ListContacts handles GET /api/admin/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.contacts.List(r.Context(), service.ContactQuery{
		Status:     q.Get("status"),
		Pagination: handler.PaginationFromQuery(q),
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.List(w, res)
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

// UpdateContactStatus handles PUT /api/admin/contacts/{id}/status.
func (h *Handler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Contact not found")
		return
	}
	var req contactStatusRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.Error(w, r, err)
		return
	}
	c, err := h.contacts.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Contact status updated successfully", c)
}

// DeleteContact handles DELETE /api/admin/contacts/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := handler.IDParam(r, "id")
	if !ok {
		handler.Fail(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.Message(w, "Contact deleted successfully", nil)
}

// ListEvents handles GET /api/admin/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.events.List(r.Context(), service.EventQuery{
		Level:      q.Get("level"),
		Pagination: handler.PaginationFromQuery(q),
	})
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	handler.List(w, res)
}

// CacheStats handles GET /api/admin/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	if h.cache == nil {
		handler.OK(w, nil)
		return
	}
	handler.OK(w, h.cache.Stats())
}

// ClearCache handles POST /api/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Clear(r.Context()); err != nil {
			handler.Error(w, r, err)
			return
		}
	}
	h.logger.Info("list cache cleared", "user_id", currentUserID(r))
	handler.Message(w, "Cache cleared successfully", nil)
}

// decodeProject reads a project change set from JSON or multipart.
func (h *Handler) decodeProject(w http.ResponseWriter, r *http.Request) (model.ProjectPatch, *service.ImageUpload, error) {
	var patch model.ProjectPatch
	if !handler.IsMultipart(r) {
		err := handler.DecodeJSON(w, r, &patch)
		return patch, nil, err
	}
	f, err := handler.ParseForm(w, r, h.maxUpload)
	if err != nil {
		return patch, nil, err
	}
	patch = model.ProjectPatch{
		Title:        f.String("title"),
		Description:  f.String("description"),
		Technologies: f.List("technologies"),
		Category:     f.String("category"),
		Year:         f.String("year"),
		Status:       f.String("status"),
		GithubURL:    f.String("githubUrl"),
		LiveURL:      f.String("liveUrl"),
		Featured:     f.Bool("featured"),
		Order:        f.Int("order"),
	}
	if err := f.Err(); err != nil {
		return patch, nil, err
	}
	img, err := f.Image("image")
	return patch, img, err
}

// decodeBlogPost reads a blog post change set from JSON or multipart.
func (h *Handler) decodeBlogPost(w http.ResponseWriter, r *http.Request) (model.BlogPostPatch, *service.ImageUpload, error) {
	var patch model.BlogPostPatch
	if !handler.IsMultipart(r) {
		err := handler.DecodeJSON(w, r, &patch)
		return patch, nil, err
	}
	f, err := handler.ParseForm(w, r, h.maxUpload)
	if err != nil {
		return patch, nil, err
	}
	patch = model.BlogPostPatch{
		Title:       f.String("title"),
		Excerpt:     f.String("excerpt"),
		Content:     f.String("content"),
		Category:    f.String("category"),
		ReadTime:    f.String("readTime"),
		Tags:        f.List("tags"),
		Published:   f.Bool("published"),
		Featured:    f.Bool("featured"),
		ScheduledAt: f.Time("scheduledAt"),
	}
	if v := f.Bool("clearSchedule"); v != nil {
		patch.ClearSchedule = *v
	}
	if err := f.Err(); err != nil {
		return patch, nil, err
	}
	img, err := f.Image("image")
	return patch, img, err
}

func currentUserID(r *http.Request) int64 {
	if u := middleware.UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return 0
}
