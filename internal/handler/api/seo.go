// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/seo"
	"github.com/olegiv/folio/internal/service"
)

// maxSitemapPages bounds how many listing pages of each kind go into the sitemap.
const maxSitemapPages = 50

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowCrawl,
	})))
}

// Sitemap handles GET /sitemap.xml: the front-end URLs of every published
// blog post and every project.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()

	published := true
	err := eachPage(r.Context(), func(ctx context.Context, p service.Pagination) (int, int64, error) {
		res, err := h.content.ListBlogPosts(ctx, service.BlogQuery{Published: &published, Pagination: p})
		for _, post := range res.Items {
			if post.Slug != nil {
				b.AddBlogPost(*post.Slug, post.UpdatedAt)
			}
		}
		return len(res.Items), res.Total, err
	})
	if err == nil {
		err = eachPage(r.Context(), func(ctx context.Context, p service.Pagination) (int, int64, error) {
			res, err := h.content.ListProjects(ctx, service.ProjectQuery{Pagination: p})
			for _, proj := range res.Items {
				b.AddProject(proj.ID, proj.UpdatedAt)
			}
			return len(res.Items), res.Total, err
		})
	}
	if err != nil {
		handler.Error(w, r, err)
		return
	}

	out, err := b.Build()
	if err != nil {
		handler.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// eachPage calls fetch for successive full pages until the listing is exhausted.
func eachPage(ctx context.Context, fetch func(context.Context, service.Pagination) (int, int64, error)) error {
	seen := int64(0)
	for page := 1; page <= maxSitemapPages; page++ {
		n, total, err := fetch(ctx, service.Pagination{Page: page, Limit: service.MaxLimit})
		if err != nil {
			return err
		}
		seen += int64(n)
		if n == 0 || seen >= total {
			return nil
		}
	}
	return nil
}
