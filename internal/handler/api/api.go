// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api implements the portfolio REST API: public content, contact
// submissions, admin authentication and the admin content endpoints.
package api

import (
	"context"
	"log/slog"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/profile"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/session"
)

// DefaultMaxUpload bounds image uploads when Deps.MaxUpload is zero.
const DefaultMaxUpload = 5 << 20

// CacheAdmin exposes list cache statistics and flushing.
type CacheAdmin interface {
	Stats() cache.Stats
	Clear(ctx context.Context) error
}

// Deps are the services the handlers call.
type Deps struct {
	Content   *service.ContentService
	Contacts  *service.ContactService
	Users     *service.UserService
	Events    *service.EventService
	Dashboard *service.DashboardService
	Sessions  *session.Manager
	Login     *middleware.LoginProtection
	Profile   *profile.Profile
	Cache     CacheAdmin
	MaxUpload int64
	Logger    *slog.Logger

	// SiteURL is the public front end; it enables /sitemap.xml.
	SiteURL string
	// DisallowCrawl makes robots.txt block every crawler.
	DisallowCrawl bool
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	content   *service.ContentService
	contacts  *service.ContactService
	users     *service.UserService
	events    *service.EventService
	dashboard *service.DashboardService
	sessions  *session.Manager
	login     *middleware.LoginProtection
	profile   *profile.Profile
	cache     CacheAdmin
	maxUpload int64
	logger    *slog.Logger

	siteURL       string
	disallowCrawl bool
}

// New creates a Handler.
func New(d Deps) *Handler {
	h := &Handler{
		content:   d.Content,
		contacts:  d.Contacts,
		users:     d.Users,
		events:    d.Events,
		dashboard: d.Dashboard,
		sessions:  d.Sessions,
		login:     d.Login,
		profile:   d.Profile,
		cache:     d.Cache,
		maxUpload: d.MaxUpload,
		logger:    d.Logger,

		siteURL:       d.SiteURL,
		disallowCrawl: d.DisallowCrawl,
	}
	if h.maxUpload <= 0 {
		h.maxUpload = DefaultMaxUpload
	}
	if h.profile == nil {
		h.profile = profile.Default()
	}
	if h.login == nil {
		h.login = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}
