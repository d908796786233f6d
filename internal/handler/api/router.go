// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/version"
)

// RouterConfig carries the middleware and settings NewRouter wires around
// the handlers. Nil limiters disable the corresponding limit.
type RouterConfig struct {
	CORSOrigins    []string
	TrustedProxies []string
	CSRFKey        []byte
	GlobalLimit    *middleware.RateLimiter
	ContactLimit   *middleware.RateLimiter
	Security       middleware.SecurityHeadersConfig
	Health         *handler.HealthHandler
	UploadsDir     string
	RequestTimeout time.Duration
	RequestLogging bool
}

// NewRouter assembles the HTTP routes of the API.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RealIP(cfg.TrustedProxies))
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Health)
		r.Get("/health/live", cfg.Health.Liveness)
		r.Get("/health/ready", cfg.Health.Readiness)
	}

	r.Get("/", welcome)
	r.Get("/robots.txt", h.Robots)
	if h.siteURL != "" {
		r.Get("/sitemap.xml", h.Sitemap)
	}

	if cfg.UploadsDir != "" {
		uploads := middleware.StaticCache(7*24*time.Hour)(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
		r.Handle("/uploads/*", uploads)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.GlobalLimit != nil {
			r.Use(cfg.GlobalLimit.Middleware)
		}
		r.Use(middleware.NoStore)
		r.Use(h.sessions.LoadAndSave)
		r.Use(middleware.LoadUser(h.sessions, h.users))

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/projects", h.ListProjects)
			r.Get("/projects/{id}", h.GetProject)
			r.Get("/blog", h.ListPublishedBlogPosts)
			r.Get("/blog/{slug}", h.GetBlogPostBySlug)
			r.Post("/blog/{slug}/like", h.LikeBlogPost)
			r.Get("/stats", h.Stats)
			r.Get("/skills", h.Skills)
			r.Get("/experience", h.Experience)
			r.Get("/info", h.Info)
		})

		contact := r.With()
		if cfg.ContactLimit != nil {
			contact = r.With(cfg.ContactLimit.Middleware)
		}
		contact.Post("/contact", h.SubmitContact)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.CSRF(cfg.CSRFKey, cfg.CORSOrigins))
			r.With(h.login.Middleware).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.CSRF(cfg.CSRFKey, cfg.CORSOrigins))
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", h.Dashboard)

			r.Get("/projects", h.AdminListProjects)
			r.Post("/projects", h.CreateProject)
			r.Get("/projects/{id}", h.AdminGetProject)
			r.Put("/projects/{id}", h.UpdateProject)
			r.Delete("/projects/{id}", h.DeleteProject)

			r.Get("/blog", h.AdminListBlogPosts)
			r.Post("/blog", h.CreateBlogPost)
			r.Get("/blog/{id}", h.AdminGetBlogPost)
			r.Put("/blog/{id}", h.UpdateBlogPost)
			r.Delete("/blog/{id}", h.DeleteBlogPost)

			r.Get("/contacts", h.ListContacts)
			r.Put("/contacts/{id}/status", h.UpdateContactStatus)
			r.Delete("/contacts/{id}", h.DeleteContact)

			r.Get("/events", h.ListEvents)
			r.Get("/cache/stats", h.CacheStats)
			r.Post("/cache/clear", h.ClearCache)
		})
	})

	return r
}

type welcomeDoc struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	handler.WriteJSON(w, http.StatusOK, welcomeDoc{
		Message: "Welcome to the Portfolio API",
		Version: version.Get().Version,
		Endpoints: map[string]string{
			"portfolio": "/api/portfolio",
			"contact":   "/api/contact",
			"auth":      "/api/auth",
			"admin":     "/api/admin",
			"health":    "/health",
		},
	})
}
