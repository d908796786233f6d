// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/demo"
	"github.com/olegiv/folio/internal/geoip"
	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/handler/api"
	"github.com/olegiv/folio/internal/imaging"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/markdown"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/notify"
	"github.com/olegiv/folio/internal/profile"
	"github.com/olegiv/folio/internal/scheduler"
	"github.com/olegiv/folio/internal/service"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/internal/version"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting folio", "version", version.Get().String(), "env", cfg.Env)

	if cfg.DemoMode {
		paths := demo.Paths{DB: cfg.DBPath, Uploads: cfg.UploadsDir, Data: filepath.Dir(cfg.DBPath)}
		if _, err := demo.ResetIfNeeded(paths, cfg.DemoResetInterval, slog.Default()); err != nil {
			return fmt.Errorf("demo reset: %w", err)
		}
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	// Persist WARN and ERROR records to the events table from here on.
	base := logging.NewBaseHandler(os.Stdout, cfg.SlogLevel(), cfg.IsDevelopment())
	logger := slog.New(logging.NewEventLogHandler(base, db))
	slog.SetDefault(logger)

	// List cache
	cacheStore := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.ListCacheTTL,
		MaxItems:   cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = cacheStore.Close() }()
	listCache := cache.NewListCache(cacheStore, cfg.ListCacheTTL, logger)

	locator, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = locator.Close() }()

	prof, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	// Contact notifications
	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if cfg.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	notifyCfg := notify.DefaultConfig()
	notifyCfg.Workers = cfg.MailWorkers
	notifyCfg.QueueSize = cfg.MailQueue
	notifyCfg.AdminEmail = cfg.AdminEmail
	dispatcher := notify.NewDispatcher(mailer, notifyCfg, logger)
	dispatcher.Start()

	// Services
	content := service.NewContentService(db,
		service.WithImageStore(imaging.NewStore(cfg.UploadsDir, imaging.Options{})),
		service.WithListCache(listCache),
		service.WithRenderer(markdown.New()),
		service.WithLogger(logger),
	)
	contacts := service.NewContactService(db, dispatcher, locator)
	users := service.NewUserService(db)
	events := service.NewEventService(db)

	if err := bootstrap(ctx, cfg, users, content); err != nil {
		dispatcher.Stop()
		return err
	}

	sessions := session.New(db, session.Options{
		Lifetime: cfg.SessionTTL,
		Secure:   cfg.IsProduction(),
	})
	defer sessions.Close()

	globalLimit := middleware.NewRateLimiter("global", cfg.RateLimitRPS, cfg.RateLimitBurst,
		"Too many requests from this IP, please try again later.")
	contactLimit := middleware.NewRateLimiter("contact", cfg.ContactRateLimitRPS, cfg.ContactRateLimitBurst,
		"Too many messages sent, please try again later.")
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Background jobs
	sched := scheduler.New(logger, 5*time.Minute)
	jobs := []scheduler.Job{
		scheduler.PublishJob(content, logger),
		scheduler.EventCleanupJob(events, cfg.EventRetention, logger),
		scheduler.CacheCleanupJob("global_limiter", globalLimit, logger),
		scheduler.CacheCleanupJob("contact_limiter", contactLimit, logger),
		scheduler.CacheCleanupJob("login_protection", loginProtection, logger),
	}
	if mem, ok := cacheStore.(*cache.MemoryStore); ok {
		jobs = append(jobs, scheduler.CacheCleanupJob("list_cache", mem, logger))
	}
	if locator.Enabled() {
		jobs = append(jobs, scheduler.Job{
			Name:        "geoip_reload",
			Description: "Reopen the GeoIP database to pick up updates",
			Schedule:    "@weekly",
			Run:         func(context.Context) error { return locator.Reload() },
		})
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			dispatcher.Stop()
			return fmt.Errorf("registering job %s: %w", job.Name, err)
		}
	}
	sched.Start()

	var extra map[string]handler.Pinger
	if p, ok := cacheStore.(handler.Pinger); ok {
		extra = map[string]handler.Pinger{"cache": p}
	}

	h := api.New(api.Deps{
		Content:   content,
		Contacts:  contacts,
		Users:     users,
		Events:    events,
		Dashboard: service.NewDashboardService(db),
		Sessions:  sessions,
		Login:     loginProtection,
		Profile:   prof,
		Cache:     listCache,
		MaxUpload: cfg.MaxUploadSize,
		Logger:    logger,

		SiteURL:       cfg.SiteURL,
		DisallowCrawl: !cfg.IsProduction(),
	})
	security := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	security.ExcludePaths = []string{service.UploadURLPrefix}
	router := api.NewRouter(h, api.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		CSRFKey:        []byte(cfg.SessionSecret),
		GlobalLimit:    globalLimit,
		ContactLimit:   contactLimit,
		Security:       security,
		Health:         handler.NewHealthHandler(db, cfg.UploadsDir, cfg.Env, extra),
		UploadsDir:     cfg.UploadsDir,
		RequestTimeout: 30 * time.Second,
		RequestLogging: true,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down server...", "signal", sig.String())
	case err := <-serveErr:
		runErr = fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server...", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	sched.Stop()
	dispatcher.Stop()

	logger.Info("server stopped")
	return runErr
}

// bootstrap creates the first admin account and optionally seeds content.
func bootstrap(ctx context.Context, cfg *config.Config, users *service.UserService, content *service.ContentService) error {
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := users.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
		if created {
			slog.Info("admin user created", "email", cfg.AdminEmail)
		}
	}
	if cfg.SeedOnStart || cfg.DemoMode {
		res, err := content.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seeding content: %w", err)
		}
		slog.Info("content seeded", "projects", res.Projects, "blog_posts", res.BlogPosts)
	}
	return nil
}
