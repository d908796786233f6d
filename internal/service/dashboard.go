// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// Recent item counts shown on the dashboard.
const (
	dashboardRecentContacts = 5
	dashboardRecentProjects = 3
	dashboardRecentPosts    = 3
)

// DashboardTotals counts every aggregate.
type DashboardTotals struct {
	Projects  int64 `json:"projects"`
	BlogPosts int64 `json:"blogPosts"`
	Contacts  int64 `json:"contacts"`
	Users     int64 `json:"users"`
}

// StatusCount is the number of contacts in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardRecent holds the newest items of each kind.
type DashboardRecent struct {
	Contacts  []model.Contact         `json:"contacts"`
	Projects  []model.Project         `json:"projects"`
	BlogPosts []model.BlogPostSummary `json:"blogPosts"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	Stats        DashboardTotals `json:"stats"`
	ContactStats []StatusCount   `json:"contactStats"`
	Recent       DashboardRecent `json:"recent"`
}

// DashboardService builds the admin overview.
type DashboardService struct {
	db *sql.DB
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Get assembles the dashboard from one read snapshot.
func (s *DashboardService) Get(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return d, fmt.Errorf("starting dashboard transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	q := store.New(tx)

	if d.Stats.Projects, err = q.CountProjects(ctx, store.ProjectFilter{}); err != nil {
		return d, fmt.Errorf("counting projects: %w", err)
	}
	if d.Stats.BlogPosts, err = q.CountBlogPosts(ctx, store.BlogPostFilter{}); err != nil {
		return d, fmt.Errorf("counting blog posts: %w", err)
	}
	if d.Stats.Contacts, err = q.CountContacts(ctx, ""); err != nil {
		return d, fmt.Errorf("counting contacts: %w", err)
	}
	if d.Stats.Users, err = q.CountUsers(ctx); err != nil {
		return d, fmt.Errorf("counting users: %w", err)
	}

	byStatus, err := q.CountContactsByStatus(ctx)
	if err != nil {
		return d, fmt.Errorf("grouping contacts: %w", err)
	}
	d.ContactStats = mapSlice(byStatus, func(c store.StatusCount) StatusCount {
		return StatusCount{Status: c.Status, Count: c.Count}
	})

	contacts, err := q.ListRecentContacts(ctx, dashboardRecentContacts)
	if err != nil {
		return d, fmt.Errorf("listing recent contacts: %w", err)
	}
	projects, err := q.ListRecentProjects(ctx, dashboardRecentProjects)
	if err != nil {
		return d, fmt.Errorf("listing recent projects: %w", err)
	}
	posts, err := q.ListRecentBlogPosts(ctx, dashboardRecentPosts)
	if err != nil {
		return d, fmt.Errorf("listing recent posts: %w", err)
	}
	d.Recent = DashboardRecent{
		Contacts:  mapSlice(contacts, contactFromStore),
		Projects:  mapSlice(projects, projectFromStore),
		BlogPosts: mapSlice(posts, blogSummaryFromStore),
	}
	return d, nil
}
