// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/folio/internal/util"
)

// Project categories.
const (
	ProjectCategoryWeb       = "Web Development"
	ProjectCategoryFullStack = "Full Stack"
	ProjectCategoryMobile    = "Mobile App"
	ProjectCategoryDesktop   = "Desktop App"
	ProjectCategoryOther     = "Other"
)

// ProjectCategories lists every valid project category.
var ProjectCategories = []string{
	ProjectCategoryWeb, ProjectCategoryFullStack, ProjectCategoryMobile, ProjectCategoryDesktop, ProjectCategoryOther,
}

// Project statuses.
const (
	ProjectStatusCompleted  = "Completed"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusPlanned    = "Planned"
)

// ProjectStatuses lists every valid project status.
var ProjectStatuses = []string{ProjectStatusCompleted, ProjectStatusInProgress, ProjectStatusPlanned}

// Field limits.
const (
	ProjectTitleMaxLength       = 100
	ProjectDescriptionMaxLength = 500
)

// Project is the public representation of a portfolio project.
type Project struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Technologies  []string  `json:"technologies"`
	Category      string    `json:"category"`
	Year          string    `json:"year"`
	Status        string    `json:"status"`
	Image         *string   `json:"image"`
	ImagePublicID *string   `json:"imagePublicId"`
	GithubURL     *string   `json:"githubUrl"`
	LiveURL       *string   `json:"liveUrl"`
	Featured      bool      `json:"featured"`
	Order         int64     `json:"order"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProjectFields are the client-writable fields of a project.
type ProjectFields struct {
	Title        string
	Description  string
	Technologies []string
	Category     string
	Year         string
	Status       string
	GithubURL    *string
	LiveURL      *string
	Featured     bool
	Order        int64
}

// NewProjectFields returns the defaults a new project starts from.
func NewProjectFields() ProjectFields {
	return ProjectFields{
		Status:       ProjectStatusInProgress,
		Technologies: []string{},
	}
}

// ProjectPatch is a change set: nil fields are absent and leave the target untouched.
// An empty string for GithubURL or LiveURL clears the link.
type ProjectPatch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Technologies *[]string `json:"technologies"`
	Category     *string   `json:"category"`
	Year         *string   `json:"year"`
	Status       *string   `json:"status"`
	GithubURL    *string   `json:"githubUrl"`
	LiveURL      *string   `json:"liveUrl"`
	Featured     *bool     `json:"featured"`
	Order        *int64    `json:"order"`
}

// Apply merges the patch over f and normalises the result.
func (p ProjectPatch) Apply(f ProjectFields) ProjectFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Technologies != nil {
		f.Technologies = append([]string(nil), (*p.Technologies)...)
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.GithubURL != nil {
		f.GithubURL = p.GithubURL
	}
	if p.LiveURL != nil {
		f.LiveURL = p.LiveURL
	}
	if p.Featured != nil {
		f.Featured = *p.Featured
	}
	if p.Order != nil {
		f.Order = *p.Order
	}
	f.normalize()
	return f
}

func (f *ProjectFields) normalize() {
	f.Title = util.NormalizeText(f.Title)
	f.Description = util.NormalizeText(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Year = strings.TrimSpace(f.Year)
	f.Status = strings.TrimSpace(f.Status)
	f.Technologies = cleanList(f.Technologies, false)
	f.GithubURL = trimOptional(f.GithubURL)
	f.LiveURL = trimOptional(f.LiveURL)
}

// Validate checks every constraint and returns ValidationErrors listing all violations.
func (f ProjectFields) Validate() error {
	var errs ValidationErrors
	requireText(&errs, "title", "Title", f.Title, ProjectTitleMaxLength)
	requireText(&errs, "description", "Description", f.Description, ProjectDescriptionMaxLength)
	if len(f.Technologies) == 0 {
		errs.Add("technologies", "At least one technology is required")
	}
	requireOneOf(&errs, "category", "category", f.Category, ProjectCategories)
	if !yearPattern.MatchString(f.Year) {
		errs.Add("year", "Year must be a 4-digit number")
	}
	requireOneOf(&errs, "status", "status", f.Status, ProjectStatuses)
	if f.GithubURL != nil && !githubURLPattern.MatchString(*f.GithubURL) {
		errs.Add("githubUrl", "GitHub URL must start with https://github.com/")
	}
	if f.LiveURL != nil && !liveURLPattern.MatchString(*f.LiveURL) {
		errs.Add("liveUrl", "Live URL must start with http:// or https://")
	}
	return errs.Err()
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// cleanList trims entries, drops empties and, when fold is set, lowercases and
// removes duplicates keeping the first occurrence.
func cleanList(items []string, fold bool) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = util.NormalizeText(it)
		if fold {
			it = strings.ToLower(it)
		}
		if it == "" {
			continue
		}
		if fold {
			if _, dup := seen[it]; dup {
				continue
			}
			seen[it] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}
