// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func validProjectPatch() ProjectPatch {
	return ProjectPatch{
		Title:        ptr("Railway Reservation System"),
		Description:  ptr("Booking system with seat selection."),
		Technologies: &[]string{"HTML", "CSS"},
		Category:     ptr(ProjectCategoryWeb),
		Year:         ptr("2023"),
	}
}

func TestProjectPatchApplyDefaults(t *testing.T) {
	f := validProjectPatch().Apply(NewProjectFields())
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if f.Status != ProjectStatusInProgress {
		t.Errorf("Status = %q, want %q", f.Status, ProjectStatusInProgress)
	}
	if f.Featured || f.Order != 0 {
		t.Errorf("Featured/Order = %v/%d, want false/0", f.Featured, f.Order)
	}
}

func TestProjectValidateCollectsAllErrors(t *testing.T) {
	f := ProjectPatch{
		Title:        ptr(strings.Repeat("t", ProjectTitleMaxLength+1)),
		Technologies: &[]string{"  ", ""},
		Category:     ptr("Games"),
		Year:         ptr("23"),
		Status:       ptr("Done"),
		GithubURL:    ptr("https://gitlab.com/x"),
		LiveURL:      ptr("ftp://example.com"),
	}.Apply(NewProjectFields())

	got := fieldsOf(t, f.Validate())
	want := []string{"title", "description", "technologies", "category", "year", "status", "githubUrl", "liveUrl"}
	assertStringSliceEqual(t, "fields", got, want)
}

func TestProjectPatchApplyKeepsUntouchedFields(t *testing.T) {
	base := validProjectPatch().Apply(NewProjectFields())
	base.GithubURL = ptr("https://github.com/me/railway")

	updated := ProjectPatch{Status: ptr(ProjectStatusCompleted)}.Apply(base)
	if updated.Title != base.Title || updated.GithubURL == nil {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.Status != ProjectStatusCompleted {
		t.Errorf("Status = %q", updated.Status)
	}

	cleared := ProjectPatch{GithubURL: ptr("")}.Apply(base)
	if cleared.GithubURL != nil {
		t.Errorf("empty githubUrl should clear the link, got %q", *cleared.GithubURL)
	}
}

func TestProjectTechnologiesTrimmed(t *testing.T) {
	f := ProjectPatch{Technologies: &[]string{" Go ", "", "SQLite"}}.Apply(NewProjectFields())
	assertStringSliceEqual(t, "technologies", f.Technologies, []string{"Go", "SQLite"})
}
