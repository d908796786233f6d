// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/util"
)

func projectFromStore(p store.Project) model.Project {
	return model.Project{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Technologies:  model.DecodeList(p.Technologies),
		Category:      p.Category,
		Year:          p.Year,
		Status:        p.Status,
		Image:         util.PtrFromNullString(p.Image),
		ImagePublicID: util.PtrFromNullString(p.ImagePublicID),
		GithubURL:     util.PtrFromNullString(p.GithubURL),
		LiveURL:       util.PtrFromNullString(p.LiveURL),
		Featured:      p.Featured,
		Order:         p.SortOrder,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func projectFieldsFromStore(p store.Project) model.ProjectFields {
	return model.ProjectFields{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: model.DecodeList(p.Technologies),
		Category:     p.Category,
		Year:         p.Year,
		Status:       p.Status,
		GithubURL:    util.PtrFromNullString(p.GithubURL),
		LiveURL:      util.PtrFromNullString(p.LiveURL),
		Featured:     p.Featured,
		Order:        p.SortOrder,
	}
}

func blogSummaryFromStore(p store.BlogPost) model.BlogPostSummary {
	return model.BlogPostSummary{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          util.PtrFromNullString(p.Slug),
		Excerpt:       p.Excerpt,
		Category:      p.Category,
		ReadTime:      p.ReadTime,
		Image:         util.PtrFromNullString(p.Image),
		ImagePublicID: util.PtrFromNullString(p.ImagePublicID),
		Tags:          model.DecodeList(p.Tags),
		Published:     p.Published,
		Featured:      p.Featured,
		Views:         p.Views,
		Likes:         p.Likes,
		PublishedAt:   util.PtrFromNullTime(p.PublishedAt),
		ScheduledAt:   util.PtrFromNullTime(p.ScheduledAt),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func blogPostFromStore(p store.BlogPost) model.BlogPost {
	return model.BlogPost{
		BlogPostSummary: blogSummaryFromStore(p),
		Content:         p.Content,
	}
}

func blogFieldsFromStore(p store.BlogPost) model.BlogPostFields {
	return model.BlogPostFields{
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Category:    p.Category,
		ReadTime:    p.ReadTime,
		Tags:        model.DecodeList(p.Tags),
		Published:   p.Published,
		Featured:    p.Featured,
		ScheduledAt: util.PtrFromNullTime(p.ScheduledAt),
	}
}

func blogLifecycleFromStore(p store.BlogPost) Lifecycle {
	return Lifecycle{
		Slug:        p.Slug.String,
		PublishedAt: util.PtrFromNullTime(p.PublishedAt),
	}
}

func contactFromStore(c store.Contact) model.Contact {
	return model.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		Status:    c.Status,
		IPAddress: c.IPAddress,
		UserAgent: c.UserAgent,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func userFromStore(u store.User) model.User {
	return model.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LastLoginAt: util.PtrFromNullTime(u.LastLoginAt),
		CreatedAt:   u.CreatedAt,
	}
}

func mapSlice[S, T any](in []S, f func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
