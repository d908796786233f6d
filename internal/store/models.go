// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Project is a row of the projects table.
type Project struct {
	ID            int64
	Title         string
	Description   string
	Technologies  string // JSON array
	Category      string
	Year          string
	Status        string
	Image         sql.NullString
	ImagePublicID sql.NullString
	GithubURL     sql.NullString
	LiveURL       sql.NullString
	Featured      bool
	SortOrder     int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BlogPost is a row of the blog_posts table.
type BlogPost struct {
	ID            int64
	Title         string
	Slug          sql.NullString
	Excerpt       string
	Content       string
	Category      string
	ReadTime      string
	Image         sql.NullString
	ImagePublicID sql.NullString
	Tags          string // JSON array
	Published     bool
	Featured      bool
	Views         int64
	Likes         int64
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Contact is a row of the contacts table.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string
	IPAddress string
	UserAgent string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is a row of the users table.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Event is a row of the events table.
type Event struct {
	ID         int64
	Level      string
	Category   string
	Message    string
	Metadata   string
	IPAddress  string
	RequestURL string
	CreatedAt  time.Time
}

// CategoryCount is one row of a GROUP BY category aggregate.
type CategoryCount struct {
	Category string
	Count    int64
}
