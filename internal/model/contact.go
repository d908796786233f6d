// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/olegiv/folio/internal/util"
)

// Contact statuses.
const (
	ContactStatusNew     = "new"
	ContactStatusRead    = "read"
	ContactStatusReplied = "replied"
)

// ContactStatuses lists every valid contact status.
var ContactStatuses = []string{ContactStatusNew, ContactStatusRead, ContactStatusReplied}

// Field limits.
const (
	ContactNameMaxLength    = 100
	ContactEmailMaxLength   = 254
	ContactSubjectMaxLength = 200
	ContactMessageMaxLength = 5000
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Normalize trims every field and lowercases the email address.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:    util.NormalizeText(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: util.NormalizeText(in.Subject),
		Message: util.NormalizeText(in.Message),
	}
}

// Validate checks every constraint and returns ValidationErrors listing all violations.
func (in ContactInput) Validate() error {
	var errs ValidationErrors
	requireText(&errs, "name", "Name", in.Name, ContactNameMaxLength)
	requireText(&errs, "email", "Email", in.Email, ContactEmailMaxLength)
	if in.Email != "" && !errs.Has("email") && !emailPattern.MatchString(in.Email) {
		errs.Add("email", "Please provide a valid email address")
	}
	requireText(&errs, "subject", "Subject", in.Subject, ContactSubjectMaxLength)
	requireText(&errs, "message", "Message", in.Message, ContactMessageMaxLength)
	return errs.Err()
}

// ValidateContactStatus checks that status is a known contact status.
func ValidateContactStatus(status string) error {
	var errs ValidationErrors
	requireOneOf(&errs, "status", "status", status, ContactStatuses)
	return errs.Err()
}
