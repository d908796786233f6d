// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// ContactMeta describes where a submission came from.
type ContactMeta struct {
	IPAddress string
	UserAgent string
}

// ContactQuery filters and paginates ListContacts.
type ContactQuery struct {
	Status string
	Pagination
}

// ContactService stores contact submissions and lets admins triage them.
type ContactService struct {
	queries  *store.Queries
	notifier Notifier
	geo      CountryLocator
	now      func() time.Time
	logger   *slog.Logger
}

// NewContactService creates a ContactService. notifier and geo may be nil.
func NewContactService(db *sql.DB, notifier Notifier, geo CountryLocator) *ContactService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ContactService{
		queries:  store.New(db),
		notifier: notifier,
		geo:      geo,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// Submit validates and stores a public submission, then hands it to the
// notifier. Notification failures never fail the submission.
func (s *ContactService) Submit(ctx context.Context, in model.ContactInput, meta ContactMeta) (model.Contact, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Contact{}, err
	}

	country := ""
	if s.geo != nil && meta.IPAddress != "" {
		country = s.geo.LookupCountry(meta.IPAddress)
	}

	now := s.now().UTC()
	c, err := s.queries.CreateContact(ctx, store.CreateContactParams{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.ContactStatusNew,
		IPAddress: meta.IPAddress,
		UserAgent: SummarizeUserAgent(meta.UserAgent),
		Country:   country,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Contact{}, storeErr("creating contact", "contact", err)
	}

	contact := contactFromStore(c)
	s.notifier.ContactReceived(ctx, contact)
	s.logger.Info("contact submitted", "contact_id", c.ID, "country", country)
	return contact, nil
}

// List returns one page of contacts, newest first.
func (s *ContactService) List(ctx context.Context, q ContactQuery) (ListResult[model.Contact], error) {
	q.Pagination = q.Pagination.Normalize()
	rows, err := s.queries.ListContacts(ctx, store.ListContactsParams{
		Status: q.Status,
		Limit:  int64(q.Limit),
		Offset: q.Offset(),
	})
	if err != nil {
		return ListResult[model.Contact]{}, fmt.Errorf("listing contacts: %w", err)
	}
	total, err := s.queries.CountContacts(ctx, q.Status)
	if err != nil {
		return ListResult[model.Contact]{}, fmt.Errorf("counting contacts: %w", err)
	}
	return ListResult[model.Contact]{Items: mapSlice(rows, contactFromStore), Total: total}, nil
}

// UpdateStatus moves a contact to status.
func (s *ContactService) UpdateStatus(ctx context.Context, id int64, status string) (model.Contact, error) {
	status = strings.TrimSpace(status)
	if err := model.ValidateContactStatus(status); err != nil {
		return model.Contact{}, err
	}
	c, err := s.queries.UpdateContactStatus(ctx, store.UpdateContactStatusParams{
		ID:        id,
		Status:    status,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.Contact{}, storeErr("updating contact status", "contact", err)
	}
	return contactFromStore(c), nil
}

// Delete permanently removes a contact.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return storeErr("deleting contact", "contact", s.queries.DeleteContact(ctx, id))
}

// SummarizeUserAgent reduces a User-Agent header to "Browser version on OS (device)".
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.Parse(raw)
	if ua.Bot {
		return "bot: " + firstNonEmpty(ua.Name, "unknown")
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	}

	name := firstNonEmpty(ua.Name, "unknown")
	if ua.Version != "" {
		name += " " + ua.Version
	}
	return fmt.Sprintf("%s on %s (%s)", name, firstNonEmpty(ua.OS, "unknown"), device)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
