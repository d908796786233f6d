// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// EventQuery filters and paginates ListEvents.
type EventQuery struct {
	Level string
	Pagination
}

// EventService reads and prunes the persisted event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// List returns one page of events, newest first.
func (s *EventService) List(ctx context.Context, q EventQuery) (ListResult[model.Event], error) {
	q.Pagination = q.Pagination.Normalize()
	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Level:  q.Level,
		Limit:  int64(q.Limit),
		Offset: q.Offset(),
	})
	if err != nil {
		return ListResult[model.Event]{}, fmt.Errorf("listing events: %w", err)
	}
	total, err := s.queries.CountEvents(ctx, q.Level)
	if err != nil {
		return ListResult[model.Event]{}, fmt.Errorf("counting events: %w", err)
	}
	return ListResult[model.Event]{Items: mapSlice(rows, eventFromStore), Total: total}, nil
}

// DeleteOlderThan removes events older than the given age.
func (s *EventService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-age))
}

func eventFromStore(e store.Event) model.Event {
	ev := model.Event{
		ID:         e.ID,
		Level:      e.Level,
		Category:   e.Category,
		Message:    e.Message,
		IPAddress:  e.IPAddress,
		RequestURL: e.RequestURL,
		CreatedAt:  e.CreatedAt,
	}
	if e.Metadata != "" && e.Metadata != "{}" {
		_ = json.Unmarshal([]byte(e.Metadata), &ev.Metadata)
	}
	return ev
}
