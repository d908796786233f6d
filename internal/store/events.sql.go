// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const eventColumns = `id, level, category, message, metadata, ip_address, request_url, created_at`

const createEvent = `INSERT INTO events (level, category, message, metadata, ip_address, request_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// CreateEventParams are the inputs of CreateEvent.
type CreateEventParams struct {
	Level      string
	Category   string
	Message    string
	Metadata   string
	IPAddress  string
	RequestURL string
	CreatedAt  time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.IPAddress, arg.RequestURL, arg.CreatedAt)
	return err
}

const listEvents = `SELECT ` + eventColumns + ` FROM events
WHERE (?1 = '' OR level = ?1)
ORDER BY created_at DESC, id DESC
LIMIT ?2 OFFSET ?3`

// ListEventsParams are the inputs of ListEvents. An empty Level matches all.
type ListEventsParams struct {
	Level  string
	Limit  int64
	Offset int64
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, arg.Level, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata,
			&e.IPAddress, &e.RequestURL, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const countEvents = `SELECT COUNT(*) FROM events WHERE (?1 = '' OR level = ?1)`

func (q *Queries) CountEvents(ctx context.Context, level string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEvents, level).Scan(&n)
	return n, err
}

const deleteEventsBefore = `DELETE FROM events WHERE created_at < ?`

// DeleteEventsBefore removes events older than cutoff and reports how many went.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
