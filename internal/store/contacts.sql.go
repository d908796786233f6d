// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactColumns = `id, name, email, subject, message, status, ip_address, user_agent, country, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.Status,
		&c.IPAddress, &c.UserAgent, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanContacts(rows *sql.Rows) ([]Contact, error) {
	defer func() { _ = rows.Close() }()
	items := []Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const createContact = `INSERT INTO contacts (
	name, email, subject, message, status, ip_address, user_agent, country, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateContactParams are the inputs of CreateContact.
type CreateContactParams struct {
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

func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (Contact, error) {
	res, err := q.db.ExecContext(ctx, createContact,
		arg.Name, arg.Email, arg.Subject, arg.Message, arg.Status,
		arg.IPAddress, arg.UserAgent, arg.Country, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return Contact{}, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Contact{}, err
	}
	return q.GetContact(ctx, id)
}

const getContact = `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`

func (q *Queries) GetContact(ctx context.Context, id int64) (Contact, error) {
	return scanContact(q.db.QueryRowContext(ctx, getContact, id))
}

const updateContactStatus = `UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`

// UpdateContactStatusParams are the inputs of UpdateContactStatus.
type UpdateContactStatusParams struct {
	ID        int64
	Status    string
	UpdatedAt time.Time
}

func (q *Queries) UpdateContactStatus(ctx context.Context, arg UpdateContactStatusParams) (Contact, error) {
	res, err := q.db.ExecContext(ctx, updateContactStatus, arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return Contact{}, err
	}
	if err := requireAffected(res); err != nil {
		return Contact{}, err
	}
	return q.GetContact(ctx, arg.ID)
}

const deleteContact = `DELETE FROM contacts WHERE id = ?`

func (q *Queries) DeleteContact(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteContact, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

const listContacts = `SELECT ` + contactColumns + ` FROM contacts
WHERE (?1 = '' OR status = ?1)
ORDER BY created_at DESC, id DESC
LIMIT ?2 OFFSET ?3`

// ListContactsParams are the inputs of ListContacts. An empty Status matches all.
type ListContactsParams struct {
	Status string
	Limit  int64
	Offset int64
}

func (q *Queries) ListContacts(ctx context.Context, arg ListContactsParams) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, listContacts, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}

const countContacts = `SELECT COUNT(*) FROM contacts WHERE (?1 = '' OR status = ?1)`

func (q *Queries) CountContacts(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countContacts, status).Scan(&n)
	return n, err
}

// StatusCount is one row of a GROUP BY status aggregate.
type StatusCount struct {
	Status string
	Count  int64
}

const countContactsByStatus = `SELECT status, COUNT(*) FROM contacts GROUP BY status ORDER BY status`

func (q *Queries) CountContactsByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := q.db.QueryContext(ctx, countContactsByStatus)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	counts := []StatusCount{}
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const listRecentContacts = `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC, id DESC LIMIT ?`

func (q *Queries) ListRecentContacts(ctx context.Context, limit int64) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, listRecentContacts, limit)
	if err != nil {
		return nil, err
	}
	return scanContacts(rows)
}
