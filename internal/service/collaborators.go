// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/olegiv/folio/internal/model"
)

// ImageStore persists uploaded image bytes under a key such as
// "blog/1700000000000-cover.png" and returns an opaque public id.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte) (publicID string, err error)
	Remove(ctx context.Context, key string) error
}

// ListCache caches list responses. Implementations must be safe for concurrent use.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	InvalidatePrefix(ctx context.Context, prefix string)
}

// Renderer turns post content into sanitised HTML.
type Renderer interface {
	Render(source string) (string, error)
}

// Notifier is told about new contact submissions. It must not block.
type Notifier interface {
	ContactReceived(ctx context.Context, c model.Contact)
}

// CountryLocator resolves an IP address to an ISO country code, or "".
type CountryLocator interface {
	LookupCountry(ip string) string
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) bool { return false }

func (noopCache) Set(context.Context, string, any) {}

func (noopCache) InvalidatePrefix(context.Context, string) {}

type noopNotifier struct{}

func (noopNotifier) ContactReceived(context.Context, model.Contact) {}
