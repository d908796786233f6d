// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Publisher publishes posts whose scheduled time has passed.
type Publisher interface {
	PublishScheduled(ctx context.Context) (int, error)
}

// EventPruner deletes persisted log events older than a cutoff.
type EventPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// ExpiringCache drops expired entries on demand.
type ExpiringCache interface {
	RemoveExpired() int
}

// PublishJob publishes due scheduled blog posts every minute.
func PublishJob(p Publisher, logger *slog.Logger) Job {
	return Job{
		Name:        "publish_scheduled",
		Description: "Publish blog posts whose scheduled time has passed",
		Schedule:    "* * * * *",
		Run: func(ctx context.Context) error {
			n, err := p.PublishScheduled(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("published scheduled blog posts", "count", n)
			}
			return nil
		},
	}
}

// EventCleanupJob deletes events older than retention once a day.
func EventCleanupJob(p EventPruner, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        "event_cleanup",
		Description: "Delete logged events past the retention window",
		Schedule:    "@daily",
		Run: func(ctx context.Context) error {
			n, err := p.DeleteOlderThan(ctx, retention)
			if err != nil {
				return err
			}
			logger.Info("old events deleted", "count", n, "retention", retention)
			return nil
		},
	}
}

// CacheCleanupJob sweeps expired entries from an in-process store once a
// day. name distinguishes several sweeps, e.g. "list_cache" or "contact_limiter".
func CacheCleanupJob(name string, c ExpiringCache, logger *slog.Logger) Job {
	return Job{
		Name:        name + "_cleanup",
		Description: "Remove expired " + strings.ReplaceAll(name, "_", " ") + " entries",
		Schedule:    "@daily",
		Run: func(context.Context) error {
			if n := c.RemoveExpired(); n > 0 {
				logger.Debug("expired entries removed", "store", name, "count", n)
			}
			return nil
		},
	}
}
