// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify sends contact-form email in the background: a bounded queue
// drained by a fixed pool of workers.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/folio/internal/model"
)

// Config holds dispatcher configuration.
type Config struct {
	Workers    int           // concurrent senders
	QueueSize  int           // pending messages before new ones are dropped
	AdminEmail string        // recipient of new-contact notifications; empty disables them
	AutoReply  bool          // acknowledge every submission to its sender
	Timeout    time.Duration // per-message send timeout
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 100, AutoReply: true, Timeout: 30 * time.Second}
}

// Dispatcher queues messages and delivers them with a worker pool.
type Dispatcher struct {
	mailer  Mailer
	cfg     Config
	logger  *slog.Logger
	queue   chan Message
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a Dispatcher. Call Start before enqueueing.
func NewDispatcher(mailer Mailer, cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Message, cfg.QueueSize),
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	d.logger.Info("starting mail dispatcher", "workers", d.cfg.Workers)
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop refuses new messages, delivers what is already queued and waits for
// the workers to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("mail dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Error("failed to send mail", "worker_id", id, "to", msg.To, "subject", msg.Subject, "error", err)
		}
		cancel()
	}
}

// Enqueue adds msg to the queue without blocking. It reports false when the
// dispatcher is stopped or the queue is full.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		d.logger.Warn("mail dispatcher not running, dropping message", "to", msg.To)
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.logger.Warn("mail queue full, dropping message", "to", msg.To, "subject", msg.Subject)
		return false
	}
}

// ContactReceived queues the admin notification and the auto-reply for c.
func (d *Dispatcher) ContactReceived(_ context.Context, c model.Contact) {
	if d.cfg.AdminEmail != "" {
		if msg, err := AdminNotification(d.cfg.AdminEmail, c); err != nil {
			d.logger.Error("failed to render contact notification", "contact_id", c.ID, "error", err)
		} else {
			d.Enqueue(msg)
		}
	}
	if d.cfg.AutoReply {
		if msg, err := AutoReply(c); err != nil {
			d.logger.Error("failed to render contact auto-reply", "contact_id", c.ID, "error", err)
		} else {
			d.Enqueue(msg)
		}
	}
}
