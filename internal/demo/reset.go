// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo keeps a public demo instance fresh. At startup, data older
// than the reset interval is discarded so the sample content is seeded anew.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// timestampFile is the name of the file storing the last reset time.
const timestampFile = ".last_reset"

// DefaultInterval is how often the demo data is refreshed.
const DefaultInterval = 24 * time.Hour

// Paths locate the demo instance's state on disk.
type Paths struct {
	DB      string // SQLite database file
	Uploads string
	Data    string // holds the reset timestamp
}

// ResetIfNeeded resets when the last reset is older than interval or was never
// recorded. It must run before the database is opened. The boolean reports
// whether a reset happened.
func ResetIfNeeded(p Paths, interval time.Duration, logger *slog.Logger) (bool, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	last, ok, err := LastReset(p.Data)
	if err != nil {
		return false, err
	}
	if ok && time.Since(last) < interval {
		logger.Info("demo reset not needed",
			"last_reset", last.UTC().Format(time.RFC3339),
			"next_reset", last.Add(interval).UTC().Format(time.RFC3339),
		)
		return false, nil
	}

	logger.Info("demo reset due, resetting database and uploads")
	if err := Reset(p, logger); err != nil {
		return false, err
	}
	return true, nil
}

// LastReset reads the recorded reset time. A missing or unparsable
// timestamp reports ok == false.
func LastReset(dataDir string) (time.Time, bool, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, timestampFile))
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading reset timestamp: %w", err)
	}
	unixSec, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.Unix(unixSec, 0), true, nil
}

// Reset deletes the database files, clears the uploads directory and records
// the reset time.
func Reset(p Paths, logger *slog.Logger) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(p.DB + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p.DB+suffix, err)
		}
	}
	logger.Info("demo database deleted", "path", p.DB)

	if err := clearDir(p.Uploads); err != nil {
		return fmt.Errorf("clearing uploads: %w", err)
	}
	logger.Info("demo uploads cleared", "path", p.Uploads)

	if err := os.MkdirAll(p.Data, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data := []byte(strconv.FormatInt(time.Now().UTC().Unix(), 10))
	if err := os.WriteFile(filepath.Join(p.Data, timestampFile), data, 0o644); err != nil {
		return fmt.Errorf("writing reset timestamp: %w", err)
	}
	return nil
}

// clearDir removes everything inside dir but keeps dir itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}
