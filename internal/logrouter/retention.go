// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logrouter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/logsink"
	"github.com/tomtom215/afkwarden/internal/metrics"
)

// DefaultRetention is how long log files are kept.
const DefaultRetention = 7 * 24 * time.Hour

// Sweep deletes regular files in dir whose modification time is strictly
// before now-retention. Subdirectories and the directory lock file are left
// alone. Per-file failures are logged and skipped; only an unreadable
// directory is an error.
func Sweep(dir string, retention time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs directory: %w", err)
	}

	cutoff := now.Add(-retention)
	var deleted []string
	for _, entry := range entries {
		if entry.Name() == logsink.LockFileName {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Failed to delete old log file")
			continue
		}
		metrics.LogFilesDeleted.Inc()
		logging.Info().Str("path", path).Msg("Deleted old log file")
		deleted = append(deleted, path)
	}
	return deleted, nil
}

// RetentionService runs Sweep once when the logger starts.
type RetentionService struct {
	dir       string
	retention time.Duration
	clock     clock.Clock
}

// NewRetentionService creates the one-shot sweep service.
func NewRetentionService(dir string, retention time.Duration, clk clock.Clock) *RetentionService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &RetentionService{dir: dir, retention: retention, clock: clk}
}

// Serve implements suture.Service. The sweep runs once; returning
// suture.ErrDoNotRestart keeps suture from scheduling it again.
func (s *RetentionService) Serve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deleted, err := Sweep(s.dir, s.retention, s.clock.Now())
	if err != nil {
		logging.Error().Err(err).Str("dir", s.dir).Msg("Log retention sweep failed")
		return suture.ErrDoNotRestart
	}
	logging.Info().Int("deleted", len(deleted)).Dur("retention", s.retention).Msg("Log retention sweep complete")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for suture.
func (s *RetentionService) String() string {
	return "log-retention"
}
