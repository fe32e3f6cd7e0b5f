// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logsink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the writer lock inside the log directory. The retention
// sweep never deletes it.
const LockFileName = ".afklogger.lock"

// ErrDirLocked is returned when another afklogger already owns the log
// directory.
var ErrDirLocked = errors.New("log directory is locked by another process")

// LockDir takes an exclusive, non-blocking lock on dir so two logger
// processes never interleave lines in the same hourly file. The caller must
// Unlock the returned lock on exit.
func LockDir(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock log directory: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDirLocked, dir)
	}
	return lock, nil
}
