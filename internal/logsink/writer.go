// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logsink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/models"
)

// timestampLayout renders "17/10/2026, 3:04:05 pm".
const timestampLayout = "02/01/2006, 3:04:05 pm"

// FormatLine renders one log line without the trailing newline.
func FormatLine(at time.Time, ev models.LogEvent) string {
	ev = ev.Normalized()
	return fmt.Sprintf("[%s] [%s] %s", at.Format(timestampLayout), ev.Type, ev.Message)
}

// HourlyFileName is the sink file for t: "2026-10-17_15.log".
func HourlyFileName(t time.Time) string {
	return t.Format("2006-01-02_15") + ".log"
}

// FallbackFileName is the router fallback file for t: "2026-10-17_fallback.log".
func FallbackFileName(t time.Time) string {
	return t.Format("2006-01-02") + "_fallback.log"
}

// Writer appends formatted lines to a file in dir whose name is derived from
// the current time. Each write opens, appends and closes the file, so
// rotation needs no bookkeeping and an externally removed file is recreated.
type Writer struct {
	dir   string
	loc   *time.Location
	clock clock.Clock
	name  func(time.Time) string

	mu sync.Mutex
}

// NewHourlyWriter returns the sink's writer.
func NewHourlyWriter(dir string, loc *time.Location, clk clock.Clock) *Writer {
	return newWriter(dir, loc, clk, HourlyFileName)
}

// NewFallbackWriter returns the router's fallback writer.
func NewFallbackWriter(dir string, loc *time.Location, clk clock.Clock) *Writer {
	return newWriter(dir, loc, clk, FallbackFileName)
}

func newWriter(dir string, loc *time.Location, clk clock.Clock, name func(time.Time) string) *Writer {
	if loc == nil {
		loc = time.Local
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Writer{dir: dir, loc: loc, clock: clk, name: name}
}

// Dir returns the directory the writer appends into.
func (w *Writer) Dir() string {
	return w.dir
}

// Write appends ev stamped with the current time. It returns the formatted
// line (without newline) and the path it was written to.
func (w *Writer) Write(ev models.LogEvent) (line, path string, err error) {
	now := w.clock.Now().In(w.loc)
	line = FormatLine(now, ev)
	path = filepath.Join(w.dir, w.name(now))

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := appendLine(path, line); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return line, path, err
		}
		if mkErr := os.MkdirAll(w.dir, 0o755); mkErr != nil {
			return line, path, fmt.Errorf("failed to create log directory: %w", mkErr)
		}
		if err := appendLine(path, line); err != nil {
			return line, path, err
		}
	}
	return line, path, nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
