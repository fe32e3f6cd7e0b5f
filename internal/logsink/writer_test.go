// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logsink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/models"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

func TestFormatLine(t *testing.T) {
	at := time.Date(2026, 10, 17, 15, 4, 5, 0, ist)

	tests := []struct {
		name string
		at   time.Time
		ev   models.LogEvent
		want string
	}{
		{
			name: "afternoon",
			at:   at,
			ev:   models.LogEvent{Message: "Bot logged in!", Type: models.LogLogin},
			want: "[17/10/2026, 3:04:05 pm] [LOGIN] Bot logged in!",
		},
		{
			name: "morning",
			at:   time.Date(2026, 1, 2, 9, 30, 0, 0, ist),
			ev:   models.LogEvent{Message: "x", Type: models.LogError},
			want: "[02/01/2026, 9:30:00 am] [ERROR] x",
		},
		{
			name: "empty type defaults to INFO",
			at:   at,
			ev:   models.LogEvent{Message: "hello"},
			want: "[17/10/2026, 3:04:05 pm] [INFO] hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.at, tt.ev); got != tt.want {
				t.Errorf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileNames(t *testing.T) {
	at := time.Date(2026, 10, 7, 3, 59, 59, 0, ist)
	if got := HourlyFileName(at); got != "2026-10-07_03.log" {
		t.Errorf("HourlyFileName() = %q", got)
	}
	if got := FallbackFileName(at); got != "2026-10-07_fallback.log" {
		t.Errorf("FallbackFileName() = %q", got)
	}
}

func TestWriter_HourlyRotation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs") // created on first write
	clk := clock.Fake(time.Date(2026, 10, 17, 14, 59, 0, 0, ist))
	w := NewHourlyWriter(dir, ist, clk)

	if _, _, err := w.Write(models.LogEvent{Message: "first", Type: models.LogInfo}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	clk.Advance(2 * time.Minute)
	if _, _, err := w.Write(models.LogEvent{Message: "second", Type: models.LogInfo}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(dir, "2026-10-17_14.log"))
	if err != nil {
		t.Fatalf("read 14h file: %v", err)
	}
	if string(first) != "[17/10/2026, 2:59:00 pm] [INFO] first\n" {
		t.Errorf("14h file = %q", first)
	}

	second, err := os.ReadFile(filepath.Join(dir, "2026-10-17_15.log"))
	if err != nil {
		t.Fatalf("read 15h file: %v", err)
	}
	if !strings.HasSuffix(string(second), "[INFO] second\n") {
		t.Errorf("15h file = %q", second)
	}
}

func TestWriter_Appends(t *testing.T) {
	dir := t.TempDir()
	clk := clock.Fake(time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC))
	w := NewFallbackWriter(dir, time.UTC, clk)

	for _, msg := range []string{"a", "b", "c"} {
		if _, _, err := w.Write(models.LogEvent{Message: msg}); err != nil {
			t.Fatalf("Write(%s): %v", msg, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-10-17_fallback.log"))
	if err != nil {
		t.Fatalf("read fallback file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), data)
	}
	for i, msg := range []string{"a", "b", "c"} {
		if !strings.HasSuffix(lines[i], "] [INFO] "+msg) {
			t.Errorf("line %d = %q", i, lines[i])
		}
	}
}

func TestWriter_UnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	// A regular file where the directory should be.
	w := NewHourlyWriter(filepath.Join(blocker, "logs"), time.UTC, clock.Real())
	if _, _, err := w.Write(models.LogEvent{Message: "x"}); err == nil {
		t.Error("expected write error")
	}
}

func TestLockDir(t *testing.T) {
	dir := t.TempDir()

	lock, err := LockDir(dir)
	if err != nil {
		t.Fatalf("LockDir: %v", err)
	}
	defer lock.Unlock()

	if _, err := LockDir(dir); !errors.Is(err, ErrDirLocked) {
		t.Errorf("second LockDir error = %v, want ErrDirLocked", err)
	}
}
