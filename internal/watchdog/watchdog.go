// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package watchdog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// Sentinel errors.
var (
	ErrNoCommand      = errors.New("watchdog command is empty")
	ErrAlreadyRunning = errors.New("bot process already running")
)

// Config configures a Watchdog.
type Config struct {
	// Command is the bot executable and its arguments.
	Command []string

	// RestartDelay is the pause between an exit and the next launch.
	RestartDelay time.Duration

	// StopTimeout is how long the child gets after SIGTERM before it is
	// killed.
	StopTimeout time.Duration

	// Ready, when set, holds back the first launch until it is closed.
	// afklogger closes it once /log is bound.
	Ready <-chan struct{}

	Log   models.LogEmitter
	Clock clock.Clock

	// Stdio defaults to the logger's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Watchdog keeps the bot process running. It relaunches the child after
// every exit, forever, and never has two children at once.
type Watchdog struct {
	command      []string
	restartDelay time.Duration
	stopTimeout  time.Duration
	ready        <-chan struct{}
	log          models.LogEmitter
	clock        clock.Clock
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer

	running  atomic.Bool
	launches atomic.Int64
}

// New creates a Watchdog.
func New(cfg Config) (*Watchdog, error) {
	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		return nil, ErrNoCommand
	}
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = 5 * time.Second
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 10 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = models.LogEmitterFunc(func(models.LogEvent) {})
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	return &Watchdog{
		command:      append([]string(nil), cfg.Command...),
		restartDelay: cfg.RestartDelay,
		stopTimeout:  cfg.StopTimeout,
		ready:        cfg.Ready,
		log:          cfg.Log,
		clock:        cfg.Clock,
		stdin:        cfg.Stdin,
		stdout:       cfg.Stdout,
		stderr:       cfg.Stderr,
	}, nil
}

// Serve implements suture.Service. It returns only when ctx is cancelled,
// after the current child has exited.
func (w *Watchdog) Serve(ctx context.Context) error {
	if w.ready != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.ready:
		}
	}
	for {
		if err := w.runOnce(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			w.emit("Bot process failed to start: "+err.Error(), models.LogError)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		w.emit(fmt.Sprintf("Restarting bot in %d seconds...", int(w.restartDelay.Seconds())), models.LogBot)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.clock.After(w.restartDelay):
		}
	}
}

// String implements fmt.Stringer for suture.
func (w *Watchdog) String() string {
	return "bot-watchdog"
}

// Running reports whether a child is currently alive.
func (w *Watchdog) Running() bool {
	return w.running.Load()
}

// Launches returns how many children have been started.
func (w *Watchdog) Launches() int64 {
	return w.launches.Load()
}

// runOnce starts the child and waits for it to exit. A non-nil error means
// the child could not be started.
func (w *Watchdog) runOnce(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.running.Store(false)

	cmd := exec.CommandContext(ctx, w.command[0], w.command[1:]...)
	cmd.Stdin = w.stdin
	cmd.Stdout = w.stdout
	cmd.Stderr = w.stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = w.stopTimeout

	if err := cmd.Start(); err != nil {
		return err
	}
	diag := logging.WithComponent("watchdog")
	n := w.launches.Add(1)
	metrics.RecordBotStart(n > 1)
	diag.Info().Int("pid", cmd.Process.Pid).Strs("command", w.command).Int64("launch", n).Msg("Bot process started")

	waitErr := cmd.Wait()
	code, signal := exitDetails(cmd.ProcessState)
	metrics.RecordBotExit(exitCodeValue(cmd.ProcessState))
	diag.Info().AnErr("wait_error", waitErr).Str("code", code).Str("signal", signal).Msg("Bot process exited")

	w.emit(fmt.Sprintf("Bot process exited with code %s, signal %s", code, signal), models.LogBot)
	return nil
}

// exitDetails renders the exit code and terminating signal. Whichever did
// not apply is "null".
func exitDetails(ps *os.ProcessState) (code, signal string) {
	code, signal = "null", "null"
	if ps == nil {
		return code, signal
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return code, signalName(ws.Signal())
	}
	return strconv.Itoa(ps.ExitCode()), signal
}

func exitCodeValue(ps *os.ProcessState) int {
	if ps == nil {
		return -1
	}
	return ps.ExitCode()
}

func (w *Watchdog) emit(message string, logType models.LogType) {
	w.log.Emit(models.LogEvent{Message: message, Type: logType})
}
