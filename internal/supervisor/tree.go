// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time a service gets to return after
	// its context is canceled.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree is the supervisor hierarchy shared by afklogger and afkbot.
//
// Services are grouped into four layers, each its own failure domain:
//   - data: the log sink, log client and notification dispatcher
//   - maintenance: one-shot housekeeping such as the retention sweep
//   - process: the bot watchdog or the connection supervisor
//   - api: HTTP servers (log ingest, metrics)
//
// The process layer can be stopped on its own so that a shutting-down bot
// still has a live log pipeline to report into.
type Tree struct {
	root        *suture.Supervisor
	data        *suture.Supervisor
	maintenance *suture.Supervisor
	process     *suture.Supervisor
	api         *suture.Supervisor

	processToken suture.ServiceToken
	config       TreeConfig
}

// NewTree creates a tree whose root supervisor is called name. Supervisor
// events are logged through logger via sutureslog.
func NewTree(name string, logger *slog.Logger, config TreeConfig) *Tree {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// MustHook has a pointer receiver.
	handler := &sutureslog.Handler{Logger: logger}

	rootSpec := suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	// Children inherit the EventHook when added to the root.
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	t := &Tree{
		root:        suture.New(name, rootSpec),
		data:        suture.New("data-layer", childSpec),
		maintenance: suture.New("maintenance-layer", childSpec),
		process:     suture.New("process-layer", childSpec),
		api:         suture.New("api-layer", childSpec),
		config:      config,
	}
	t.root.Add(t.data)
	t.root.Add(t.maintenance)
	t.processToken = t.root.Add(t.process)
	t.root.Add(t.api)
	return t
}

// Root returns the root supervisor.
func (t *Tree) Root() *suture.Supervisor {
	return t.root
}

// AddDataService adds a service to the data layer.
func (t *Tree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMaintenanceService adds a service to the maintenance layer. One-shot
// services should return suture.ErrDoNotRestart when finished.
func (t *Tree) AddMaintenanceService(svc suture.Service) suture.ServiceToken {
	return t.maintenance.Add(svc)
}

// AddProcessService adds a service to the process layer.
func (t *Tree) AddProcessService(svc suture.Service) suture.ServiceToken {
	return t.process.Add(svc)
}

// AddAPIService adds a service to the API layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// StopProcessLayer stops every process-layer service and waits up to timeout
// for them to return. The other layers keep running until the tree's context
// is canceled.
func (t *Tree) StopProcessLayer(timeout time.Duration) error {
	if err := t.root.RemoveAndWait(t.processToken, timeout); err != nil {
		return fmt.Errorf("failed to stop process layer: %w", err)
	}
	return nil
}

// Serve runs the tree until ctx is canceled.
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The returned channel receives
// Serve's result.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
