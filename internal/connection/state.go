// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import "time"

// Phase is the connection lifecycle phase.
type Phase int

// Phases in metric ordinal order.
const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseDisconnecting
	PhaseFailed
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseDisconnecting:
		return "disconnecting"
	case PhaseFailed:
		return "failed"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is a snapshot of the supervisor. Zero times mean "never" or "not in
// a disconnection episode".
type State struct {
	Phase                    Phase
	HasClient                bool
	ReconnectAttempts        int
	IsConnecting             bool
	LastDisconnectTime       time.Time
	LastSuccessfulConnection time.Time

	// Episode correlates the log lines and alerts of one disconnection
	// episode. Empty while connected.
	Episode string
}
