// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package game

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Client implementations.
var (
	ErrClosed      = errors.New("game client closed")
	ErrRequestFail = errors.New("game request failed")
)

// Connection defaults applied by the supervisor to every dial.
const (
	DefaultAuth                 = "offline"
	DefaultCheckTimeoutInterval = 30 * time.Second
	DefaultTimeout              = 30 * time.Second
)

// Options describes one connection attempt.
type Options struct {
	Host                 string
	Port                 int
	Username             string
	Version              string
	Auth                 string
	KeepAlive            bool
	CheckTimeoutInterval time.Duration
	Timeout              time.Duration
}

// EventKind identifies a game event.
type EventKind string

// Events emitted by a Client.
const (
	EventLogin      EventKind = "login"
	EventSpawn      EventKind = "spawn"
	EventHealth     EventKind = "health"
	EventChat       EventKind = "chat"
	EventKicked     EventKind = "kicked"
	EventEnd        EventKind = "end"
	EventDisconnect EventKind = "disconnect"
	EventError      EventKind = "error"
)

// Event is a single game event. Only the fields relevant to Kind are set.
//
// For EventKicked and EventDisconnect, Reason holds the raw JSON the server
// sent. For EventEnd it holds the plain reason text.
type Event struct {
	Kind     EventKind
	Reason   string
	Message  string
	Username string
	Health   float64
	Food     float64
}

// Control is a movement control that can be held down.
type Control string

// Controls used for keep-alive.
const (
	ControlJump   Control = "jump"
	ControlSneak  Control = "sneak"
	ControlSprint Control = "sprint"
)

// Item is one inventory stack.
type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Slot  int    `json:"slot"`
}

// Client is a live game connection. Events is closed once the connection is
// gone and no further events will be delivered.
//
// Chat and SetControlState are fire-and-forget. Equip and Consume wait for
// the outcome and must not be called from the supervisor loop.
type Client interface {
	Events() <-chan Event
	Username() string

	// SocketAlive reports whether the underlying game socket is usable.
	SocketAlive() bool

	Chat(text string) error
	SetControlState(control Control, state bool) error
	Inventory() []Item
	Equip(ctx context.Context, item Item, destination string) error
	Consume(ctx context.Context) error

	// Close ends the connection. It is safe to call more than once.
	Close() error
}

// Dialer opens game connections.
type Dialer interface {
	Dial(ctx context.Context, opts Options) (Client, error)
}
