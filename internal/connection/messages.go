// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import "github.com/tomtom215/afkwarden/internal/game"

// message is anything the supervisor loop processes.
type message interface {
	isMessage()
}

type startMsg struct{}

// gameEventMsg carries an event from the connection opened as generation gen.
type gameEventMsg struct {
	gen   uint64
	event game.Event
}

type dialResultMsg struct {
	gen    uint64
	client game.Client
	err    error
}

type timerMsg struct {
	key timerKey
	seq uint64
}

type mealDoneMsg struct {
	gen uint64
	err error
}

type faultMsg struct {
	err error
}

type shutdownMsg struct {
	signal string
}

func (startMsg) isMessage()      {}
func (gameEventMsg) isMessage()  {}
func (dialResultMsg) isMessage() {}
func (timerMsg) isMessage()      {}
func (mealDoneMsg) isMessage()   {}
func (faultMsg) isMessage()      {}
func (shutdownMsg) isMessage()   {}
