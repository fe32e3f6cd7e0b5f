// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"time"

	"github.com/tomtom215/afkwarden/internal/clock"
)

type timerKey string

const (
	timerReconnect        timerKey = "reconnect"
	timerEscalation       timerKey = "escalation"
	timerEscalationRepeat timerKey = "escalation-repeat"
	timerKeepalive        timerKey = "keepalive"
	timerKeepaliveRelease timerKey = "keepalive-release"
	timerChatReply        timerKey = "chat-reply"
)

type armedTimer struct {
	timer *clock.Timer
	seq   uint64
}

// timerRegistry holds at most one pending timer per key. A fired timer only
// posts a message; the loop then claims it, so a timer cancelled after it
// fired but before the loop saw it is ignored.
//
// Not safe for concurrent use; it belongs to the supervisor loop.
type timerRegistry struct {
	clock  clock.Clock
	post   func(message)
	seq    uint64
	active map[timerKey]armedTimer
}

func newTimerRegistry(clk clock.Clock, post func(message)) *timerRegistry {
	return &timerRegistry{
		clock:  clk,
		post:   post,
		active: make(map[timerKey]armedTimer),
	}
}

// arm schedules key to fire after d, replacing any pending timer for key.
func (r *timerRegistry) arm(key timerKey, d time.Duration) {
	r.cancel(key)
	r.seq++
	seq := r.seq
	r.active[key] = armedTimer{seq: seq}
	t := r.clock.AfterFunc(d, func() {
		r.post(timerMsg{key: key, seq: seq})
	})
	if a, ok := r.active[key]; ok && a.seq == seq {
		a.timer = t
		r.active[key] = a
	}
}

// claim consumes a fired timer. It returns false for stale fires.
func (r *timerRegistry) claim(key timerKey, seq uint64) bool {
	a, ok := r.active[key]
	if !ok || a.seq != seq {
		return false
	}
	delete(r.active, key)
	return true
}

func (r *timerRegistry) cancel(keys ...timerKey) {
	for _, key := range keys {
		if a, ok := r.active[key]; ok {
			a.timer.Stop()
			delete(r.active, key)
		}
	}
}

func (r *timerRegistry) cancelAll() {
	for key, a := range r.active {
		a.timer.Stop()
		delete(r.active, key)
	}
}

func (r *timerRegistry) pending(key timerKey) bool {
	_, ok := r.active[key]
	return ok
}
