// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
)

// PresenceReply is sent when another player mentions the bot in chat.
const PresenceReply = "I am active and monitoring the server!"

// foodThreshold is the food level below which the bot eats.
const foodThreshold = 18

var (
	keepAliveControls = []game.Control{game.ControlJump, game.ControlSneak, game.ControlSprint}
	foodKeywords      = []string{"bread", "apple", "carrot", "potato"}
)

func (s *Supervisor) chat(text string) {
	c := s.client
	if c == nil {
		return
	}
	s.goSafe(func() {
		if err := c.Chat(text); err != nil {
			logging.Debug().Err(err).Msg("Failed to send chat")
		}
	})
}

func (s *Supervisor) setControl(control game.Control, state bool) {
	c := s.client
	if c == nil {
		return
	}
	s.goSafe(func() {
		if err := c.SetControlState(control, state); err != nil {
			logging.Debug().Err(err).Str("control", string(control)).Msg("Failed to set control state")
		}
	})
}

// keepAlive presses a random control and schedules its release.
func (s *Supervisor) keepAlive() {
	if s.phase != PhaseConnected || s.client == nil {
		return
	}
	action := keepAliveControls[s.randIntN(len(keepAliveControls))]
	s.heldControl = action
	s.setControl(action, true)
	metrics.KeepaliveActions.WithLabelValues(string(action)).Inc()

	s.timers.arm(timerKeepaliveRelease, s.timing.KeepAliveRelease)
	s.timers.arm(timerKeepalive, s.timing.KeepAliveInterval)
}

func (s *Supervisor) releaseControl() {
	s.setControl(s.heldControl, false)
}

// handleHealth eats when hungry. Only one meal is in flight at a time and
// every failure is swallowed.
func (s *Supervisor) handleHealth(ev game.Event) {
	if ev.Food >= foodThreshold || s.eating || s.client == nil {
		return
	}
	item, ok := findFood(s.client.Inventory())
	if !ok {
		return
	}

	s.eating = true
	c := s.client
	gen := s.gen
	ctx := s.ctx
	timeout := s.timing.MealTimeout
	s.goSafe(func() {
		mealCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := c.Equip(mealCtx, item, "hand")
		if err == nil {
			err = c.Consume(mealCtx)
		}
		s.post(mealDoneMsg{gen: gen, err: err})
	})
}

// findFood returns the first inventory item that is edible.
func findFood(items []game.Item) (game.Item, bool) {
	for _, item := range items {
		for _, k := range foodKeywords {
			if strings.Contains(item.Name, k) {
				return item, true
			}
		}
	}
	return game.Item{}, false
}

// handleChat schedules a presence reply when someone else mentions the bot.
func (s *Supervisor) handleChat(ev game.Event) {
	if s.client == nil {
		return
	}
	own := s.client.Username()
	if own == "" || ev.Username == own {
		return
	}
	if !strings.Contains(strings.ToLower(ev.Message), strings.ToLower(own)) {
		return
	}

	delay := s.timing.ChatReplyMin
	if spread := s.timing.ChatReplyMax - s.timing.ChatReplyMin; spread > 0 {
		delay += time.Duration(s.randInt64N(int64(spread)))
	}
	s.timers.arm(timerChatReply, delay)
}

func (s *Supervisor) sendChatReply() {
	s.chat(PresenceReply)
}
