// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"context"
	"fmt"

	"github.com/tomtom215/afkwarden/internal/config"
	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// startConnection loads the bot config and dials a new connection.
func (s *Supervisor) startConnection() {
	if s.isConnecting || s.phase == PhaseStopped {
		return
	}
	s.isConnecting = true
	s.timers.cancel(timerReconnect)
	s.detach()

	cfg, err := config.LoadBotConfig(s.configPath)
	if err != nil {
		s.emit("Failed to read config: "+err.Error(), models.LogError)
		s.isConnecting = false
		s.scheduleReconnect("config unavailable")
		return
	}
	s.botCfg = cfg

	s.gen++
	gen := s.gen
	s.dialGen = gen
	s.setPhase(PhaseConnecting)

	opts := game.Options{
		Host:                 cfg.Host,
		Port:                 cfg.Port,
		Username:             cfg.Username,
		Version:              cfg.Version,
		Auth:                 game.DefaultAuth,
		KeepAlive:            true,
		CheckTimeoutInterval: game.DefaultCheckTimeoutInterval,
		Timeout:              game.DefaultTimeout,
	}
	logging.Info().Str("address", cfg.Address()).Str("username", cfg.Username).Uint64("gen", gen).Msg("Connecting to game server")

	ctx := logging.ContextWithEpisodeID(s.ctx, s.episode)
	s.goSafe(func() {
		dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		client, err := s.dialer.Dial(dialCtx, opts)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Uint64("gen", gen).Msg("Dial failed")
		}
		s.post(dialResultMsg{gen: gen, client: client, err: err})
	})
}

func (s *Supervisor) handleDialResult(m dialResultMsg) {
	if m.gen != s.dialGen || s.phase == PhaseStopped {
		if m.client != nil {
			s.closeClient(m.client)
		}
		return
	}
	s.dialGen = 0

	if m.err != nil {
		s.handleError(m.err.Error())
		return
	}
	s.attach(m.client)
}

// attach makes c the current connection and starts pumping its events into
// the inbox.
func (s *Supervisor) attach(c game.Client) {
	s.client = c
	stop := make(chan struct{})
	s.pumpStop = stop
	go s.pump(s.gen, c.Events(), stop)
}

func (s *Supervisor) pump(gen uint64, events <-chan game.Event, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case s.inbox <- gameEventMsg{gen: gen, event: ev}:
			case <-stop:
				return
			case <-s.done:
				return
			}
		}
	}
}

// detach stops the event pump and closes the current client off the loop.
func (s *Supervisor) detach() {
	if s.pumpStop != nil {
		close(s.pumpStop)
		s.pumpStop = nil
	}
	if s.client != nil {
		s.closeClient(s.client)
		s.client = nil
	}
}

func (s *Supervisor) closeClient(c game.Client) {
	s.goSafe(func() {
		if err := c.Close(); err != nil {
			logging.Debug().Err(err).Msg("Failed to close game client")
		}
	})
}

// cleanup drops the current connection and every timer tied to it. It is
// idempotent. Escalation timers are left running.
func (s *Supervisor) cleanup() {
	s.timers.cancel(timerReconnect, timerKeepalive, timerKeepaliveRelease, timerChatReply)
	s.detach()
	s.dialGen = 0
	s.eating = false
	s.isConnecting = false
}

// beginDisconnect marks the start of a teardown and records how long the
// connection lasted.
func (s *Supervisor) beginDisconnect() {
	if s.phase == PhaseConnected && !s.lastConnected.IsZero() {
		metrics.RecordConnectionLost(s.clock.Now().Sub(s.lastConnected))
	}
	s.setPhase(PhaseDisconnecting)
}

// stop ends supervision for good.
func (s *Supervisor) stop() {
	if s.phase == PhaseConnected {
		s.beginDisconnect()
	}
	s.cleanup()
	s.timers.cancelAll()
	s.setPhase(PhaseStopped)
}

// scheduleReconnect arms the fixed-delay reconnect timer. The first failure
// of an episode also arms the escalation timer.
func (s *Supervisor) scheduleReconnect(reason string) {
	if s.phase == PhaseStopped {
		return
	}
	if s.isConnecting {
		s.emit("Already attempting to connect, skipping...", models.LogWarning)
		return
	}

	if s.attempts == 0 {
		s.lastDisconnect = s.clock.Now()
		s.episode = logging.NewEpisodeID()
		// A repeat alert left over from an earlier episode is stale.
		s.timers.cancel(timerEscalationRepeat)
		s.timers.arm(timerEscalation, s.timing.EscalationDelay)
	}

	delay := s.timing.ReconnectDelay
	s.attempts++
	s.setPhase(PhaseFailed)
	metrics.RecordReconnectScheduled(reason, s.attempts)
	logging.Info().Str("episode", s.episode).Str("reason", reason).Int("attempt", s.attempts).Msg("Reconnect scheduled")

	s.sendStatus(
		fmt.Sprintf("Bot disconnected: %s\nReconnecting in %ds (Attempt %d)", reason, int(delay.Seconds()), s.attempts),
		models.SeverityError,
		models.LogReconnect,
	)
	s.timers.arm(timerReconnect, delay)
}

func (s *Supervisor) handleTimer(key timerKey) {
	switch key {
	case timerReconnect:
		s.startConnection()
	case timerEscalation:
		s.escalate()
	case timerEscalationRepeat:
		s.escalateRepeat()
	case timerKeepalive:
		s.keepAlive()
	case timerKeepaliveRelease:
		s.releaseControl()
	case timerChatReply:
		s.sendChatReply()
	}
}

func (s *Supervisor) escalate() {
	if s.phase == PhaseConnected {
		return
	}
	metrics.RecordEscalation(false)
	logging.Warn().Str("episode", s.episode).Int("attempts", s.attempts).Msg("Disconnected for over a minute, escalating")
	s.sendStatus(
		fmt.Sprintf("Bot has been disconnected for over 1 minute!\nReconnection attempts: %d", s.attempts),
		models.SeverityEscalated,
		"",
	)
	s.timers.arm(timerEscalationRepeat, s.timing.EscalationRepeat)
}

// escalateRepeat re-alerts until it observes a live connection, then stops
// re-arming itself.
func (s *Supervisor) escalateRepeat() {
	if s.phase == PhaseConnected {
		return
	}
	minutes := 0
	if !s.lastDisconnect.IsZero() {
		minutes = int(s.clock.Now().Sub(s.lastDisconnect).Minutes())
	}
	metrics.RecordEscalation(true)
	s.sendStatus(
		fmt.Sprintf("Bot still disconnected after %d minutes!\nReconnection attempts: %d", minutes, s.attempts),
		models.SeverityEscalated,
		"",
	)
	s.timers.arm(timerEscalationRepeat, s.timing.EscalationRepeat)
}
