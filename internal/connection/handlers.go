// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"fmt"
	"time"

	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

func (s *Supervisor) handleGameEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventSpawn:
		s.handleSpawn()
	case game.EventLogin:
		s.emit("Bot logged in!", models.LogLogin)
	case game.EventHealth:
		s.handleHealth(ev)
	case game.EventChat:
		s.handleChat(ev)
	case game.EventEnd:
		s.emit("Disconnected: "+ev.Reason, models.LogError)
		s.disconnect("Connection ended")
	case game.EventDisconnect:
		s.emit("Disconnect packet: "+ev.Reason, models.LogError)
		s.disconnect("Disconnect packet")
	case game.EventKicked:
		s.handleKicked(ev.Reason)
	case game.EventError:
		s.handleError(ev.Message)
	default:
		logging.Debug().Str("event", string(ev.Kind)).Msg("Ignoring unknown game event")
	}
}

// handleSpawn validates the transport before treating the spawn as a
// successful connection.
func (s *Supervisor) handleSpawn() {
	if s.client == nil || !s.client.SocketAlive() {
		metrics.SpawnsRejected.Inc()
		s.emit("⚠️ Bot triggered spawn, but socket is invalid. Server might be offline.", models.LogError)
		s.sendStatus("❌ Server appears to be offline or unreachable.", models.SeverityEscalated, "")
		s.beginDisconnect()
		s.cleanup()
		s.scheduleReconnect("Server offline or invalid socket")
		return
	}

	s.lastConnected = s.clock.Now()
	s.setPhase(PhaseConnected)
	s.emit("✅ Bot successfully connected and spawned!", models.LogSuccess)
	s.timers.cancel(timerEscalation, timerEscalationRepeat)

	if s.attempts > 0 {
		s.sendStatus(fmt.Sprintf("✅ Bot reconnected after %d attempts.", s.attempts), models.SeverityNormal, "")
	}
	logging.Info().Str("episode", s.episode).Int("attempts", s.attempts).Msg("Connected and spawned")

	s.attempts = 0
	s.lastDisconnect = time.Time{}
	s.episode = ""
	s.isConnecting = false
	metrics.RecordConnected()

	if s.botCfg != nil && s.botCfg.LoginMsg != "" {
		s.chat(s.botCfg.LoginMsg)
	}
	s.timers.arm(timerKeepalive, s.timing.KeepAliveInterval)
}

// disconnect tears the connection down and schedules a retry.
func (s *Supervisor) disconnect(reason string) {
	s.beginDisconnect()
	s.cleanup()
	s.scheduleReconnect(reason)
}

func (s *Supervisor) handleKicked(reason string) {
	s.emit("Kicked: "+reason, models.LogError)
	if isBanKick(reason) {
		s.stopForBan("kicked", "❌ Bot permanently banned. Stopping reconnect.")
		return
	}
	s.disconnect("Kicked")
}

func (s *Supervisor) handleError(message string) {
	s.emit("Bot error: "+message, models.LogError)
	if isBanError(message) {
		s.stopForBan("error", "❌ Ban-related error. Stopping reconnect.")
		return
	}
	s.disconnect("Bot error")
}

func (s *Supervisor) stopForBan(source, message string) {
	metrics.RecordBanStop(source)
	logging.Warn().Str("source", source).Msg("Ban detected, reconnection stopped")
	s.sendStatus(message, models.SeverityEscalated, "")
	s.stop()
}
