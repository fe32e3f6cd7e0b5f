// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package models

import "strings"

// LogType is the tag written between brackets on every operator log line.
type LogType string

// Log types emitted by afkbot and afklogger.
const (
	LogInfo         LogType = "INFO"
	LogError        LogType = "ERROR"
	LogWarning      LogType = "WARNING"
	LogStatus       LogType = "STATUS"
	LogEscalated    LogType = "ESCALATED"
	LogSuccess      LogType = "SUCCESS"
	LogLogin        LogType = "LOGIN"
	LogShutdown     LogType = "SHUTDOWN"
	LogNotification LogType = "NOTIFICATION"
	LogReconnect    LogType = "RECONNECT"
	LogInit         LogType = "INIT"
	LogBot          LogType = "BOT"
)

// LogEvent is one operator log line in flight. The timestamp is applied by
// whoever writes it to disk.
//
// It is also the body of POST /log.
type LogEvent struct {
	Message string  `json:"message" validate:"required"`
	Type    LogType `json:"type,omitempty" validate:"omitempty,logtype"`
}

// Normalized returns a copy with the type upper-cased and an empty type
// replaced by INFO.
func (e LogEvent) Normalized() LogEvent {
	e.Type = LogType(strings.ToUpper(strings.TrimSpace(string(e.Type))))
	if e.Type == "" {
		e.Type = LogInfo
	}
	return e
}

// LogEmitter accepts operator log lines. Implementations must not block the
// caller on I/O.
type LogEmitter interface {
	Emit(LogEvent)
}

// LogEmitterFunc adapts a function to LogEmitter.
type LogEmitterFunc func(LogEvent)

// Emit calls f(e).
func (f LogEmitterFunc) Emit(e LogEvent) { f(e) }
