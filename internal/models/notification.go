// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package models

import "time"

// Severity selects the webhook endpoint, the embed colour and the default log
// type of a notification.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityError
	SeverityEscalated
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityEscalated:
		return "escalated"
	default:
		return "normal"
	}
}

// StatusTitle is the title used for status notifications of this severity.
// Escalated embeds get an extra siren prefix when they are rendered.
func (s Severity) StatusTitle() string {
	switch s {
	case SeverityEscalated:
		return "ESCALATED BOT ALERT"
	case SeverityError:
		return "❌ BOT ERROR"
	default:
		return "✅ BOT STATUS"
	}
}

// LogType is the log type a status message of this severity is recorded
// under unless the caller overrides it.
func (s Severity) LogType() LogType {
	switch s {
	case SeverityEscalated:
		return LogEscalated
	case SeverityError:
		return LogError
	default:
		return LogStatus
	}
}

// NotificationEvent is an alert for the operators. BotName and Attempts are a
// snapshot taken when the event was raised.
type NotificationEvent struct {
	Title    string
	Body     string
	Severity Severity
	BotName  string
	Attempts int
	At       time.Time
}

// Notifier accepts notifications. Implementations are fire-and-forget and
// never block the caller on the network.
type Notifier interface {
	Notify(NotificationEvent)
}
