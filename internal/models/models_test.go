// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package models

import "testing"

func TestLogEventNormalized(t *testing.T) {
	if got := (LogEvent{Message: "hi"}).Normalized().Type; got != LogInfo {
		t.Errorf("empty type should normalize to INFO, got %q", got)
	}
	if got := (LogEvent{Message: "hi", Type: LogBot}).Normalized().Type; got != LogBot {
		t.Errorf("explicit type should be kept, got %q", got)
	}
	if got := (LogEvent{Message: "hi", Type: " debug "}).Normalized().Type; got != "DEBUG" {
		t.Errorf("type should be upper-cased, got %q", got)
	}
}

func TestSeverityMappings(t *testing.T) {
	tests := []struct {
		sev     Severity
		name    string
		title   string
		logType LogType
	}{
		{SeverityNormal, "normal", "✅ BOT STATUS", LogStatus},
		{SeverityError, "error", "❌ BOT ERROR", LogError},
		{SeverityEscalated, "escalated", "ESCALATED BOT ALERT", LogEscalated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sev.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.sev.String(), tt.name)
			}
			if tt.sev.StatusTitle() != tt.title {
				t.Errorf("StatusTitle() = %q, want %q", tt.sev.StatusTitle(), tt.title)
			}
			if tt.sev.LogType() != tt.logType {
				t.Errorf("LogType() = %q, want %q", tt.sev.LogType(), tt.logType)
			}
		})
	}
}

func TestLogEmitterFunc(t *testing.T) {
	var got []LogEvent
	var e LogEmitter = LogEmitterFunc(func(ev LogEvent) { got = append(got, ev) })
	e.Emit(LogEvent{Message: "a", Type: LogInfo})
	if len(got) != 1 || got[0].Message != "a" {
		t.Errorf("unexpected captured events %+v", got)
	}
}
