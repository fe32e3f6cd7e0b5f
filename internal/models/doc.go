// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

// Package models defines the messages that cross component boundaries: the
// operator log line (LogEvent) shipped from afkbot to afklogger, and the
// webhook alert (NotificationEvent).
//
// Both are plain values. They are never persisted other than as text lines in
// the hourly log files.
package models
