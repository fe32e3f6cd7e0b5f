// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package logsink persists operator log lines for afklogger.

The Sink is a suture service that consumes LogEvents from an in-process
watermill topic and appends them to hourly files:

	logs/2026-10-17_15.log
	[17/10/2026, 3:04:05 pm] [LOGIN] Bot logged in!

Timestamps are rendered in the configured time zone when the line is
written. A line that cannot be decoded or written is reported through
zerolog and a metric, then dropped; the sink itself keeps running.

The same Writer type, with a daily file name, backs the router's fallback
path (logs/YYYY-MM-DD_fallback.log). LockDir guards the directory against a
second logger process.
*/
package logsink
