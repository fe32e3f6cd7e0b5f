// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package logrouter is the receiving side of afkbot's log stream.

The ingest handler accepts POST /log and passes each event to the Router.
While the log sink reports ready, the Router publishes the event on the
in-process watermill topic and blocks until the sink has acked it. Otherwise,
or if the publish fails, the line is appended to logs/YYYY-MM-DD_fallback.log
and echoed to stdout.

	afkbot --HTTP--> Handler --> Router --gochannel--> logsink.Sink --> logs/YYYY-MM-DD_HH.log
	                               \--(sink not ready)--> logs/YYYY-MM-DD_fallback.log

RetentionService deletes files older than the retention period once at
startup.
*/
package logrouter
