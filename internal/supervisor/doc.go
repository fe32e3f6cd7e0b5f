// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package supervisor provides the suture v4 supervision tree used by both
afkwarden binaries.

# Layout

	afklogger
	├── data-layer         log sink (watermill subscriber)
	├── maintenance-layer  log retention sweep (one shot)
	├── process-layer      bot watchdog
	└── api-layer          log ingest HTTP server

	afkbot
	├── data-layer         log client, notification dispatcher
	├── maintenance-layer  (empty)
	├── process-layer      connection supervisor
	└── api-layer          metrics HTTP server (optional)

A crash in one layer is restarted by that layer's supervisor without
touching the others: when the log sink dies, the ingest server keeps
answering and the router writes to the fallback file until the sink is back.

# Shutdown

On SIGINT/SIGTERM the binaries call StopProcessLayer first, so the bot's
final SHUTDOWN line and the watchdog's exit line still have a running log
pipeline, and only then cancel the tree's context.

# Logging

Supervisor events (service panics, restarts, backoff) go through a
*slog.Logger, normally logging.NewSlogLogger(), via sutureslog.
*/
package supervisor
