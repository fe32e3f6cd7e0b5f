// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

// Package logging provides the zerolog-based diagnostic logger shared by
// afkbot and afklogger.
//
// Two kinds of logging exist in this repository and they should not be
// confused:
//
//   - Operator log lines (LogEvent, type tagged, written to the hourly log
//     files by the log sink). These are produced through logclient or the
//     log router and are the durable record of bot health.
//   - Process diagnostics (this package). Structured zerolog output on
//     stderr describing what the processes themselves are doing: a write
//     failure in the sink, a supervisor restart, a webhook circuit opening.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//	logging.Info().Str("addr", addr).Msg("Log ingest listening")
//	logging.Err(err).Msg("Failed to append log line")
//
// # Context
//
// A disconnect episode carries a short correlation ID so every diagnostic
// emitted while the bot is offline can be grouped:
//
//	ctx = logging.ContextWithEpisodeID(ctx, logging.NewEpisodeID())
//	logging.Ctx(ctx).Warn().Msg("Reconnect scheduled")
//
// # slog bridge
//
// suture (through sutureslog) and watermill both log through *slog.Logger.
// NewSlogLogger returns one backed by the global zerolog logger.
//
// # Configuration
//
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: console)
package logging
