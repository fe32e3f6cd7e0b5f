// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Command afkbot keeps one game bot connected to one server.

It talks to the game through a protocol bridge over a websocket, ships
operator log lines to afklogger and sends webhook alerts. It normally runs
as afklogger's child but works standalone; when afklogger is unreachable
every line is printed to stdout as "[FALLBACK LOG] [TYPE] message".

Usage:

	afkbot [flags]

	--config string               bot config file (default "config.json")
	--notification-config string  webhook config (default "notification_config.json")
	--log-endpoint string         afklogger URL (default "http://localhost:6969/log")
	--bridge-url string           bridge URL (default "ws://127.0.0.1:8765/bot")
	--metrics-addr string         /healthz and /metrics listen address
	--log-level string            diagnostic level (default $LOG_LEVEL or "info")
	--log-format string           console or json (default $LOG_FORMAT or "console")

Both config files are re-read on use, so edits apply to the next connection
attempt or the next alert without a restart.

Exit status is 0 after SIGINT or SIGTERM and 1 when startup fails.
*/
package main
