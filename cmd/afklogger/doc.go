// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Command afklogger is the long-lived half of AFK Warden. It owns the log
files and keeps the bot process running.

	afklogger
	├── data-layer         log sink (hourly files, watermill gochannel)
	├── maintenance-layer  retention sweep, once at start
	├── process-layer      watchdog running ./afkbot
	└── api-layer          POST /log, GET /healthz, GET /metrics on :6969

Lines received while the sink is not ready go to
logs/YYYY-MM-DD_fallback.log. An exclusive lock on logs/.afklogger.lock
keeps a second afklogger from writing into the same directory.

# Configuration

Defaults, then the first of afklogger.yaml, afklogger.yml and
/etc/afkwarden/afklogger.yaml (or CONFIG_PATH), then the environment:

	LOGGER_HOST=127.0.0.1
	LOGGER_PORT=6969
	LOGS_DIR=logs
	LOG_RETENTION=168h
	LOG_TIMEZONE=Asia/Kolkata
	WATCHDOG_ENABLED=true
	BOT_COMMAND="./afkbot --config config.json"
	BOT_RESTART_DELAY=5s
	BOT_STOP_TIMEOUT=10s
	LOG_LEVEL=info
	LOG_FORMAT=console

# Shutdown

SIGINT or SIGTERM stops the watchdog first (SIGTERM to the bot, SIGKILL
after BOT_STOP_TIMEOUT) while the sink and ingest server keep accepting the
bot's final lines, then stops everything else.
*/
package main
