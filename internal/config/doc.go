// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package config loads the three configuration documents used by AFK Warden.

All three go through the same Koanf v2 pipeline (struct defaults, then the
file, then mapped environment variables) and are validated with
go-playground/validator.

# Bot config (config.json)

Read by afkbot at every connection attempt:

	{"ip": "play.example.net", "port": "25565", "name": "AfkBot", "version": "1.16.5", "loginmsg": "/login hunter2"}

"host"/"username" are accepted in place of "ip"/"name". The port may be a
number or a numeric string. Environment overrides: BOT_HOST, BOT_PORT,
BOT_USERNAME, BOT_VERSION, BOT_LOGINMSG.

# Notification config (notification_config.json)

Read by afkbot on every webhook send, so edits apply immediately:

	{"notifications_enabled": true, "webhook_url": "https://...", "escalated_webhook_url": "https://..."}

Environment overrides: NOTIFICATIONS_ENABLED, WEBHOOK_URL,
ESCALATED_WEBHOOK_URL.

# Logger settings (afklogger.yaml, optional)

	server:
	  host: 127.0.0.1
	  port: 6969
	logs:
	  dir: logs
	  retention: 168h
	  timezone: Asia/Kolkata
	watchdog:
	  enabled: true
	  command: ["./afkbot", "--config", "config.json"]
	  restart_delay: 5s

Environment overrides: CONFIG_PATH (settings file location), LOGGER_HOST,
LOGGER_PORT, LOGGER_RATE_LIMIT, LOGS_DIR, LOG_RETENTION, LOG_TIMEZONE,
WATCHDOG_ENABLED, BOT_COMMAND (whitespace separated), BOT_RESTART_DELAY,
BOT_STOP_TIMEOUT, LOG_LEVEL, LOG_FORMAT, LOG_CALLER.
*/
package config
