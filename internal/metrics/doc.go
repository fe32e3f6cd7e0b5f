// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package metrics defines the Prometheus metrics exported by afkbot and afklogger.

All collectors are registered on the default registry through promauto. The
afklogger process serves them at /metrics next to the /log ingest endpoint;
afkbot records them in-process (the values are visible when afkbot is run
with --metrics-addr).

# Available Metrics

Connection supervisor:
  - afkbot_connection_phase: current phase ordinal (gauge)
  - afkbot_reconnect_attempts: attempts since the last spawn (gauge)
  - afkbot_reconnects_scheduled_total: labels reason (counter)
  - afkbot_escalations_total: labels kind (counter)
  - afkbot_spawns_rejected_total: dead-socket spawns (counter)
  - afkbot_ban_stops_total: labels source (counter)
  - afkbot_keepalive_actions_total: labels action (counter)
  - afkbot_connection_uptime_seconds: connection lifetime (histogram)
  - afkbot_log_fallbacks_total: labels reason (counter)

Notifications:
  - afkbot_notifications_total: labels severity, result (counter)
  - afkbot_notification_duration_seconds: webhook latency (histogram)
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total: labels name (webhook class)

Log router:
  - afklogger_lines_written_total: labels path, type (counter)
  - afklogger_write_errors_total: labels path (counter)
  - afklogger_retention_files_deleted_total (counter)
  - afklogger_sink_ready (gauge)
  - afklogger_http_requests_total, afklogger_http_request_duration_seconds

Watchdog:
  - afklogger_bot_restarts_total (counter)
  - afklogger_bot_last_exit_code (gauge)
  - afklogger_bot_running (gauge)
*/
package metrics
