// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connection Supervisor Metrics
	ConnectionPhase = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afkbot_connection_phase",
			Help: "Current connection phase (0=idle, 1=connecting, 2=connected, 3=disconnecting, 4=failed, 5=stopped)",
		},
	)

	ReconnectAttempts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afkbot_reconnect_attempts",
			Help: "Reconnect attempts since the last successful spawn",
		},
	)

	ReconnectsScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_reconnects_scheduled_total",
			Help: "Total number of reconnects scheduled",
		},
		[]string{"reason"},
	)

	Escalations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_escalations_total",
			Help: "Total number of escalated disconnect alerts",
		},
		[]string{"kind"}, // kind: "initial", "repeat"
	)

	SpawnsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "afkbot_spawns_rejected_total",
			Help: "Spawn events rejected because the transport socket was dead",
		},
	)

	BanStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_ban_stops_total",
			Help: "Times reconnection was stopped because of a ban",
		},
		[]string{"source"}, // source: "kicked", "error"
	)

	KeepaliveActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_keepalive_actions_total",
			Help: "Keep-alive control actions performed",
		},
		[]string{"action"},
	)

	ConnectionUptime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "afkbot_connection_uptime_seconds",
			Help:    "How long each connection stayed up before it was lost",
			Buckets: []float64{10, 60, 300, 900, 3600, 4 * 3600, 12 * 3600, 24 * 3600},
		},
	)

	// Log Router Metrics
	LogLinesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afklogger_lines_written_total",
			Help: "Total number of log lines written",
		},
		[]string{"path", "type"}, // path: "sink", "fallback"
	)

	LogWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afklogger_write_errors_total",
			Help: "Total number of failed log line writes",
		},
		[]string{"path"},
	)

	LogFilesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "afklogger_retention_files_deleted_total",
			Help: "Log files removed by the retention sweep",
		},
	)

	SinkReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afklogger_sink_ready",
			Help: "Whether the log sink is accepting lines (1) or the fallback path is in use (0)",
		},
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afklogger_http_requests_total",
			Help: "Total number of ingest HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "afklogger_http_request_duration_seconds",
			Help:    "Ingest HTTP request latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"method", "endpoint"},
	)

	// Log Client Metrics
	LogClientFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_log_fallbacks_total",
			Help: "Log lines printed to the console because the log router was unreachable",
		},
		[]string{"reason"}, // reason: "send_failed", "queue_full", "closed"
	)

	// Notification Metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "afkbot_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"severity", "result"}, // result: "sent", "failed", "disabled", "rejected", "dropped"
	)

	NotificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "afkbot_notification_duration_seconds",
			Help:    "Webhook request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Watchdog Metrics
	WatchdogRestarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "afklogger_bot_restarts_total",
			Help: "Times the bot process was restarted",
		},
	)

	WatchdogLastExitCode = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afklogger_bot_last_exit_code",
			Help: "Exit code of the last bot process run (-1 when killed by a signal)",
		},
	)

	WatchdogChildRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "afklogger_bot_running",
			Help: "Whether the bot process is currently running",
		},
	)
)

// SetConnectionPhase records the supervisor phase as its ordinal.
func SetConnectionPhase(phase int) {
	ConnectionPhase.Set(float64(phase))
}

// RecordReconnectScheduled records a scheduled reconnect and the new attempt count.
func RecordReconnectScheduled(reason string, attempts int) {
	ReconnectsScheduled.WithLabelValues(reason).Inc()
	ReconnectAttempts.Set(float64(attempts))
}

// RecordConnected resets the attempt gauge after a successful spawn.
func RecordConnected() {
	ReconnectAttempts.Set(0)
}

// RecordConnectionLost observes how long a connection lasted.
func RecordConnectionLost(uptime time.Duration) {
	if uptime > 0 {
		ConnectionUptime.Observe(uptime.Seconds())
	}
}

// RecordEscalation records an escalated alert. repeat is false for the first
// alert of a disconnection episode.
func RecordEscalation(repeat bool) {
	kind := "initial"
	if repeat {
		kind = "repeat"
	}
	Escalations.WithLabelValues(kind).Inc()
}

// RecordBanStop records reconnection being stopped by a ban keyword.
func RecordBanStop(source string) {
	BanStops.WithLabelValues(source).Inc()
}

// RecordLogLine records a line written to disk.
func RecordLogLine(path, logType string, err error) {
	if err != nil {
		LogWriteErrors.WithLabelValues(path).Inc()
		return
	}
	LogLinesWritten.WithLabelValues(path, logType).Inc()
}

// SetSinkReady records sink readiness.
func SetSinkReady(ready bool) {
	if ready {
		SinkReady.Set(1)
		return
	}
	SinkReady.Set(0)
}

// RecordHTTPRequest records an ingest request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordNotification records the outcome of one notification.
func RecordNotification(severity, result string, duration time.Duration) {
	NotificationsSent.WithLabelValues(severity, result).Inc()
	if duration > 0 {
		NotificationDuration.Observe(duration.Seconds())
	}
}

// RecordBotExit records a bot process exit.
func RecordBotExit(code int) {
	WatchdogLastExitCode.Set(float64(code))
	WatchdogChildRunning.Set(0)
}

// RecordBotStart records a bot process start. restart is false for the first run.
func RecordBotStart(restart bool) {
	WatchdogChildRunning.Set(1)
	if restart {
		WatchdogRestarts.Inc()
	}
}
