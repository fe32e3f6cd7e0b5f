// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package connection keeps a single game client connected.

# Execution Model

One goroutine runs Supervisor.Serve and owns all state. Game events, dial
results, timer fires, meal outcomes and faults are posted to an inbox and
handled strictly in arrival order. I/O (dialing, chat, controls, eating,
closing) runs in helper goroutines that post their results back.

Every connection attempt gets a new generation number. Events are handled
only when they come from the current generation and the supervisor is not
stopped, so a stale connection can never tear down a newer one, while an
event that was already queued when its own connection was cleaned up (a late
end after a kick) is still handled.

# Lifecycle

	Idle -> Connecting -> Connected -> Disconnecting -> Failed -> Connecting ...
	                                              any -> Stopped

Failures are retried every 5 seconds with no backoff. The first failure of a
disconnection episode arms a 60 second escalation; if the bot is still not
connected then, an escalated alert is sent and repeated every 5 minutes until
a connection is observed.

A kick whose raw reason contains "banned", "permanent" or "ban", or an error
containing "banned" or "blacklist", stops supervision for good. Matching is a
plain case-insensitive substring test, so a kick reason such as "Connection
abandoned" also stops the bot.

# Timers

Timers live in a registry keyed by purpose (reconnect, escalation,
escalation-repeat, keepalive, keepalive-release, chat-reply). Arming a key
replaces its pending timer, and cleanup cancels every key except the
escalation pair.
*/
package connection
