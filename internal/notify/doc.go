// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

/*
Package notify delivers operator alerts to Discord-compatible webhooks.

notification_config.json is loaded again for every send, so enabling,
disabling or changing webhooks takes effect without a restart. Escalated
alerts go to escalated_webhook_url; everything else goes to webhook_url.

Delivery is best effort: there is no retry, and the outcome is reported as
a NOTIFICATION or ERROR operator log line. A circuit breaker per webhook
class stops hammering a webhook that keeps failing at the transport level,
and a token bucket keeps bursts under Discord's rate limits.
*/
package notify
