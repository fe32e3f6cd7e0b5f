// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

// Package logclient ships afkbot's operator log lines to the afklogger
// ingest endpoint (POST /log) and falls back to stdout when it is down.
package logclient
