// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

// Package watchdog runs the bot binary as a child of afklogger and restarts
// it a fixed delay after every exit, whatever the exit status. The child
// inherits the logger's stdio. On shutdown the child receives SIGTERM and is
// killed if it has not exited within the stop timeout.
package watchdog
