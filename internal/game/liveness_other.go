// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

//go:build !unix

package game

import "net"

// socketAlive has no kernel probe on this platform; the bridge socket flag
// is trusted on its own.
func socketAlive(conn net.Conn) bool {
	return conn != nil
}
