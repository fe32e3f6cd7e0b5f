// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

//go:build !unix

package watchdog

import "syscall"

func signalName(sig syscall.Signal) string {
	return sig.String()
}
