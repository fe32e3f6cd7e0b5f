// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package main

import (
	"net"
	"testing"
)

func TestListenPort(t *testing.T) {
	if got := listenPort(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6969}); got != 6969 {
		t.Errorf("listenPort = %d, want 6969", got)
	}
	if got := listenPort(&net.UnixAddr{Name: "/tmp/afk.sock", Net: "unix"}); got != 0 {
		t.Errorf("listenPort(unix) = %d, want 0", got)
	}
}
