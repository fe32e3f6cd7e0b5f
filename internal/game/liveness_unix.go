// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

//go:build unix

package game

import (
	"errors"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketAlive peeks at the socket without consuming data. A pending read of
// zero bytes means the peer closed the connection. Connections that do not
// expose a file descriptor are assumed alive.
func socketAlive(conn net.Conn) bool {
	conn = unwrapConn(conn)
	if conn == nil {
		return false
	}
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return true
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return false
	}

	alive := true
	ctrlErr := rc.Control(func(fd uintptr) {
		if soErr, err := unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_ERROR); err != nil || soErr != 0 {
			alive = false
			return
		}

		var buf [1]byte
		n, _, err := unix.Recvfrom(int(fd), buf[:], unix.MSG_PEEK|unix.MSG_DONTWAIT)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK), errors.Is(err, unix.EINTR):
		case err != nil:
			alive = false
		case n == 0:
			alive = false
		}
	})
	return ctrlErr == nil && alive
}

// unwrapConn strips wrappers such as *tls.Conn that expose the raw conn.
func unwrapConn(conn net.Conn) net.Conn {
	for conn != nil {
		w, ok := conn.(interface{ NetConn() net.Conn })
		if !ok {
			return conn
		}
		conn = w.NetConn()
	}
	return nil
}
