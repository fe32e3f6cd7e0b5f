// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/tomtom215/afkwarden/internal/logging"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server as a supervised service.
//
// Serve binds addr itself so that a bind failure is returned to suture (and
// retried with backoff) instead of being lost in a goroutine, and so that the
// OnListen hook only fires once the port is actually open.
//
//	server := &http.Server{Handler: logrouter.NewHandler(router, cfg)}
//	svc := services.NewHTTPServerService("log-ingest", ":6969", server, 5*time.Second)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	name            string
	addr            string
	server          HTTPServer
	shutdownTimeout time.Duration
	onListen        func(net.Addr)
}

// NewHTTPServerService creates the service. A non-positive shutdownTimeout
// defaults to 10s.
func NewHTTPServerService(name, addr string, server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if name == "" {
		name = "http-server"
	}
	return &HTTPServerService{
		name:            name,
		addr:            addr,
		server:          server,
		shutdownTimeout: shutdownTimeout,
	}
}

// OnListen registers fn to run every time the listener is bound.
func (h *HTTPServerService) OnListen(fn func(addr net.Addr)) *HTTPServerService {
	h.onListen = fn
	return h
}

// Serve implements suture.Service. It returns ctx.Err() after a graceful
// shutdown and a wrapped error if the server cannot bind or dies.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("%s: failed to listen on %s: %w", h.name, h.addr, err)
	}

	logging.Info().Str("service", h.name).Str("addr", ln.Addr().String()).Msg("HTTP server listening")
	if h.onListen != nil {
		h.onListen(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s failed: %w", h.name, err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s shutdown failed: %w", h.name, err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture.
func (h *HTTPServerService) String() string {
	return h.name
}
