// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockHTTPServer is a test double for the HTTPServer interface.
type mockHTTPServer struct {
	serveErr      error
	shutdownErr   error
	serveCount    atomic.Int32
	shutdownCount atomic.Int32
	serveCalled   chan net.Listener
	stopCh        chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		serveCalled: make(chan net.Listener, 1),
		stopCh:      make(chan struct{}),
	}
}

func (m *mockHTTPServer) Serve(l net.Listener) error {
	m.serveCount.Add(1)
	defer l.Close()

	select {
	case m.serveCalled <- l:
	default:
	}

	if m.serveErr != nil {
		return m.serveErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	close(m.stopCh)
	return m.shutdownErr
}

func (m *mockHTTPServer) waitServing(t *testing.T) net.Listener {
	t.Helper()
	select {
	case l := <-m.serveCalled:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
		return nil
	}
}

func TestHTTPServerService_Interface(t *testing.T) {
	var _ suture.Service = (*HTTPServerService)(nil)
	var _ HTTPServer = (*http.Server)(nil)
}

func TestNewHTTPServerService_Defaults(t *testing.T) {
	tests := []struct {
		name        string
		svcName     string
		timeout     time.Duration
		wantName    string
		wantTimeout time.Duration
	}{
		{"explicit", "log-ingest", 5 * time.Second, "log-ingest", 5 * time.Second},
		{"zero timeout", "metrics", 0, "metrics", 10 * time.Second},
		{"negative timeout", "metrics", -time.Second, "metrics", 10 * time.Second},
		{"empty name", "", time.Second, "http-server", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewHTTPServerService(tt.svcName, "127.0.0.1:0", newMockHTTPServer(), tt.timeout)
			if svc.String() != tt.wantName {
				t.Errorf("String() = %q, want %q", svc.String(), tt.wantName)
			}
			if svc.shutdownTimeout != tt.wantTimeout {
				t.Errorf("shutdownTimeout = %v, want %v", svc.shutdownTimeout, tt.wantTimeout)
			}
		})
	}
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("shuts down gracefully on context cancellation", func(t *testing.T) {
		server := newMockHTTPServer()
		svc := NewHTTPServerService("test", "127.0.0.1:0", server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitServing(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after context cancellation")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown calls = %d, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("OnListen receives the bound address", func(t *testing.T) {
		server := newMockHTTPServer()
		got := make(chan net.Addr, 1)
		svc := NewHTTPServerService("test", "127.0.0.1:0", server, time.Second).
			OnListen(func(addr net.Addr) { got <- addr })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = svc.Serve(ctx) }()

		l := server.waitServing(t)
		select {
		case addr := <-got:
			if addr.String() != l.Addr().String() {
				t.Errorf("OnListen addr = %s, listener = %s", addr, l.Addr())
			}
		case <-time.After(2 * time.Second):
			t.Fatal("OnListen not called")
		}
	})

	t.Run("returns error when the address is taken", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer busy.Close()

		server := newMockHTTPServer()
		called := false
		svc := NewHTTPServerService("log-ingest", busy.Addr().String(), server, time.Second).
			OnListen(func(net.Addr) { called = true })

		err = svc.Serve(context.Background())
		if err == nil || !strings.Contains(err.Error(), "log-ingest: failed to listen") {
			t.Fatalf("Serve = %v, want listen error", err)
		}
		if server.serveCount.Load() != 0 || called {
			t.Error("server started without a listener")
		}
	})

	t.Run("returns server error", func(t *testing.T) {
		serveErr := errors.New("accept: too many open files")
		server := newMockHTTPServer()
		server.serveErr = serveErr
		svc := NewHTTPServerService("test", "127.0.0.1:0", server, time.Second)

		if err := svc.Serve(context.Background()); !errors.Is(err, serveErr) {
			t.Errorf("Serve = %v, want %v", err, serveErr)
		}
	})

	t.Run("returns shutdown error", func(t *testing.T) {
		shutdownErr := errors.New("shutdown timeout")
		server := newMockHTTPServer()
		server.shutdownErr = shutdownErr
		svc := NewHTTPServerService("test", "127.0.0.1:0", server, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		server.waitServing(t)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, shutdownErr) {
				t.Errorf("expected shutdown error, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
	})
}

func TestHTTPServerService_RealServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	addrCh := make(chan net.Addr, 1)
	svc := NewHTTPServerService("test", "127.0.0.1:0", &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, time.Second).
		OnListen(func(addr net.Addr) { addrCh <- addr })

	sup := suture.New("test-sup", suture.Spec{
		FailureBackoff: 10 * time.Millisecond,
		Timeout:        2 * time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/ping")
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop")
	}
}
