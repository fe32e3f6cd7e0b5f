// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/afkwarden/internal/game"
)

func getStatus(t *testing.T, h http.Handler) (int, statusResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHandler_Healthz(t *testing.T) {
	h := newHarness(t)
	handler := NewHandler(h.s)

	h.connect()
	code, resp := getStatus(t, handler)
	if code != http.StatusOK || !resp.Connected || resp.Phase != "connected" {
		t.Errorf("connected: code=%d resp=%+v", code, resp)
	}
	if resp.LastSuccessfulConnection == nil || !resp.LastSuccessfulConnection.Equal(testStart) {
		t.Errorf("last_successful_connection = %v, want %v", resp.LastSuccessfulConnection, testStart)
	}
	if resp.LastDisconnectTime != nil || resp.Episode != "" {
		t.Errorf("episode fields set while connected: %+v", resp)
	}

	h.deliver(game.Event{Kind: game.EventEnd, Reason: "socketClosed"})
	code, resp = getStatus(t, handler)
	if code != http.StatusOK || resp.Connected || resp.ReconnectAttempts != 1 || resp.Episode == "" {
		t.Errorf("disconnected: code=%d resp=%+v", code, resp)
	}

	h.deliver(game.Event{Kind: game.EventKicked, Reason: `"You are banned"`})
	code, resp = getStatus(t, handler)
	if code != http.StatusServiceUnavailable || resp.Phase != "stopped" {
		t.Errorf("stopped: code=%d resp=%+v", code, resp)
	}
}

func TestHandler_Metrics(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	NewHandler(h.s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
