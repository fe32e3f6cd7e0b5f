// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package game

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// mockBridge is a test websocket server standing in for the protocol bridge.
type mockBridge struct {
	server   *httptest.Server
	upgrader websocket.Upgrader
	connChan chan *websocket.Conn
}

func newMockBridge(t *testing.T) *mockBridge {
	t.Helper()
	mock := &mockBridge{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		connChan: make(chan *websocket.Conn, 1),
	}
	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := mock.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mock.connChan <- conn
	}))
	t.Cleanup(mock.server.Close)
	return mock
}

func (m *mockBridge) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-m.connChan:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not receive a connection")
		return nil
	}
}

func readRequest(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read request: %v", err)
	}
	var f map[string]any
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return f
}

func sendFrame(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("send frame: %v", err)
	}
}

func nextEvent(t *testing.T, c Client) Event {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func dialMock(t *testing.T) (Client, *websocket.Conn) {
	t.Helper()
	mock := newMockBridge(t)
	d, err := NewBridgeDialer(mock.server.URL + "/bot")
	if err != nil {
		t.Fatalf("NewBridgeDialer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := d.Dial(ctx, Options{
		Host:                 "play.example.net",
		Port:                 25565,
		Username:             "AfkBot",
		Version:              "1.16.5",
		Auth:                 DefaultAuth,
		KeepAlive:            true,
		CheckTimeoutInterval: DefaultCheckTimeoutInterval,
		Timeout:              DefaultTimeout,
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	conn := mock.accept(t)
	return c, conn
}

func TestBuildWebSocketURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ws://127.0.0.1:8765/bot", want: "ws://127.0.0.1:8765/bot"},
		{in: "http://bridge:8765/bot", want: "ws://bridge:8765/bot"},
		{in: "https://bridge/bot", want: "wss://bridge/bot"},
		{in: "tcp://bridge:8765", wantErr: true},
		{in: "ws:///bot", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildWebSocketURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDial_SendsConnectRequest(t *testing.T) {
	c, conn := dialMock(t)

	f := readRequest(t, conn)
	checks := map[string]any{
		"op":                   "connect",
		"host":                 "play.example.net",
		"port":                 float64(25565),
		"username":             "AfkBot",
		"version":              "1.16.5",
		"auth":                 "offline",
		"keepAlive":            true,
		"checkTimeoutInterval": float64(30000),
		"timeout":              float64(30000),
	}
	for k, want := range checks {
		if f[k] != want {
			t.Errorf("connect[%q] = %v, want %v", k, f[k], want)
		}
	}
	if c.Username() != "AfkBot" {
		t.Errorf("Username() = %q", c.Username())
	}
}

func TestDial_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	d, err := NewBridgeDialer(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	srv.Close()

	if _, err := d.Dial(context.Background(), Options{}); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestBridgeClient_Events(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	frames := []string{
		`{"event":"login"}`,
		`{"event":"health","health":20,"food":17}`,
		`{"event":"chat","username":"Steve","message":"hi afkbot"}`,
		`{"event":"kicked","reason":{"text":"You are banned"}}`,
		`{"event":"disconnect","packet":{"reason":"timeout"}}`,
		`{"event":"error","message":"read ECONNRESET"}`,
	}
	for _, f := range frames {
		sendFrame(t, conn, f)
	}

	want := []Event{
		{Kind: EventLogin},
		{Kind: EventHealth, Health: 20, Food: 17},
		{Kind: EventChat, Username: "Steve", Message: "hi afkbot"},
		{Kind: EventKicked, Reason: `{"text":"You are banned"}`},
		{Kind: EventDisconnect, Reason: `{"reason":"timeout"}`},
		{Kind: EventError, Message: "read ECONNRESET"},
	}
	for i, w := range want {
		if got := nextEvent(t, c); got != w {
			t.Errorf("event %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestBridgeClient_SpawnSocketFlag(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	if c.SocketAlive() {
		t.Error("SocketAlive() before spawn = true")
	}

	sendFrame(t, conn, `{"event":"spawn","socket_alive":true}`)
	if ev := nextEvent(t, c); ev.Kind != EventSpawn {
		t.Fatalf("got %+v, want spawn", ev)
	}
	if !c.SocketAlive() {
		t.Error("SocketAlive() after healthy spawn = false")
	}

	sendFrame(t, conn, `{"event":"spawn","socket_alive":false}`)
	nextEvent(t, c)
	if c.SocketAlive() {
		t.Error("SocketAlive() after spawn with dead game socket = true")
	}
}

func TestBridgeClient_Inventory(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	sendFrame(t, conn, `{"event":"inventory","items":[{"name":"dirt","count":64,"slot":36},{"name":"bread","count":3,"slot":37}]}`)
	sendFrame(t, conn, `{"event":"login"}`)
	nextEvent(t, c)

	items := c.Inventory()
	if len(items) != 2 || items[1] != (Item{Name: "bread", Count: 3, Slot: 37}) {
		t.Errorf("Inventory() = %+v", items)
	}
}

func TestBridgeClient_Requests(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	equipErr := make(chan error, 1)
	go func() { equipErr <- c.Equip(ctx, Item{Name: "bread", Slot: 37}, "hand") }()

	f := readRequest(t, conn)
	if f["op"] != "equip" || f["destination"] != "hand" {
		t.Fatalf("equip request = %v", f)
	}
	sendFrame(t, conn, `{"event":"result","id":"`+f["id"].(string)+`"}`)
	if err := <-equipErr; err != nil {
		t.Errorf("Equip: %v", err)
	}

	consumeErr := make(chan error, 1)
	go func() { consumeErr <- c.Consume(ctx) }()

	f = readRequest(t, conn)
	if f["op"] != "consume" {
		t.Fatalf("consume request = %v", f)
	}
	sendFrame(t, conn, `{"event":"result","id":"`+f["id"].(string)+`","error":"not hungry"}`)
	if err := <-consumeErr; !errors.Is(err, ErrRequestFail) {
		t.Errorf("Consume error = %v, want ErrRequestFail", err)
	}
}

func TestBridgeClient_FireAndForget(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	if err := c.Chat("hello"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if f := readRequest(t, conn); f["op"] != "chat" || f["text"] != "hello" {
		t.Errorf("chat request = %v", f)
	}

	if err := c.SetControlState(ControlSneak, false); err != nil {
		t.Fatalf("SetControlState: %v", err)
	}
	if f := readRequest(t, conn); f["op"] != "control" || f["control"] != "sneak" || f["state"] != false {
		t.Errorf("control request = %v", f)
	}
}

func TestBridgeClient_EndReportedOnce(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	sendFrame(t, conn, `{"event":"end","reason":"socketClosed"}`)
	conn.Close()

	if ev := nextEvent(t, c); ev != (Event{Kind: EventEnd, Reason: "socketClosed"}) {
		t.Errorf("got %+v", ev)
	}

	select {
	case ev, ok := <-c.Events():
		if ok {
			t.Errorf("unexpected second event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed")
	}
}

func TestBridgeClient_ConnectionLost(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	conn.Close()

	if ev := nextEvent(t, c); ev.Kind != EventEnd || ev.Reason == "" {
		t.Errorf("got %+v, want end with a reason", ev)
	}
	for range c.Events() {
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Consume(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Consume after loss = %v, want ErrClosed", err)
	}
}

func TestBridgeClient_CloseSendsEnd(t *testing.T) {
	c, conn := dialMock(t)
	readRequest(t, conn)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if f := readRequest(t, conn); f["op"] != "end" {
		t.Errorf("request after Close = %v, want end", f)
	}

	// No synthetic end event after a local close.
	select {
	case ev, ok := <-c.Events():
		if ok {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event channel not closed")
	}

	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
