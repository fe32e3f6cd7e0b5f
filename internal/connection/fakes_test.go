// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/models"
)

var testStart = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

type controlCall struct {
	control game.Control
	state   bool
}

type fakeClient struct {
	mu        sync.Mutex
	username  string
	alive     bool
	events    chan game.Event
	inventory []game.Item
	chats     []string
	controls  []controlCall
	equipped  []game.Item
	consumed  int
	closed    int

	inventoryPanic bool
	equipPanic     bool
}

func newFakeClient(username string) *fakeClient {
	return &fakeClient{username: username, alive: true, events: make(chan game.Event, 16)}
}

func (c *fakeClient) Events() <-chan game.Event { return c.events }
func (c *fakeClient) Username() string          { return c.username }

func (c *fakeClient) SocketAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *fakeClient) Chat(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats = append(c.chats, text)
	return nil
}

func (c *fakeClient) SetControlState(control game.Control, state bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = append(c.controls, controlCall{control, state})
	return nil
}

func (c *fakeClient) Inventory() []game.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inventoryPanic {
		panic("inventory exploded")
	}
	return append([]game.Item(nil), c.inventory...)
}

func (c *fakeClient) Equip(_ context.Context, item game.Item, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.equipPanic {
		panic("equip exploded")
	}
	c.equipped = append(c.equipped, item)
	return nil
}

func (c *fakeClient) Consume(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumed++
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeClient) chatLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chats...)
}

func (c *fakeClient) controlLog() []controlCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]controlCall(nil), c.controls...)
}

func (c *fakeClient) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// fakeDialer hands out a new fakeClient per dial unless failWith is set.
type fakeDialer struct {
	mu       sync.Mutex
	dials    []game.Options
	clients  []*fakeClient
	failWith error
	prepare  func(*fakeClient)
}

func (d *fakeDialer) Dial(_ context.Context, opts game.Options) (game.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials = append(d.dials, opts)
	if d.failWith != nil {
		return nil, d.failWith
	}
	c := newFakeClient(opts.Username)
	if d.prepare != nil {
		d.prepare(c)
	}
	d.clients = append(d.clients, c)
	return c, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dials)
}

func (d *fakeDialer) last() *fakeClient {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.clients) == 0 {
		return nil
	}
	return d.clients[len(d.clients)-1]
}

type logRecorder struct {
	mu     sync.Mutex
	events []models.LogEvent
}

func (r *logRecorder) Emit(ev models.LogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *logRecorder) ofType(t models.LogType) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev.Message)
		}
	}
	return out
}

func (r *logRecorder) contains(t models.LogType, substr string) bool {
	for _, m := range r.ofType(t) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

type notifyRecorder struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *notifyRecorder) Notify(ev models.NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *notifyRecorder) all() []models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.NotificationEvent(nil), r.events...)
}

func (r *notifyRecorder) withSeverity(sev models.Severity) []models.NotificationEvent {
	var out []models.NotificationEvent
	for _, ev := range r.all() {
		if ev.Severity == sev {
			out = append(out, ev)
		}
	}
	return out
}

// harness drives a Supervisor synchronously: helpers run inline and the
// inbox is drained by the test goroutine.
type harness struct {
	t          *testing.T
	s          *Supervisor
	clk        *clock.FakeClock
	dialer     *fakeDialer
	logs       *logRecorder
	notes      *notifyRecorder
	configPath string
}

const testConfig = `{"ip":"play.example.net","port":"25565","name":"AfkBot","loginmsg":"/login hunter2"}`

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarnessWithoutConfig(t)
	h.writeConfig(testConfig)
	return h
}

func newHarnessWithoutConfig(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:          t,
		clk:        clock.Fake(testStart),
		dialer:     &fakeDialer{},
		logs:       &logRecorder{},
		notes:      &notifyRecorder{},
		configPath: filepath.Join(t.TempDir(), "config.json"),
	}
	h.s = New(Config{
		ConfigPath: h.configPath,
		Dialer:     h.dialer,
		Log:        h.logs,
		Notifier:   h.notes,
		Clock:      h.clk,
	})
	h.s.spawn = func(f func()) { f() }
	h.s.randIntN = func(int) int { return 0 }
	h.s.randInt64N = func(int64) int64 { return 0 }
	t.Cleanup(func() {
		if h.s.pumpStop != nil {
			close(h.s.pumpStop)
		}
	})
	return h
}

func (h *harness) writeConfig(content string) {
	h.t.Helper()
	if err := os.WriteFile(h.configPath, []byte(content), 0o600); err != nil {
		h.t.Fatal(err)
	}
}

// drain processes every queued message, including ones queued while
// draining.
func (s *Supervisor) drain() {
	for {
		select {
		case m := <-s.inbox:
			s.dispatch(m)
		default:
			return
		}
	}
}

func (h *harness) start() {
	h.s.post(startMsg{})
	h.s.drain()
}

func (h *harness) deliver(ev game.Event) {
	h.s.post(gameEventMsg{gen: h.s.gen, event: ev})
	h.s.drain()
}

func (h *harness) advance(d time.Duration) {
	h.clk.Advance(d)
	h.s.drain()
}

// connect starts the supervisor and completes a healthy spawn.
func (h *harness) connect() *fakeClient {
	h.t.Helper()
	h.start()
	c := h.dialer.last()
	if c == nil {
		h.t.Fatal("no client dialed")
	}
	h.deliver(game.Event{Kind: game.EventSpawn})
	if st := h.s.Snapshot(); st.Phase != PhaseConnected {
		h.t.Fatalf("phase = %s, want connected", st.Phase)
	}
	return c
}

var errRefused = errors.New("connect ECONNREFUSED 10.0.0.1:25565")
