// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package game

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/afkwarden/internal/logging"
)

// DefaultBridgeURL is where the protocol bridge sidecar listens.
const DefaultBridgeURL = "ws://127.0.0.1:8765/bot"

const (
	defaultPingInterval = 30 * time.Second
	writeTimeout        = 10 * time.Second
	eventBuffer         = 64
)

// BridgeDialer dials the protocol bridge over a websocket.
type BridgeDialer struct {
	url          string
	pingInterval time.Duration
	dialer       websocket.Dialer
}

// NewBridgeDialer creates a dialer for the bridge at rawURL. http and https
// URLs are converted to ws and wss.
func NewBridgeDialer(rawURL string) (*BridgeDialer, error) {
	wsURL, err := buildWebSocketURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &BridgeDialer{
		url:          wsURL,
		pingInterval: defaultPingInterval,
		dialer:       websocket.Dialer{HandshakeTimeout: 10 * time.Second},
	}, nil
}

func buildWebSocketURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse bridge url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported bridge url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("bridge url %q has no host", rawURL)
	}
	return u.String(), nil
}

// Dial connects to the bridge and asks it to open a game session with opts.
// Success means the bridge accepted the request; login and spawn arrive later
// as events.
func (d *BridgeDialer) Dial(ctx context.Context, opts Options) (Client, error) {
	conn, resp, err := d.dialer.DialContext(ctx, d.url, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge dial: %w", err)
	}

	c := &bridgeClient{
		conn:         conn,
		username:     opts.Username,
		pingInterval: d.pingInterval,
		events:       make(chan Event, eventBuffer),
		stopChan:     make(chan struct{}),
		pending:      make(map[string]chan error),
	}

	if err := c.write(connectFrame(opts)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send connect request: %w", err)
	}

	c.wg.Add(2)
	go c.listen()
	go c.pingLoop()

	return c, nil
}

type requestFrame struct {
	Op string `json:"op"`
	ID string `json:"id,omitempty"`

	// connect
	Host                 string `json:"host,omitempty"`
	Port                 int    `json:"port,omitempty"`
	Username             string `json:"username,omitempty"`
	Version              string `json:"version,omitempty"`
	Auth                 string `json:"auth,omitempty"`
	KeepAlive            bool   `json:"keepAlive,omitempty"`
	CheckTimeoutInterval int64  `json:"checkTimeoutInterval,omitempty"`
	Timeout              int64  `json:"timeout,omitempty"`

	// chat
	Text string `json:"text,omitempty"`

	// control
	Control Control `json:"control,omitempty"`
	State   *bool   `json:"state,omitempty"`

	// equip
	Item        *Item  `json:"item,omitempty"`
	Destination string `json:"destination,omitempty"`
}

func connectFrame(opts Options) requestFrame {
	return requestFrame{
		Op:                   "connect",
		Host:                 opts.Host,
		Port:                 opts.Port,
		Username:             opts.Username,
		Version:              opts.Version,
		Auth:                 opts.Auth,
		KeepAlive:            opts.KeepAlive,
		CheckTimeoutInterval: opts.CheckTimeoutInterval.Milliseconds(),
		Timeout:              opts.Timeout.Milliseconds(),
	}
}

type eventFrame struct {
	Event       string          `json:"event"`
	SocketAlive bool            `json:"socket_alive"`
	Health      float64         `json:"health"`
	Food        float64         `json:"food"`
	Items       []Item          `json:"items"`
	Username    string          `json:"username"`
	Message     string          `json:"message"`
	Reason      json.RawMessage `json:"reason"`
	Packet      json.RawMessage `json:"packet"`
	ID          string          `json:"id"`
	Error       string          `json:"error"`
}

type bridgeClient struct {
	conn         *websocket.Conn
	writeMu      sync.Mutex
	username     string
	pingInterval time.Duration

	events    chan Event
	stopChan  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	socketFlag atomic.Bool
	ended      atomic.Bool

	mu        sync.Mutex
	inventory []Item
	pending   map[string]chan error
	closed    bool
}

func (c *bridgeClient) Events() <-chan Event { return c.events }

func (c *bridgeClient) Username() string { return c.username }

func (c *bridgeClient) SocketAlive() bool {
	return c.socketFlag.Load() && socketAlive(c.conn.NetConn())
}

func (c *bridgeClient) Chat(text string) error {
	return c.write(requestFrame{Op: "chat", Text: text})
}

func (c *bridgeClient) SetControlState(control Control, state bool) error {
	return c.write(requestFrame{Op: "control", Control: control, State: &state})
}

func (c *bridgeClient) Inventory() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.inventory...)
}

func (c *bridgeClient) Equip(ctx context.Context, item Item, destination string) error {
	return c.request(ctx, requestFrame{Op: "equip", Item: &item, Destination: destination})
}

func (c *bridgeClient) Consume(ctx context.Context) error {
	return c.request(ctx, requestFrame{Op: "consume"})
}

// request sends f with a fresh id and waits for the matching result frame.
func (c *bridgeClient) request(ctx context.Context, f requestFrame) error {
	f.ID = uuid.NewString()
	done := make(chan error, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[f.ID] = done
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, f.ID)
		c.mu.Unlock()
	}()

	if err := c.write(f); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *bridgeClient) write(f requestFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", f.Op, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", f.Op, err)
	}
	return nil
}

// Close asks the bridge to end the game session and closes the websocket.
func (c *bridgeClient) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		if err := c.write(requestFrame{Op: "end"}); err != nil {
			logging.Debug().Err(err).Msg("Bridge end request failed")
		}

		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(1*time.Second),
		)
		c.writeMu.Unlock()

		if err := c.conn.Close(); err != nil {
			logging.Debug().Err(err).Msg("Bridge websocket close failed")
		}
	})
	c.wg.Wait()
	return nil
}

// listen reads frames until the websocket fails, then reports end once and
// closes the event channel.
func (c *bridgeClient) listen() {
	defer c.wg.Done()
	defer close(c.events)
	defer c.failPending()

	readTimeout := 2 * c.pingInterval
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopChan:
				return
			default:
			}
			if !c.ended.Load() {
				reason := "socketClosed"
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					reason = err.Error()
				}
				c.emit(Event{Kind: EventEnd, Reason: reason})
			}
			return
		}

		if ev, ok := c.handleFrame(message); ok {
			if !c.emit(ev) {
				return
			}
		}
	}
}

func (c *bridgeClient) emit(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.stopChan:
		return false
	}
}

// handleFrame decodes one bridge frame. Frames that only update client state
// (inventory, result) produce no event.
func (c *bridgeClient) handleFrame(data []byte) (Event, bool) {
	var f eventFrame
	if err := json.Unmarshal(data, &f); err != nil {
		logging.Warn().Err(err).Msg("Failed to parse bridge frame")
		return Event{}, false
	}

	switch EventKind(f.Event) {
	case EventLogin:
		return Event{Kind: EventLogin}, true
	case EventSpawn:
		c.socketFlag.Store(f.SocketAlive)
		return Event{Kind: EventSpawn}, true
	case EventHealth:
		return Event{Kind: EventHealth, Health: f.Health, Food: f.Food}, true
	case EventChat:
		return Event{Kind: EventChat, Username: f.Username, Message: f.Message}, true
	case EventKicked:
		return Event{Kind: EventKicked, Reason: string(f.Reason)}, true
	case EventEnd:
		c.ended.Store(true)
		c.socketFlag.Store(false)
		return Event{Kind: EventEnd, Reason: plainReason(f.Reason)}, true
	case EventDisconnect:
		return Event{Kind: EventDisconnect, Reason: string(f.Packet)}, true
	case EventError:
		return Event{Kind: EventError, Message: f.Message}, true
	}

	switch f.Event {
	case "inventory":
		c.mu.Lock()
		c.inventory = f.Items
		c.mu.Unlock()
	case "result":
		c.resolve(f.ID, f.Error)
	default:
		logging.Debug().Str("event", f.Event).Msg("Unknown bridge event")
	}
	return Event{}, false
}

// plainReason unquotes a JSON string reason and returns anything else raw.
func plainReason(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (c *bridgeClient) resolve(id, errText string) {
	c.mu.Lock()
	done, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return
	}
	var err error
	if errText != "" {
		err = fmt.Errorf("%w: %s", ErrRequestFail, errText)
	}
	select {
	case done <- err:
	default:
	}
}

func (c *bridgeClient) failPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, done := range c.pending {
		select {
		case done <- ErrClosed:
		default:
		}
		delete(c.pending, id)
	}
}

func (c *bridgeClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				logging.Debug().Err(err).Msg("Bridge ping failed")
				return
			}
		}
	}
}
