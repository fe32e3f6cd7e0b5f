// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// DefaultEndpoint is the log router ingest URL.
const DefaultEndpoint = "http://localhost:6969/log"

// ErrRejected is returned by Send when the router answers with a non-2xx status.
var ErrRejected = errors.New("log router rejected event")

// Config configures a Client.
type Config struct {
	// Endpoint is the full URL of POST /log.
	Endpoint string

	// Timeout bounds each POST.
	Timeout time.Duration

	// QueueSize is the number of events buffered while the sender is busy.
	QueueSize int

	// Fallback receives "[FALLBACK LOG] [TYPE] message" lines when the router
	// cannot be reached. Defaults to os.Stdout.
	Fallback io.Writer
}

// DefaultConfig returns the settings afkbot uses.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		Timeout:   time.Second,
		QueueSize: 1024,
		Fallback:  os.Stdout,
	}
}

// Client ships log events to the log router in emission order.
//
// Emit never blocks: events are queued and sent one at a time by Serve. When
// a send fails, or the queue is full, the line is printed to the fallback
// writer instead so it still reaches the watchdog's captured stdout.
type Client struct {
	endpoint string
	http     *http.Client
	queue    chan models.LogEvent

	outMu sync.Mutex
	out   io.Writer

	mu     sync.RWMutex
	closed bool
}

// New creates a Client. Zero fields in cfg take their DefaultConfig value.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Fallback == nil {
		cfg.Fallback = def.Fallback
	}

	return &Client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		queue:    make(chan models.LogEvent, cfg.QueueSize),
		out:      cfg.Fallback,
	}
}

// Emit queues ev for delivery. It implements models.LogEmitter.
func (c *Client) Emit(ev models.LogEvent) {
	ev = ev.Normalized()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.fallback(ev, "closed")
		return
	}

	select {
	case c.queue <- ev:
	default:
		c.fallback(ev, "queue_full")
	}
}

// Serve sends queued events until ctx is cancelled, then drains the queue.
func (c *Client) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.drain()
			return ctx.Err()
		case ev := <-c.queue:
			// Sends are bounded by the HTTP timeout, not by ctx, so an event
			// dequeued during shutdown is still delivered.
			c.deliver(context.WithoutCancel(ctx), ev)
		}
	}
}

// String implements fmt.Stringer for suture.
func (c *Client) String() string {
	return "log-client"
}

// Close stops accepting events. Anything emitted afterwards goes straight to
// the fallback writer.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// drain flushes what is left in the queue at shutdown. After the first
// failed send the rest is printed to the fallback writer without trying.
func (c *Client) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*c.http.Timeout)
	defer cancel()

	routerDown := false
	for {
		select {
		case ev := <-c.queue:
			if routerDown {
				c.fallback(ev, "send_failed")
				continue
			}
			if err := c.Send(ctx, ev); err != nil {
				routerDown = true
				c.fallback(ev, "send_failed")
			}
		default:
			return
		}
	}
}

func (c *Client) deliver(ctx context.Context, ev models.LogEvent) {
	if err := c.Send(ctx, ev); err != nil {
		logging.Debug().Err(err).Str("type", string(ev.Type)).Msg("log router unreachable")
		c.fallback(ev, "send_failed")
	}
}

// Send posts one event synchronously.
func (c *Client) Send(ctx context.Context, ev models.LogEvent) error {
	body, err := json.Marshal(ev.Normalized())
	if err != nil {
		return fmt.Errorf("failed to marshal log event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create log request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post log event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

func (c *Client) fallback(ev models.LogEvent, reason string) {
	metrics.LogClientFallbacks.WithLabelValues(reason).Inc()

	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, "[FALLBACK LOG] [%s] %s\n", ev.Type, ev.Message)
}
