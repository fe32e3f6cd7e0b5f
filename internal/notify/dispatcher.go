// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/afkwarden/internal/config"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// DefaultConfigPath is the notification config file afkbot reads.
const DefaultConfigPath = "notification_config.json"

// Config configures a Dispatcher.
type Config struct {
	// ConfigPath is re-read on every send.
	ConfigPath string

	// Timeout bounds each webhook POST.
	Timeout time.Duration

	// QueueSize is the number of notifications buffered for the worker.
	QueueSize int

	// MinInterval and Burst pace webhook sends.
	MinInterval time.Duration
	Burst       int

	// Log receives NOTIFICATION and ERROR operator lines about delivery.
	Log models.LogEmitter
}

// Dispatcher sends notifications to Discord-compatible webhooks. Notify is
// fire-and-forget; a single worker (Serve) performs the sends in order.
type Dispatcher struct {
	configPath string
	client     *http.Client
	queue      chan models.NotificationEvent
	limiter    *rate.Limiter
	log        models.LogEmitter
	breakers   map[string]*gobreaker.CircuitBreaker[int]
}

// New creates a Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 2 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Log == nil {
		cfg.Log = models.LogEmitterFunc(func(models.LogEvent) {})
	}

	return &Dispatcher{
		configPath: cfg.ConfigPath,
		client:     &http.Client{Timeout: cfg.Timeout},
		queue:      make(chan models.NotificationEvent, cfg.QueueSize),
		limiter:    rate.NewLimiter(rate.Every(cfg.MinInterval), cfg.Burst),
		log:        cfg.Log,
		breakers: map[string]*gobreaker.CircuitBreaker[int]{
			breakerDefault:   newBreaker(breakerDefault),
			breakerEscalated: newBreaker(breakerEscalated),
		},
	}
}

// Notify queues ev. It implements models.Notifier and never blocks; when the
// queue is full the notification is dropped.
func (d *Dispatcher) Notify(ev models.NotificationEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case d.queue <- ev:
	default:
		metrics.RecordNotification(ev.Severity.String(), "dropped", 0)
		logging.Warn().Str("title", ev.Title).Msg("Notification queue full, dropping notification")
	}
}

// Serve implements suture.Service. Queued notifications are sent until ctx
// is cancelled; whatever is left is then given a short grace period.
func (d *Dispatcher) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return ctx.Err()
		case ev := <-d.queue:
			_ = d.Send(ctx, ev)
		}
	}
}

// String implements fmt.Stringer for suture.
func (d *Dispatcher) String() string {
	return "notification-dispatcher"
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-d.queue:
			_ = d.Send(ctx, ev)
		default:
			return
		}
	}
}

// Send delivers ev synchronously. It returns nil when notifications are
// disabled, unconfigured, or the config file does not exist. Every failure is
// also reported as an ERROR operator line; callers may ignore the error.
func (d *Dispatcher) Send(ctx context.Context, ev models.NotificationEvent) error {
	sev := ev.Severity.String()

	cfg, err := config.LoadNotificationConfig(d.configPath)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			logging.Debug().Str("path", d.configPath).Msg("No notification config, skipping notification")
			metrics.RecordNotification(sev, "disabled", 0)
			return nil
		}
		d.log.Emit(models.LogEvent{Message: "Failed to load notification config: " + err.Error(), Type: models.LogError})
		metrics.RecordNotification(sev, "failed", 0)
		return err
	}

	url := cfg.URLFor(ev.Severity)
	if !cfg.Enabled || url == "" {
		metrics.RecordNotification(sev, "disabled", 0)
		return nil
	}

	body, err := json.Marshal(buildPayload(ev))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notification rate limiter: %w", err)
	}

	name := breakerDefault
	if ev.Severity == models.SeverityEscalated {
		name = breakerEscalated
	}

	start := time.Now()
	status, err := d.breakers[name].Execute(func() (int, error) {
		return d.post(ctx, url, body)
	})
	recordBreakerResult(name, err)

	if err != nil {
		result := "failed"
		if isRejected(err) {
			result = "rejected"
		}
		metrics.RecordNotification(sev, result, time.Since(start))
		d.log.Emit(models.LogEvent{Message: "Failed to send notification: " + err.Error(), Type: models.LogError})
		return err
	}

	metrics.RecordNotification(sev, "sent", time.Since(start))
	d.log.Emit(models.LogEvent{Message: fmt.Sprintf("Notification sent (%d)", status), Type: models.LogNotification})
	return nil
}

// post sends the payload and returns the response status. Any response,
// including 4xx and 5xx, counts as delivered.
func (d *Dispatcher) post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
