// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logsink

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// Topic is the in-process topic log events travel on from router to sink.
const Topic = "afkwarden.log"

// ErrNilSubscriber is returned by New when no subscriber is given.
var ErrNilSubscriber = errors.New("logsink: subscriber is required")

// Readiness receives the sink's ready state. SetSinkReady(false) must not
// return until no publish that observed the sink as ready is still pending.
type Readiness interface {
	SetSinkReady(ready bool)
}

// Sink persists log events received on Topic into hourly files.
//
// It runs as a suture service. Readiness is reported once the subscription
// is live and withdrawn on exit; while withdrawing, the sink keeps consuming
// so publishers blocked on an ack complete before the subscription closes.
type Sink struct {
	subscriber message.Subscriber
	writer     *Writer
	readiness  Readiness
	logger     watermill.LoggerAdapter
}

// New creates a Sink.
func New(subscriber message.Subscriber, writer *Writer, readiness Readiness, logger watermill.LoggerAdapter) (*Sink, error) {
	if subscriber == nil {
		return nil, ErrNilSubscriber
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Sink{
		subscriber: subscriber,
		writer:     writer,
		readiness:  readiness,
		logger:     logger,
	}, nil
}

// Serve implements suture.Service.
func (s *Sink) Serve(ctx context.Context) error {
	// The subscription outlives ctx until readiness has been withdrawn.
	subCtx, cancelSub := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelSub()

	msgs, err := s.subscriber.Subscribe(subCtx, Topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", Topic, err)
	}

	s.setReady(true)
	s.logger.Info("Log sink ready", watermill.LogFields{"dir": s.writer.Dir()})

	var withdrawn chan struct{}
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				if withdrawn == nil {
					s.setReady(false)
					return errors.New("log sink subscription closed")
				}
				<-withdrawn
				return ctx.Err()
			}
			s.handle(msg)

		case <-ctx.Done():
			if withdrawn != nil {
				continue
			}
			withdrawn = make(chan struct{})
			go func() {
				s.setReady(false)
				close(withdrawn)
			}()

		case <-withdrawn:
			s.logger.Info("Log sink stopped", nil)
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for suture.
func (s *Sink) String() string {
	return "log-sink"
}

func (s *Sink) setReady(ready bool) {
	metrics.SetSinkReady(ready)
	if s.readiness != nil {
		s.readiness.SetSinkReady(ready)
	}
}

// handle writes one message. Every outcome acks: a line that cannot be
// decoded or written is reported and dropped, never redelivered.
func (s *Sink) handle(msg *message.Message) {
	defer msg.Ack()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordLogLine("sink", "", fmt.Errorf("panic: %v", r))
			logging.Error().Interface("panic", r).Str("message_uuid", msg.UUID).Msg("Log sink recovered from panic while writing line")
		}
	}()

	var ev models.LogEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		metrics.RecordLogLine("sink", "", err)
		logging.Error().Err(err).Str("message_uuid", msg.UUID).Msg("Failed to decode log event")
		return
	}
	ev = ev.Normalized()

	_, path, err := s.writer.Write(ev)
	metrics.RecordLogLine("sink", string(ev.Type), err)
	if err != nil {
		logging.Err(err).Str("path", path).Msg("Failed to write log")
	}
}

// Encode builds the watermill message for ev.
func Encode(ev models.LogEvent) (*message.Message, error) {
	payload, err := json.Marshal(ev.Normalized())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log event: %w", err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}
