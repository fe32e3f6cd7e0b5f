// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package logrouter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/logsink"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

// Router decides, per event, whether a line goes to the sink or straight to
// the dated fallback file. Nothing is dropped silently: a failed publish
// also takes the fallback path.
type Router struct {
	publisher message.Publisher
	fallback  *logsink.Writer
	echo      io.Writer

	// mu guards ready. Log holds the read lock for the whole publish, so
	// SetSinkReady(false) waits for in-flight publishes to be acked.
	mu    sync.RWMutex
	ready bool

	echoMu sync.Mutex
}

// New creates a Router. Fallback lines are echoed to echo (os.Stdout when nil)
// prefixed with "[FALLBACK LOG]".
func New(publisher message.Publisher, fallback *logsink.Writer, echo io.Writer) *Router {
	if echo == nil {
		echo = os.Stdout
	}
	return &Router{
		publisher: publisher,
		fallback:  fallback,
		echo:      echo,
	}
}

// SetSinkReady implements logsink.Readiness.
func (r *Router) SetSinkReady(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready != ready {
		logging.Info().Bool("ready", ready).Msg("Log sink readiness changed")
	}
	r.ready = ready
}

// SinkReady reports whether lines currently go to the sink.
func (r *Router) SinkReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Log routes one event.
func (r *Router) Log(ev models.LogEvent) {
	ev = ev.Normalized()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.ready {
		r.Fallback(ev)
		return
	}

	msg, err := logsink.Encode(ev)
	if err == nil {
		err = r.publisher.Publish(logsink.Topic, msg)
	}
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to hand log line to sink, using fallback file")
		r.Fallback(ev)
	}
}

// Emit implements models.LogEmitter so in-process components (the watchdog,
// the ingest handler) log through the same path as afkbot.
func (r *Router) Emit(ev models.LogEvent) {
	r.Log(ev)
}

// Fallback appends ev to the dated fallback file and echoes it to the
// console. Used while the sink is not ready and for rejected payloads.
func (r *Router) Fallback(ev models.LogEvent) {
	ev = ev.Normalized()

	line, path, err := r.fallback.Write(ev)
	metrics.RecordLogLine("fallback", string(ev.Type), err)
	if err != nil {
		logging.Err(err).Str("path", path).Msg("Failed to write fallback log")
	}

	r.echoMu.Lock()
	defer r.echoMu.Unlock()
	fmt.Fprintln(r.echo, "[FALLBACK LOG]", line)
}
