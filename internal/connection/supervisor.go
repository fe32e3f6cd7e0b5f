// AFK Warden - Always-on game bot connection supervisor
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/afkwarden

package connection

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/afkwarden/internal/clock"
	"github.com/tomtom215/afkwarden/internal/config"
	"github.com/tomtom215/afkwarden/internal/game"
	"github.com/tomtom215/afkwarden/internal/logging"
	"github.com/tomtom215/afkwarden/internal/metrics"
	"github.com/tomtom215/afkwarden/internal/models"
)

const inboxSize = 256

// Timing holds the supervisor delays.
type Timing struct {
	ReconnectDelay    time.Duration
	EscalationDelay   time.Duration
	EscalationRepeat  time.Duration
	KeepAliveInterval time.Duration
	KeepAliveRelease  time.Duration
	ChatReplyMin      time.Duration
	ChatReplyMax      time.Duration
	MealTimeout       time.Duration
}

// DefaultTiming returns the production delays.
func DefaultTiming() Timing {
	return Timing{
		ReconnectDelay:    5 * time.Second,
		EscalationDelay:   60 * time.Second,
		EscalationRepeat:  300 * time.Second,
		KeepAliveInterval: 5 * time.Second,
		KeepAliveRelease:  200 * time.Millisecond,
		ChatReplyMin:      1 * time.Second,
		ChatReplyMax:      3 * time.Second,
		MealTimeout:       10 * time.Second,
	}
}

// Config configures a Supervisor.
type Config struct {
	// ConfigPath is the bot config file, read at every connection attempt.
	ConfigPath string

	Dialer   game.Dialer
	Log      models.LogEmitter
	Notifier models.Notifier

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Timing defaults to DefaultTiming().
	Timing *Timing
}

// Supervisor keeps one game client connected. All state is owned by the
// goroutine running Serve; everything else talks to it through the inbox.
type Supervisor struct {
	configPath string
	dialer     game.Dialer
	log        models.LogEmitter
	notifier   models.Notifier
	clock      clock.Clock
	timing     Timing

	inbox    chan message
	done     chan struct{}
	doneOnce sync.Once

	// Overridden in tests.
	spawn      func(func())
	randIntN   func(int) int
	randInt64N func(int64) int64

	// Loop-owned state.
	ctx            context.Context
	timers         *timerRegistry
	phase          Phase
	client         game.Client
	gen            uint64
	dialGen        uint64
	pumpStop       chan struct{}
	botCfg         *config.BotConfig
	attempts       int
	isConnecting   bool
	lastDisconnect time.Time
	lastConnected  time.Time
	episode        string
	heldControl    game.Control
	eating         bool
	shutdown       bool

	stateMu  sync.Mutex
	snapshot State
}

// New creates a Supervisor. Nothing happens until Serve is called.
func New(cfg Config) *Supervisor {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = config.DefaultBotConfigPath
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Log == nil {
		cfg.Log = models.LogEmitterFunc(func(models.LogEvent) {})
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	timing := DefaultTiming()
	if cfg.Timing != nil {
		timing = *cfg.Timing
	}

	s := &Supervisor{
		configPath: cfg.ConfigPath,
		dialer:     cfg.Dialer,
		log:        cfg.Log,
		notifier:   cfg.Notifier,
		clock:      cfg.Clock,
		timing:     timing,
		inbox:      make(chan message, inboxSize),
		done:       make(chan struct{}),
		spawn:      func(f func()) { go f() },
		randIntN:   rand.IntN,
		randInt64N: rand.Int64N,
		ctx:        context.Background(),
		phase:      PhaseIdle,
	}
	s.timers = newTimerRegistry(cfg.Clock, s.post)
	return s
}

type nopNotifier struct{}

func (nopNotifier) Notify(models.NotificationEvent) {}

// Serve implements suture.Service. It starts the first connection attempt
// and processes messages until Shutdown is handled or ctx is cancelled.
//
// After Shutdown it returns suture.ErrDoNotRestart.
func (s *Supervisor) Serve(ctx context.Context) error {
	defer s.doneOnce.Do(func() { close(s.done) })

	s.ctx = ctx
	s.post(startMsg{})

	for {
		select {
		case <-ctx.Done():
			s.stop()
			s.publishState()
			return ctx.Err()
		case m := <-s.inbox:
			s.dispatch(m)
			if s.shutdown {
				return suture.ErrDoNotRestart
			}
		}
	}
}

// String implements fmt.Stringer for suture.
func (s *Supervisor) String() string {
	return "connection-supervisor"
}

// Shutdown asks the supervisor to stop because the process received signal.
// It logs SHUTDOWN, tears the connection down and makes Serve return.
func (s *Supervisor) Shutdown(signal string) {
	s.post(shutdownMsg{signal: signal})
}

// Done is closed when Serve has returned.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns the state as of the last processed message.
func (s *Supervisor) Snapshot() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.snapshot
}

func (s *Supervisor) post(m message) {
	select {
	case s.inbox <- m:
	case <-s.done:
	}
}

// dispatch handles one message. A panic in a handler is treated as an
// unexpected fault.
func (s *Supervisor) dispatch(m message) {
	defer s.publishState()
	defer func() {
		if r := recover(); r != nil {
			s.fault(fmt.Errorf("%v", r))
		}
	}()

	switch m := m.(type) {
	case startMsg:
		s.startConnection()
	case dialResultMsg:
		s.handleDialResult(m)
	case gameEventMsg:
		if m.gen != s.gen || s.phase == PhaseStopped {
			logging.Debug().Str("event", string(m.event.Kind)).Uint64("gen", m.gen).Msg("Dropping event from a stale connection")
			return
		}
		s.handleGameEvent(m.event)
	case timerMsg:
		if s.phase == PhaseStopped || !s.timers.claim(m.key, m.seq) {
			return
		}
		s.handleTimer(m.key)
	case mealDoneMsg:
		if m.gen == s.gen {
			s.eating = false
		}
		if m.err != nil {
			logging.Debug().Err(m.err).Msg("Failed to eat")
		}
	case faultMsg:
		s.fault(m.err)
	case shutdownMsg:
		s.emit(fmt.Sprintf("%s received, shutting down.", m.signal), models.LogShutdown)
		s.stop()
		s.shutdown = true
	}
}

// goSafe runs fn off the loop. A panic in fn is posted back as a fault.
func (s *Supervisor) goSafe(fn func()) {
	s.spawn(func() {
		defer func() {
			if r := recover(); r != nil {
				s.post(faultMsg{err: fmt.Errorf("%v", r)})
			}
		}()
		fn()
	})
}

func (s *Supervisor) fault(err error) {
	if s.phase == PhaseStopped {
		return
	}
	logging.Error().Err(err).Msg("Unexpected fault in connection supervisor")
	s.emit("Uncaught exception: "+err.Error(), models.LogError)
	s.beginDisconnect()
	s.cleanup()
	s.scheduleReconnect("Unexpected fault")
}

func (s *Supervisor) setPhase(p Phase) {
	if s.phase == p {
		return
	}
	logging.Debug().Str("from", s.phase.String()).Str("to", p.String()).Msg("Connection phase change")
	s.phase = p
	metrics.SetConnectionPhase(int(p))
}

func (s *Supervisor) publishState() {
	st := State{
		Phase:                    s.phase,
		HasClient:                s.client != nil,
		ReconnectAttempts:        s.attempts,
		IsConnecting:             s.isConnecting,
		LastDisconnectTime:       s.lastDisconnect,
		LastSuccessfulConnection: s.lastConnected,
		Episode:                  s.episode,
	}
	s.stateMu.Lock()
	s.snapshot = st
	s.stateMu.Unlock()
}

func (s *Supervisor) emit(message string, logType models.LogType) {
	s.log.Emit(models.LogEvent{Message: message, Type: logType})
}

// sendStatus logs message and raises a notification for it. logType
// overrides the severity's default log type when set.
func (s *Supervisor) sendStatus(message string, severity models.Severity, logType models.LogType) {
	if logType == "" {
		logType = severity.LogType()
	}
	s.emit(message, logType)

	now := s.clock.Now()
	botName := ""
	if s.botCfg != nil {
		botName = s.botCfg.Username
	}
	s.notifier.Notify(models.NotificationEvent{
		Title:    severity.StatusTitle(),
		Body:     message + "\n\nTime: " + now.Local().Format("1/2/2006, 3:04:05 PM"),
		Severity: severity,
		BotName:  botName,
		Attempts: s.attempts,
		At:       now,
	})
}
