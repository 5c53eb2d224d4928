// Package eventsink implements the leveled, thread-safe Event Sink
// (component B): every subsystem emits (level, component, message)
// triples here instead of calling a logger directly.
//
// Grounded on github.com/rs/zerolog (pulled in via OCAP2-extension's
// go.mod) for the leveled, structured line format; the bounded-queue
// plus drop-on-pressure discipline is new, since nothing in the pack
// implements a bounded async sink — it follows the non-blocking-send,
// bounded-channel pattern zenapo-hub-flight-simulator2's engine.go uses
// for its subscriber fan-out (internal/sim/engine.go, publish loop).
package eventsink

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Level is the Event severity, shared with FaultKind's severity mapping.
type Level int32

const (
	Info Level = iota
	Warn
	Minor
	Major
	Critical
	Catastrophic
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Minor:
		return "minor"
	case Major:
		return "major"
	case Critical:
		return "critical"
	case Catastrophic:
		return "catastrophic"
	default:
		return "unknown"
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	case Minor:
		return zerolog.WarnLevel
	case Major:
		return zerolog.ErrorLevel
	case Critical, Catastrophic:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

type event struct {
	level     Level
	component string
	message   string
}

// Sink is a non-blocking-preferred, leveled event sink. The component
// tag is truncated to 16 bytes to match the data-model contract.
type Sink struct {
	logger  zerolog.Logger
	queue   chan event
	closing chan struct{}
	done    chan struct{}

	minLevel      atomic.Int32
	dropThreshold atomic.Int32
	drops         atomic.Uint64

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an event sink writing formatted lines to w, with a bounded
// internal queue of the given depth.
func New(w io.Writer, queueDepth int) *Sink {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	s := &Sink{
		logger:  zerolog.New(w).With().Timestamp().Logger(),
		queue:   make(chan event, queueDepth),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.minLevel.Store(int32(Info))
	s.dropThreshold.Store(int32(Critical))
	go s.run()
	return s
}

func (s *Sink) run() {
	for ev := range s.queue {
		s.logger.WithLevel(ev.level.zerologLevel()).
			Str("component", ev.component).
			Msg(ev.message)
	}
	close(s.done)
}

// SetLevel sets the runtime level filter; events below it are dropped
// without being queued.
func (s *Sink) SetLevel(level Level) {
	s.minLevel.Store(int32(level))
}

// SetDropThreshold sets the level below which events may be dropped
// under queue pressure.
func (s *Sink) SetDropThreshold(level Level) {
	s.dropThreshold.Store(int32(level))
}

// Drops returns the number of events dropped so far due to pressure.
func (s *Sink) Drops() uint64 {
	return s.drops.Load()
}

func clampComponent(component string) string {
	if len(component) > 16 {
		return component[:16]
	}
	return component
}

// Emit records one event. It never allocates beyond the event struct and
// never blocks except to protect events at or above the drop threshold
// when the queue is momentarily full.
func (s *Sink) Emit(level Level, component, message string) {
	if int32(level) < s.minLevel.Load() {
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	select {
	case <-s.closing:
		return
	default:
	}

	ev := event{level: level, component: clampComponent(component), message: message}

	select {
	case s.queue <- ev:
		return
	default:
	}

	if int32(level) < s.dropThreshold.Load() {
		s.drops.Add(1)
		return
	}

	// Important events get a blocking send so they are never silently
	// lost, at the cost of stalling the caller briefly. Racing against
	// Close, the send yields to s.closing instead of reaching a queue
	// that Close may already have closed.
	select {
	case s.queue <- ev:
	case <-s.closing:
	}
}

// Close stops accepting new events and waits for the queue to drain.
// It signals in-flight Emit calls via s.closing and waits for them to
// finish before closing the queue, so no send can race the close.
func (s *Sink) Close() {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.wg.Wait()
		close(s.queue)
	})
	<-s.done
}
