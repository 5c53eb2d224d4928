// Package scheduler implements the Scheduler / Subsystem Loop
// (component F): a fixed set of periodic subsystems run at priority
// order, with deadline-miss detection and exponential-backoff restarts.
//
// Grounded on the ticker-driven tick loop in
// zenapo-hub-flight-simulator2's internal/sim/engine.go (Run(ctx) select
// over a ticker and a shutdown/command channel), generalized from one
// engine loop into N independently-scheduled subsystem loops, each with
// its own period, priority, and restart bookkeeping.
//
// Go's runtime does not expose portable fixed-priority OS thread
// scheduling, so "priority" here governs goroutine start order only
// (the cooperative, single-runtime realization spec.md §5 explicitly
// permits): subsystems are launched highest-priority first, and all run
// concurrently thereafter.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchsim/core/internal/clock"
	"github.com/launchsim/core/internal/errs"
	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/metrics"
)

// Body is one subsystem's periodic work. dt is the wall time elapsed
// since the previous invocation. A non-nil error is treated as a fatal
// body failure and triggers the restart policy.
type Body func(ctx context.Context, dt time.Duration) error

// Subsystem is one fixed-priority periodic task.
type Subsystem struct {
	Name     string
	Period   time.Duration
	Priority int // higher runs "first"; see package doc for the portability caveat
	Body     Body
}

// DefaultMaxRestarts is R in spec.md §4.F's restart policy.
const DefaultMaxRestarts = 3

// DefaultDeadlineFactor is the default deadline = period * factor.
const DefaultDeadlineFactor = 1.5

// Scheduler runs a fixed set of Subsystems.
type Scheduler struct {
	clock       *clock.Clock
	sink        *eventsink.Sink
	subsystems  []Subsystem
	maxRestarts int

	shutdown atomic.Bool
	fatal    atomic.Bool
	fatalCh  chan struct{}
	wg       sync.WaitGroup

	mu                 sync.Mutex
	deadlineMissCounts map[string]uint64
	restartCounts      map[string]uint64
}

// New creates a Scheduler with the given subsystems, sorted into
// priority order (highest first) at construction time.
func New(c *clock.Clock, sink *eventsink.Sink, subsystems []Subsystem, maxRestarts int) *Scheduler {
	if maxRestarts <= 0 {
		maxRestarts = DefaultMaxRestarts
	}
	ordered := make([]Subsystem, len(subsystems))
	copy(ordered, subsystems)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })

	return &Scheduler{
		clock:              c,
		sink:               sink,
		subsystems:         ordered,
		maxRestarts:        maxRestarts,
		fatalCh:            make(chan struct{}),
		deadlineMissCounts: make(map[string]uint64),
		restartCounts:      make(map[string]uint64),
	}
}

// Run launches every subsystem and blocks until ctx is done, Stop is
// called, or a subsystem exhausts its restart budget (FatalShutdown).
func (s *Scheduler) Run(ctx context.Context) {
	for _, ss := range s.subsystems {
		s.wg.Add(1)
		go s.runSubsystem(ctx, ss)
	}
	s.wg.Wait()
}

// Stop raises the shutdown flag; every subsystem observes it within one
// of its periods (spec.md §5).
func (s *Scheduler) Stop() {
	s.shutdown.Store(true)
}

// FatalShutdown is closed if a subsystem exhausts its restart budget.
func (s *Scheduler) FatalShutdown() <-chan struct{} {
	return s.fatalCh
}

// DeadlineMissCount returns the number of deadline misses recorded for
// a named subsystem so far.
func (s *Scheduler) DeadlineMissCount(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadlineMissCounts[name]
}

// RestartCount returns the number of restarts a named subsystem has
// undergone so far.
func (s *Scheduler) RestartCount(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restartCounts[name]
}

func (s *Scheduler) recordDeadlineMiss(name string) {
	s.mu.Lock()
	s.deadlineMissCounts[name]++
	s.mu.Unlock()
	metrics.IncDeadlineMiss(name)
}

func (s *Scheduler) recordRestart(name string) {
	s.mu.Lock()
	s.restartCounts[name]++
	s.mu.Unlock()
}

func (s *Scheduler) runSubsystem(ctx context.Context, ss Subsystem) {
	defer s.wg.Done()

	restartCount := 0
	for {
		if s.shutdown.Load() || s.fatal.Load() {
			return
		}
		err := s.runLoop(ctx, ss)
		if err == nil {
			return
		}

		restartCount++
		s.recordRestart(ss.Name)
		s.emit(eventsink.Major, ss.Name, fmt.Sprintf("restarting after body failure: %v", err))

		if restartCount > s.maxRestarts {
			s.triggerFatalShutdown(ss.Name)
			return
		}

		backoff := time.Duration(1<<(restartCount-1)) * time.Second
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
	}
}

// runLoop runs one subsystem's period/body/deadline cycle until it
// observes shutdown, ctx cancellation, or a body failure.
func (s *Scheduler) runLoop(ctx context.Context, ss Subsystem) error {
	deadline := time.Duration(float64(ss.Period) * DefaultDeadlineFactor)
	last := s.clock.Now()

	for {
		if s.shutdown.Load() || s.fatal.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := s.clock.Now()
		dt := start.Sub(last)
		last = start

		bodyErr := s.invokeBody(ctx, ss.Body, dt)

		elapsed := s.clock.Now().Sub(start)
		if elapsed > deadline {
			s.recordDeadlineMiss(ss.Name)
			s.emit(eventsink.Warn, ss.Name, fmt.Sprintf("deadline miss: took %v, budget %v", elapsed, deadline))
		}

		if bodyErr != nil {
			return bodyErr
		}

		if err := s.clock.SleepUntil(ctx, start.Add(ss.Period)); err != nil {
			return nil
		}
	}
}

func (s *Scheduler) invokeBody(ctx context.Context, body Body, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", errs.ErrBodyFailure, r)
		}
	}()
	return body(ctx, dt)
}

func (s *Scheduler) triggerFatalShutdown(name string) {
	if s.fatal.CompareAndSwap(false, true) {
		s.emit(eventsink.Critical, "SCHED", fmt.Sprintf("%s: %s exceeded restart budget", errs.ErrFatalShutdown, name))
		close(s.fatalCh)
	}
}

func (s *Scheduler) emit(level eventsink.Level, component, message string) {
	if s.sink != nil {
		s.sink.Emit(level, component, message)
	}
}
