// Package command implements the Command Service (component D): a named
// synchronous request/reply endpoint ("sls_fcc") that mutates the Shared
// Vehicle State's command-writer fields and always replies.
//
// Grounded on the validate -> apply -> audit -> publish pipeline in
// CarlosSprekelsen-radioContainer/rcc's internal/command/orchestrator.go
// (SetPower/SetChannel/etc each follow this shape); generalized from
// per-radio adapter calls to direct, allocation-free mutation of the
// Shared Vehicle State, and from per-call context timeouts to a single
// receiver goroutine that serializes all commands, matching spec.md
// §4.D's "only one command is processed at a time" contract.
package command

import (
	"context"
	"time"

	"github.com/launchsim/core/internal/audit"
	"github.com/launchsim/core/internal/errs"
	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/metrics"
	"github.com/launchsim/core/internal/vehicle"
)

// Type is the tag of an OperatorCommand.
type Type int

const (
	Status Type = iota
	Go
	NoGo
	Abort
	Throttle
	// Pulse is reserved (wire code 100); it carries no reply.
	Pulse
)

// OperatorCommand is one request sent to the Command Service.
type OperatorCommand struct {
	Type  Type
	Value int // meaningful only for Throttle
}

// Reply is returned for every processed command except Pulse.
type Reply struct {
	Ok        bool
	MissionGo bool
	Throttle  int
}

type request struct {
	cmd     OperatorCommand
	replyCh chan Reply
}

// Service is the Command Service receiver. One goroutine owns the
// endpoint and the state record it mutates.
type Service struct {
	state *vehicle.State
	sink  *eventsink.Sink
	audit *audit.Logger

	reqCh   chan request
	closing chan struct{}
	done    chan struct{}
}

// NewService starts the Command Service receiver goroutine.
func NewService(state *vehicle.State, sink *eventsink.Sink, auditLogger *audit.Logger) *Service {
	s := &Service{
		state:   state,
		sink:    sink,
		audit:   auditLogger,
		reqCh:   make(chan request),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Service) run() {
	defer close(s.done)
	for {
		select {
		case req := <-s.reqCh:
			if req.cmd.Type == Pulse {
				// A pulse is a scheduler tick multiplexed on the same
				// endpoint; it mutates nothing and never replies.
				continue
			}
			reply := s.apply(req.cmd)
			req.replyCh <- reply
		case <-s.closing:
			return
		}
	}
}

func (s *Service) apply(cmd OperatorCommand) Reply {
	start := time.Now()
	defer func() { metrics.ObserveCommandDuration(time.Since(start)) }()

	switch cmd.Type {
	case Status:
		// no mutation
	case Go:
		s.state.SetMissionGo(true)
		s.state.SetAbortRequested(false)
	case NoGo:
		s.state.SetMissionGo(false)
	case Abort:
		s.state.SetAbortRequested(true)
		s.state.SetMissionGo(false)
	case Throttle:
		s.state.SetThrottle(cmd.Value)
	}

	reply := Reply{Ok: true, MissionGo: s.state.MissionGo(), Throttle: s.state.Throttle()}

	if s.audit != nil {
		s.audit.LogCommand(context.Background(), typeName(cmd.Type), cmd.Value, reply.MissionGo, reply.Throttle, s.state.MissionTimeS(), "ok")
	}
	if s.sink != nil {
		s.sink.Emit(eventsink.Info, "FCC", "processed command "+typeName(cmd.Type))
	}
	return reply
}

func typeName(t Type) string {
	switch t {
	case Status:
		return "Status"
	case Go:
		return "Go"
	case NoGo:
		return "NoGo"
	case Abort:
		return "Abort"
	case Throttle:
		return "Throttle"
	case Pulse:
		return "Pulse"
	default:
		return "Unknown"
	}
}

// Send submits one command and waits for its reply, or for ctx to be
// done, or for the service to shut down. On transport-level failure it
// returns errs.ErrCommandFailed; after shutdown it returns
// errs.ErrShutdown — either is acceptable per spec.md scenario S6.
func (s *Service) Send(ctx context.Context, cmd OperatorCommand) (Reply, error) {
	if cmd.Type == Pulse {
		select {
		case s.reqCh <- request{cmd: cmd, replyCh: nil}:
		case <-s.closing:
		case <-s.done:
		case <-ctx.Done():
		}
		return Reply{}, nil
	}

	replyCh := make(chan Reply, 1)
	select {
	case s.reqCh <- request{cmd: cmd, replyCh: replyCh}:
	case <-s.closing:
		return Reply{}, errs.ErrShutdown
	case <-s.done:
		return Reply{}, errs.ErrShutdown
	case <-ctx.Done():
		return Reply{}, errs.ErrCommandFailed
	}

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-s.done:
		return Reply{}, errs.ErrShutdown
	case <-ctx.Done():
		return Reply{}, errs.ErrCommandFailed
	}
}

// Shutdown stops accepting new commands; in-flight and subsequent Send
// calls observe errs.ErrShutdown within one period. It signals the
// receiver goroutine through a dedicated channel rather than closing
// reqCh, so a concurrent Send can never select a send on a closed
// channel.
func (s *Service) Shutdown() {
	select {
	case <-s.closing:
	default:
		close(s.closing)
	}
}

// WaitClosed blocks until the receiver goroutine has exited.
func (s *Service) WaitClosed(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
