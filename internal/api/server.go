package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/launchsim/core/internal/command"
	"github.com/launchsim/core/internal/enginecontrol"
	"github.com/launchsim/core/internal/metrics"
	"github.com/launchsim/core/internal/telemetrydevice"
	"github.com/launchsim/core/internal/vehicle"
)

// Server is the HTTP Inspection API server. It is entirely optional:
// scenarios S1-S6 never require it to be running.
type Server struct {
	httpServer *http.Server

	state   *vehicle.State
	engines *enginecontrol.Controller
	device  *telemetrydevice.Device
	cmds    *command.Service

	startTime time.Time

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// Config bundles the Server's component dependencies.
type Config struct {
	State        *vehicle.State
	Engines      *enginecontrol.Controller
	Device       *telemetrydevice.Device
	Commands     *command.Service
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates an Inspection API Server from Config.
func NewServer(cfg Config) *Server {
	readTimeout, writeTimeout, idleTimeout := cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout
	if readTimeout == 0 {
		readTimeout = 10 * time.Second
	}
	if writeTimeout == 0 {
		// The SSE stream route holds its own connection open indefinitely
		// and clears this timeout per-connection via ResponseController.
		writeTimeout = 10 * time.Second
	}
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}
	return &Server{
		state:        cfg.State,
		engines:      cfg.Engines,
		device:       cfg.Device,
		cmds:         cfg.Commands,
		startTime:    time.Now(),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		idleTimeout:  idleTimeout,
	}
}

// Start runs the HTTP server on addr until it is stopped. Blocks.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      metrics.Middleware(mux),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("inspection api: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down within ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspection api shutdown: %w", err)
	}
	return nil
}
