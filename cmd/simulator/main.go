// Command simulator wires every component of the launch vehicle
// simulator together and runs it until SIGINT/SIGTERM: shared vehicle
// state, engine and flight control, the telemetry device and its
// subsystem producer, the command service, and optionally the HTTP
// Inspection API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/launchsim/core/internal/api"
	"github.com/launchsim/core/internal/audit"
	"github.com/launchsim/core/internal/clock"
	"github.com/launchsim/core/internal/command"
	"github.com/launchsim/core/internal/config"
	"github.com/launchsim/core/internal/enginecontrol"
	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/flightcontrol"
	"github.com/launchsim/core/internal/optional"
	"github.com/launchsim/core/internal/scheduler"
	"github.com/launchsim/core/internal/telemetrydevice"
	"github.com/launchsim/core/internal/telemetrysub"
	"github.com/launchsim/core/internal/vehicle"
)

const (
	dryMassKg  = 500_000.0
	fuelMassKg = 1_500_000.0
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulator:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if profilePath := os.Getenv("LAUNCHSIM_MISSION_PROFILE"); profilePath != "" {
		cfg, err = config.LoadMissionProfile(profilePath, cfg)
		if err != nil {
			return fmt.Errorf("load mission profile: %w", err)
		}
	}

	sink := eventsink.New(os.Stdout, 256)
	defer sink.Close()

	auditLogger, err := audit.NewLogger(".")
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer func() { _ = auditLogger.Close() }()
	sink.Emit(eventsink.Info, "MAIN", "audit log: "+auditLogger.GetFilePath())

	c := clock.New()
	state := vehicle.New(dryMassKg, fuelMassKg)
	engines := enginecontrol.New(sink, time.Now().UnixNano())
	flight := flightcontrol.New(state, engines, sink)
	device := telemetrydevice.New(cfg.Telemetry.BufferCapacityBytes)
	defer device.Close()
	telemetry := telemetrysub.New(state, device, sink)
	cmds := command.NewService(state, sink, auditLogger)
	defer cmds.Shutdown()

	// Priorities follow spec.md §4.F: FlightControl=50 > EngineControl=45
	// > Telemetry=40, so the scheduler starts Flight Control's goroutine
	// first and its deadline misses are tagged "FCC" to match the
	// component's own event tag (flightcontrol.go).
	subsystems := []scheduler.Subsystem{
		{
			Name:     "FCC",
			Period:   cfg.Scheduler.FlightControlPeriod,
			Priority: 50,
			Body:     func(ctx context.Context, dt time.Duration) error { return flight.Tick(dt) },
		},
		{
			Name:     "ENGINE",
			Period:   cfg.Scheduler.EngineControlPeriod,
			Priority: 45,
			Body:     func(ctx context.Context, dt time.Duration) error { return engines.Tick(dt) },
		},
		{
			Name:     "TLM",
			Period:   cfg.Scheduler.TelemetryPeriod,
			Priority: 40,
			Body:     func(ctx context.Context, dt time.Duration) error { return telemetry.Tick(dt) },
		},
	}
	subsystems = append(subsystems, optionalSubsystems(cfg, sink)...)

	sched := scheduler.New(c, sink, subsystems, cfg.Scheduler.MaxRestarts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	go func() {
		for range hupCh {
			if err := auditLogger.Rotate(); err != nil {
				sink.Emit(eventsink.Major, "MAIN", "audit log rotate failed: "+err.Error())
				continue
			}
			sink.Emit(eventsink.Info, "MAIN", "audit log rotated: "+auditLogger.GetFilePath())
		}
	}()

	var server *api.Server
	if cfg.API.Enabled {
		server = buildInspectionServer(cfg, state, engines, device, cmds)
		go func() {
			if err := server.Start(cfg.API.ListenAddr); err != nil {
				sink.Emit(eventsink.Major, "API", "inspection api stopped: "+err.Error())
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	select {
	case <-sigCh:
		sink.Emit(eventsink.Info, "MAIN", "shutdown signal received")
		sched.Stop()
	case <-sched.FatalShutdown():
		sink.Emit(eventsink.Critical, "MAIN", "scheduler fatal shutdown, exiting")
	case <-done:
	}

	cancel()
	<-done

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Stop(shutdownCtx)
	}

	return nil
}

// optionalSubsystems registers the non-load-bearing subsystems named
// in SUPPLEMENTED FEATURES, each gated behind its own config toggle
// and disabled by default.
func optionalSubsystems(cfg *config.SimulatorConfig, sink *eventsink.Sink) []scheduler.Subsystem {
	var out []scheduler.Subsystem

	if cfg.Optional.EnvironmentalMonitoring {
		h := optional.NewEnvironmentalMonitoring(sink)
		out = append(out, scheduler.Subsystem{
			Name:     "ENVMON",
			Period:   cfg.Optional.EnvironmentalMonitoringPeriod,
			Priority: 5,
			Body:     func(ctx context.Context, dt time.Duration) error { return h.Tick() },
		})
	}
	if cfg.Optional.GroundSupportInterface {
		h := optional.NewGroundSupportInterface(sink)
		out = append(out, scheduler.Subsystem{
			Name:     "GSE",
			Period:   cfg.Optional.GroundSupportInterfacePeriod,
			Priority: 5,
			Body:     func(ctx context.Context, dt time.Duration) error { return h.Tick() },
		})
	}
	if cfg.Optional.PowerManagement {
		h := optional.NewPowerManagement(sink)
		out = append(out, scheduler.Subsystem{
			Name:     "PWR",
			Period:   cfg.Optional.PowerManagementPeriod,
			Priority: 35,
			Body:     func(ctx context.Context, dt time.Duration) error { return h.Tick() },
		})
	}

	return out
}

func buildInspectionServer(cfg *config.SimulatorConfig, state *vehicle.State, engines *enginecontrol.Controller, device *telemetrydevice.Device, cmds *command.Service) *api.Server {
	return api.NewServer(api.Config{
		State:        state,
		Engines:      engines,
		Device:       device,
		Commands:     cmds,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	})
}
