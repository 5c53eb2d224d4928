package config

import (
	"fmt"
	"time"
)

// Validate enforces the structural constraints on a SimulatorConfig:
// every period positive, deadline factor and restart policy sane,
// buffer sizes nonzero, and the inspection API's listen settings
// internally consistent when enabled.
func Validate(cfg *SimulatorConfig) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateScheduler(&cfg.Scheduler); err != nil {
		return fmt.Errorf("scheduler validation failed: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry validation failed: %w", err)
	}
	if err := validateAPI(&cfg.API); err != nil {
		return fmt.Errorf("inspection api validation failed: %w", err)
	}
	if err := validateOptional(&cfg.Optional); err != nil {
		return fmt.Errorf("optional subsystem validation failed: %w", err)
	}

	return nil
}

func validateScheduler(s *SchedulerConfig) error {
	if s.EngineControlPeriod <= 0 {
		return fmt.Errorf("engine control period must be positive, got %v", s.EngineControlPeriod)
	}
	if s.FlightControlPeriod <= 0 {
		return fmt.Errorf("flight control period must be positive, got %v", s.FlightControlPeriod)
	}
	if s.CommandServicePeriod <= 0 {
		return fmt.Errorf("command service period must be positive, got %v", s.CommandServicePeriod)
	}
	if s.TelemetryPeriod <= 0 {
		return fmt.Errorf("telemetry period must be positive, got %v", s.TelemetryPeriod)
	}
	if s.DeadlineFactor < 1.0 {
		return fmt.Errorf("deadline factor must be >= 1.0, got %v", s.DeadlineFactor)
	}
	if s.MaxRestarts < 0 {
		return fmt.Errorf("max restarts must be non-negative, got %d", s.MaxRestarts)
	}
	if s.RestartBackoffInitial <= 0 {
		return fmt.Errorf("restart backoff initial must be positive, got %v", s.RestartBackoffInitial)
	}
	if s.RestartBackoffMax < s.RestartBackoffInitial {
		return fmt.Errorf("restart backoff max %v must be >= initial %v", s.RestartBackoffMax, s.RestartBackoffInitial)
	}
	return nil
}

func validateTelemetry(t *TelemetryConfig) error {
	if t.BufferCapacityBytes <= 0 {
		return fmt.Errorf("telemetry buffer capacity must be positive, got %d", t.BufferCapacityBytes)
	}
	return nil
}

func validateAPI(a *InspectionAPIConfig) error {
	if !a.Enabled {
		return nil
	}
	if a.ListenAddr == "" {
		return fmt.Errorf("inspection api listen address must be set when enabled")
	}
	if a.ReadTimeout <= 0 || a.WriteTimeout <= 0 || a.IdleTimeout <= 0 {
		return fmt.Errorf("inspection api timeouts must be positive")
	}
	return nil
}

func validateOptional(o *OptionalSubsystemsConfig) error {
	if o.EnvironmentalMonitoring && o.EnvironmentalMonitoringPeriod <= 0 {
		return fmt.Errorf("environmental monitoring period must be positive when enabled")
	}
	if o.GroundSupportInterface && o.GroundSupportInterfacePeriod <= 0 {
		return fmt.Errorf("ground support interface period must be positive when enabled")
	}
	if o.PowerManagement && o.PowerManagementPeriod <= 0 {
		return fmt.Errorf("power management period must be positive when enabled")
	}
	return nil
}

// ValidateSchedulerConstraints checks additional, non-fatal best
// practice bounds: deadline factors that are too aggressive, and
// periods outside a sane soft-real-time range.
func ValidateSchedulerConstraints(s *SchedulerConfig) error {
	if s.DeadlineFactor > 5.0 {
		return fmt.Errorf("deadline factor %v is unusually high (max 5.0)", s.DeadlineFactor)
	}

	minPeriod := 1 * time.Millisecond
	maxPeriod := 5 * time.Second

	if s.EngineControlPeriod < minPeriod || s.EngineControlPeriod > maxPeriod {
		return fmt.Errorf("engine control period %v is outside reasonable range [%v, %v]",
			s.EngineControlPeriod, minPeriod, maxPeriod)
	}
	if s.FlightControlPeriod < minPeriod || s.FlightControlPeriod > maxPeriod {
		return fmt.Errorf("flight control period %v is outside reasonable range [%v, %v]",
			s.FlightControlPeriod, minPeriod, maxPeriod)
	}
	if s.TelemetryPeriod < minPeriod || s.TelemetryPeriod > maxPeriod {
		return fmt.Errorf("telemetry period %v is outside reasonable range [%v, %v]",
			s.TelemetryPeriod, minPeriod, maxPeriod)
	}

	return nil
}

// ValidateComplete runs Validate plus ValidateSchedulerConstraints.
func ValidateComplete(cfg *SimulatorConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	return ValidateSchedulerConstraints(&cfg.Scheduler)
}
