package config

import (
	"testing"
	"time"
)

func TestBaselineIsValid(t *testing.T) {
	cfg := Baseline()
	if err := Validate(cfg); err != nil {
		t.Fatalf("baseline config must validate, got: %v", err)
	}
}

func TestBaselinePriorityOrdering(t *testing.T) {
	cfg := Baseline()
	s := cfg.Scheduler
	if s.FlightControlPeriod >= s.EngineControlPeriod {
		t.Errorf("flight control period %v should be shorter than engine control period %v",
			s.FlightControlPeriod, s.EngineControlPeriod)
	}
	if s.EngineControlPeriod >= s.TelemetryPeriod {
		t.Errorf("engine control period %v should be shorter than telemetry period %v",
			s.EngineControlPeriod, s.TelemetryPeriod)
	}
}

func TestMissionProfileApplyOverridesOnlySetFields(t *testing.T) {
	cfg := Baseline()
	originalEngine := cfg.Scheduler.EngineControlPeriod

	d := 30 * time.Millisecond
	profile := &MissionProfile{FlightControlPeriod: &d}

	merged := profile.Apply(cfg)
	if merged.Scheduler.FlightControlPeriod != d {
		t.Errorf("expected flight control period overridden to %v, got %v", d, merged.Scheduler.FlightControlPeriod)
	}
	if merged.Scheduler.EngineControlPeriod != originalEngine {
		t.Errorf("expected engine control period untouched, got %v", merged.Scheduler.EngineControlPeriod)
	}
}

func TestMissionProfileApplyNilIsNoOp(t *testing.T) {
	cfg := Baseline()
	var profile *MissionProfile
	merged := profile.Apply(cfg)
	if merged != cfg {
		t.Fatalf("expected Apply on a nil profile to return cfg unchanged")
	}
}

func TestMissionProfileApplyTogglesOptionalSubsystems(t *testing.T) {
	cfg := Baseline()
	enable := true
	profile := &MissionProfile{EnableEnvironmentalMonitoring: &enable}
	merged := profile.Apply(cfg)
	if !merged.Optional.EnvironmentalMonitoring {
		t.Fatalf("expected environmental monitoring enabled after profile apply")
	}
	if merged.Optional.GroundSupportInterface {
		t.Fatalf("expected ground support interface to remain disabled")
	}
}
