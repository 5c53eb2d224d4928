package config

import (
	"testing"
	"time"
)

func TestValidateRejectsNilConfig(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestValidateRejectsNonPositivePeriods(t *testing.T) {
	cfg := Baseline()
	cfg.Scheduler.FlightControlPeriod = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for zero flight control period")
	}
}

func TestValidateRejectsDeadlineFactorBelowOne(t *testing.T) {
	cfg := Baseline()
	cfg.Scheduler.DeadlineFactor = 0.9
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for deadline factor below 1.0")
	}
}

func TestValidateRejectsBackoffMaxBelowInitial(t *testing.T) {
	cfg := Baseline()
	cfg.Scheduler.RestartBackoffMax = cfg.Scheduler.RestartBackoffInitial / 2
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error when backoff max is below initial")
	}
}

func TestValidateRejectsZeroTelemetryBuffer(t *testing.T) {
	cfg := Baseline()
	cfg.Telemetry.BufferCapacityBytes = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for zero telemetry buffer capacity")
	}
}

func TestValidateSkipsAPIChecksWhenDisabled(t *testing.T) {
	cfg := Baseline()
	cfg.API.Enabled = false
	cfg.API.ListenAddr = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected disabled api to skip its own checks, got: %v", err)
	}
}

func TestValidateRejectsEnabledAPIWithNoListenAddr(t *testing.T) {
	cfg := Baseline()
	cfg.API.Enabled = true
	cfg.API.ListenAddr = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for enabled api with empty listen address")
	}
}

func TestValidateRejectsOptionalSubsystemEnabledWithZeroPeriod(t *testing.T) {
	cfg := Baseline()
	cfg.Optional.PowerManagement = true
	cfg.Optional.PowerManagementPeriod = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for enabled power management with zero period")
	}
}

func TestValidateSchedulerConstraintsRejectsExtremeDeadlineFactor(t *testing.T) {
	cfg := Baseline()
	cfg.Scheduler.DeadlineFactor = 9.0
	if err := ValidateSchedulerConstraints(&cfg.Scheduler); err == nil {
		t.Fatalf("expected error for an unusually high deadline factor")
	}
}

func TestValidateCompleteRunsBothLayers(t *testing.T) {
	cfg := Baseline()
	if err := ValidateComplete(cfg); err != nil {
		t.Fatalf("expected baseline to pass complete validation, got: %v", err)
	}

	cfg.Scheduler.EngineControlPeriod = 10 * time.Second
	if err := ValidateComplete(cfg); err == nil {
		t.Fatalf("expected complete validation to reject an out-of-range engine control period")
	}
}
