package config

import "time"

// SchedulerConfig carries the period and restart/deadline tuning for
// every subsystem the Scheduler drives, ordered fastest-period first
// to match the priority ordering the run loop ticks in: Flight
// Control, Engine Control, Command Service, Telemetry Subsystem.
type SchedulerConfig struct {
	FlightControlPeriod  time.Duration
	EngineControlPeriod  time.Duration
	CommandServicePeriod time.Duration
	TelemetryPeriod      time.Duration

	DeadlineFactor        float64
	MaxRestarts           int
	RestartBackoffInitial time.Duration
	RestartBackoffMax     time.Duration
}

// TelemetryConfig sizes the ring-buffer Telemetry Device.
type TelemetryConfig struct {
	BufferCapacityBytes int
}

// InspectionAPIConfig controls the optional HTTP Inspection API
// (component K). Scenarios S1-S6 never require it to be enabled.
type InspectionAPIConfig struct {
	Enabled      bool
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// OptionalSubsystemsConfig toggles the non-load-bearing subsystems a
// full ground segment may run alongside the six scenario-critical
// ones. All default to disabled.
type OptionalSubsystemsConfig struct {
	EnvironmentalMonitoring       bool
	EnvironmentalMonitoringPeriod time.Duration
	GroundSupportInterface        bool
	GroundSupportInterfacePeriod  time.Duration
	PowerManagement               bool
	PowerManagementPeriod         time.Duration
}

// SimulatorConfig is the root configuration object for cmd/simulator.
type SimulatorConfig struct {
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
	API       InspectionAPIConfig
	Optional  OptionalSubsystemsConfig
	AuditPath string
}

// Baseline returns the hardcoded default configuration: periods drawn
// from the priority ordering, a conservative deadline factor, and
// every optional surface off.
func Baseline() *SimulatorConfig {
	return &SimulatorConfig{
		Scheduler: SchedulerConfig{
			FlightControlPeriod:   10 * time.Millisecond,  // 100 Hz
			EngineControlPeriod:   20 * time.Millisecond,  // 50 Hz
			CommandServicePeriod:  50 * time.Millisecond,  // 20 Hz poll fallback; normally event-driven
			TelemetryPeriod:       100 * time.Millisecond, // 10 Hz
			DeadlineFactor:        1.5,
			MaxRestarts:           5,
			RestartBackoffInitial: 100 * time.Millisecond,
			RestartBackoffMax:     10 * time.Second,
		},
		Telemetry: TelemetryConfig{
			BufferCapacityBytes: 8192,
		},
		API: InspectionAPIConfig{
			Enabled:      false,
			ListenAddr:   ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Optional: OptionalSubsystemsConfig{
			EnvironmentalMonitoringPeriod: 200 * time.Millisecond, // 5 Hz
			GroundSupportInterfacePeriod:  1 * time.Second,        // 1 Hz
			PowerManagementPeriod:         100 * time.Millisecond, // 10 Hz
		},
		AuditPath: "audit.jsonl",
	}
}

// MissionProfile carries operator overrides to the scheduler's periods
// and the optional-subsystem toggles, loadable from YAML as an
// alternate encoding to the JSON config-file merge in Load.
type MissionProfile struct {
	FlightControlPeriod *time.Duration `yaml:"flightControlPeriod,omitempty"`
	EngineControlPeriod *time.Duration `yaml:"engineControlPeriod,omitempty"`
	TelemetryPeriod     *time.Duration `yaml:"telemetryPeriod,omitempty"`

	EnableEnvironmentalMonitoring *bool `yaml:"enableEnvironmentalMonitoring,omitempty"`
	EnableGroundSupportInterface  *bool `yaml:"enableGroundSupportInterface,omitempty"`
	EnablePowerManagement         *bool `yaml:"enablePowerManagement,omitempty"`

	InspectionAPIEnabled *bool   `yaml:"inspectionApiEnabled,omitempty"`
	InspectionAPIAddr    *string `yaml:"inspectionApiAddr,omitempty"`
}

// Apply overlays the non-nil fields of p onto cfg, returning cfg.
func (p *MissionProfile) Apply(cfg *SimulatorConfig) *SimulatorConfig {
	if p == nil {
		return cfg
	}
	if p.FlightControlPeriod != nil {
		cfg.Scheduler.FlightControlPeriod = *p.FlightControlPeriod
	}
	if p.EngineControlPeriod != nil {
		cfg.Scheduler.EngineControlPeriod = *p.EngineControlPeriod
	}
	if p.TelemetryPeriod != nil {
		cfg.Scheduler.TelemetryPeriod = *p.TelemetryPeriod
	}
	if p.EnableEnvironmentalMonitoring != nil {
		cfg.Optional.EnvironmentalMonitoring = *p.EnableEnvironmentalMonitoring
	}
	if p.EnableGroundSupportInterface != nil {
		cfg.Optional.GroundSupportInterface = *p.EnableGroundSupportInterface
	}
	if p.EnablePowerManagement != nil {
		cfg.Optional.PowerManagement = *p.EnablePowerManagement
	}
	if p.InspectionAPIEnabled != nil {
		cfg.API.Enabled = *p.InspectionAPIEnabled
	}
	if p.InspectionAPIAddr != nil {
		cfg.API.ListenAddr = *p.InspectionAPIAddr
	}
	return cfg
}
