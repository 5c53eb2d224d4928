// Package config assembles the simulator's runtime configuration:
// hardcoded baseline, environment variable overrides, an optional
// config.json merge, and an optional YAML mission profile.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load merges Baseline() + env overrides (LAUNCHSIM_*) + optional
// config.json, then validates the result.
func Load() (*SimulatorConfig, error) {
	cfg := Baseline()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if _, err := os.Stat("config.json"); err == nil {
		fileConfig, err := loadFromFile("config.json")
		if err != nil {
			return nil, fmt.Errorf("failed to load config.json: %w", err)
		}
		cfg = mergeConfigs(cfg, fileConfig)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadMissionProfile reads a YAML mission profile and applies it on
// top of cfg, returning the combined configuration. Operators who
// prefer YAML scheduler-period/subsystem overrides to editing config.json use
// this instead of (or in addition to) Load's JSON merge.
func LoadMissionProfile(path string, cfg *SimulatorConfig) (*SimulatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission profile %s: %w", path, err)
	}

	var profile MissionProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse mission profile %s: %w", path, err)
	}

	merged := profile.Apply(cfg)
	if err := Validate(merged); err != nil {
		return nil, fmt.Errorf("mission profile validation failed: %w", err)
	}
	return merged, nil
}

// applyEnvOverrides applies LAUNCHSIM_* environment variables to cfg.
func applyEnvOverrides(cfg *SimulatorConfig) error {
	if val := os.Getenv("LAUNCHSIM_ENGINE_CONTROL_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.EngineControlPeriod = d
		}
	}
	if val := os.Getenv("LAUNCHSIM_FLIGHT_CONTROL_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.FlightControlPeriod = d
		}
	}
	if val := os.Getenv("LAUNCHSIM_COMMAND_SERVICE_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.CommandServicePeriod = d
		}
	}
	if val := os.Getenv("LAUNCHSIM_TELEMETRY_PERIOD"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.TelemetryPeriod = d
		}
	}
	if val := os.Getenv("LAUNCHSIM_DEADLINE_FACTOR"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Scheduler.DeadlineFactor = f
		}
	}
	if val := os.Getenv("LAUNCHSIM_MAX_RESTARTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Scheduler.MaxRestarts = n
		}
	}

	if val := os.Getenv("LAUNCHSIM_TELEMETRY_BUFFER_BYTES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Telemetry.BufferCapacityBytes = n
		}
	}

	if val := os.Getenv("LAUNCHSIM_API_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.API.Enabled = b
		}
	}
	if val := os.Getenv("LAUNCHSIM_API_ADDR"); val != "" {
		cfg.API.ListenAddr = val
	}

	if val := os.Getenv("LAUNCHSIM_ENABLE_ENVIRONMENTAL_MONITORING"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Optional.EnvironmentalMonitoring = b
		}
	}
	if val := os.Getenv("LAUNCHSIM_ENABLE_GROUND_SUPPORT_INTERFACE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Optional.GroundSupportInterface = b
		}
	}
	if val := os.Getenv("LAUNCHSIM_ENABLE_POWER_MANAGEMENT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Optional.PowerManagement = b
		}
	}

	if val := os.Getenv("LAUNCHSIM_AUDIT_PATH"); val != "" {
		cfg.AuditPath = val
	}

	return nil
}

// loadFromFile loads a SimulatorConfig from a JSON file. Zero-valued
// fields are treated as "not set" by mergeConfigs.
func loadFromFile(filename string) (*SimulatorConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var cfg SimulatorConfig
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays file's non-zero fields onto current, returning
// a new SimulatorConfig. File values take precedence.
func mergeConfigs(current, file *SimulatorConfig) *SimulatorConfig {
	merged := *current

	if file.Scheduler.EngineControlPeriod != 0 {
		merged.Scheduler.EngineControlPeriod = file.Scheduler.EngineControlPeriod
	}
	if file.Scheduler.FlightControlPeriod != 0 {
		merged.Scheduler.FlightControlPeriod = file.Scheduler.FlightControlPeriod
	}
	if file.Scheduler.CommandServicePeriod != 0 {
		merged.Scheduler.CommandServicePeriod = file.Scheduler.CommandServicePeriod
	}
	if file.Scheduler.TelemetryPeriod != 0 {
		merged.Scheduler.TelemetryPeriod = file.Scheduler.TelemetryPeriod
	}
	if file.Scheduler.DeadlineFactor != 0 {
		merged.Scheduler.DeadlineFactor = file.Scheduler.DeadlineFactor
	}
	if file.Scheduler.MaxRestarts != 0 {
		merged.Scheduler.MaxRestarts = file.Scheduler.MaxRestarts
	}
	if file.Scheduler.RestartBackoffInitial != 0 {
		merged.Scheduler.RestartBackoffInitial = file.Scheduler.RestartBackoffInitial
	}
	if file.Scheduler.RestartBackoffMax != 0 {
		merged.Scheduler.RestartBackoffMax = file.Scheduler.RestartBackoffMax
	}

	if file.Telemetry.BufferCapacityBytes != 0 {
		merged.Telemetry.BufferCapacityBytes = file.Telemetry.BufferCapacityBytes
	}

	if file.API.ListenAddr != "" {
		merged.API.ListenAddr = file.API.ListenAddr
	}
	if file.API.Enabled {
		merged.API.Enabled = true
	}
	if file.API.ReadTimeout != 0 {
		merged.API.ReadTimeout = file.API.ReadTimeout
	}
	if file.API.WriteTimeout != 0 {
		merged.API.WriteTimeout = file.API.WriteTimeout
	}
	if file.API.IdleTimeout != 0 {
		merged.API.IdleTimeout = file.API.IdleTimeout
	}

	if file.Optional.EnvironmentalMonitoring {
		merged.Optional.EnvironmentalMonitoring = true
	}
	if file.Optional.GroundSupportInterface {
		merged.Optional.GroundSupportInterface = true
	}
	if file.Optional.PowerManagement {
		merged.Optional.PowerManagement = true
	}

	if file.AuditPath != "" {
		merged.AuditPath = file.AuditPath
	}

	return &merged
}

// GetEnvVar returns the value of an environment variable with a default.
func GetEnvVar(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration returns the value of an environment variable as a duration with a default.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetEnvFloat returns the value of an environment variable as a float64 with a default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// GetEnvInt returns the value of an environment variable as an int with a default.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
