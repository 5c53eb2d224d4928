// Package config assembles the launch simulator's runtime configuration.
//
// Load() layers a hardcoded baseline with environment variable
// overrides and an optional config.json file merge, the same
// baseline-then-env-then-file pattern used across the rest of the
// ambient stack. LoadMissionProfile additionally accepts a YAML
// mission profile (gopkg.in/yaml.v3) as an alternate encoding for
// operators who prefer editing scheduler periods and optional
// subsystem toggles outside JSON.
package config
