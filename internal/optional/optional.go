// Package optional implements the three ground-segment subsystems
// named in sls_config.h's DEFAULT_SUBSYSTEM_CONFIGS but omitted from
// spec.md's §4.F scheduler table: Environmental Monitoring, Ground
// Support Interface, and Power Management. None of them affect any
// testable property or scenario S1-S6; each is disabled by default and,
// when enabled, does nothing beyond emit a heartbeat Event so an
// operator can see it is alive.
package optional

import (
	"fmt"

	"github.com/launchsim/core/internal/eventsink"
)

// Heartbeat is a minimal periodic subsystem body: it emits one Info
// event per tick and nothing else, matching sls_config.h's
// description of these three subsystems as placeholders with no
// bearing on flight-critical behavior.
type Heartbeat struct {
	name string
	sink *eventsink.Sink
	n    uint64
}

// NewEnvironmentalMonitoring returns the Environmental Monitoring
// heartbeat subsystem (5 Hz per sls_config.h, priority Normal).
func NewEnvironmentalMonitoring(sink *eventsink.Sink) *Heartbeat {
	return &Heartbeat{name: "ENVMON", sink: sink}
}

// NewGroundSupportInterface returns the Ground Support Interface
// heartbeat subsystem (1 Hz per sls_config.h, priority Normal).
func NewGroundSupportInterface(sink *eventsink.Sink) *Heartbeat {
	return &Heartbeat{name: "GSE", sink: sink}
}

// NewPowerManagement returns the Power Management heartbeat subsystem
// (10 Hz per sls_config.h, priority High).
func NewPowerManagement(sink *eventsink.Sink) *Heartbeat {
	return &Heartbeat{name: "PWR", sink: sink}
}

// Tick emits one heartbeat Event. It never returns an error: these
// subsystems have no failure mode to report.
func (h *Heartbeat) Tick() error {
	h.n++
	if h.sink != nil {
		h.sink.Emit(eventsink.Info, h.name, fmt.Sprintf("heartbeat #%d", h.n))
	}
	return nil
}
