// Package faults implements the FaultKind taxonomy and its fixed mapping
// to Event Sink severity levels (spec.md §3, §4.H).
//
// Grounded on the fixed lookup-table style of
// CarlosSprekelsen-radioContainer/rcc's internal/adapter/errors.go
// (VendorErrorMappings, a table mapping raw vendor tokens to a small
// closed set of normalized codes) — here the table maps each FaultKind
// to its severity instead of a vendor string to an adapter error code.
package faults

import "github.com/launchsim/core/internal/eventsink"

// Kind enumerates the physical/operational faults the simulator detects.
type Kind int

const (
	ChamberPressureHigh Kind = iota
	ChamberPressureLow
	TurbopumpUnderspeed
	NozzleOverTemp
	SensorInjected
	WatchdogTimeout
	DeadlineMiss
)

func (k Kind) String() string {
	switch k {
	case ChamberPressureHigh:
		return "ChamberPressureHigh"
	case ChamberPressureLow:
		return "ChamberPressureLow"
	case TurbopumpUnderspeed:
		return "TurbopumpUnderspeed"
	case NozzleOverTemp:
		return "NozzleOverTemp"
	case SensorInjected:
		return "SensorInjected"
	case WatchdogTimeout:
		return "WatchdogTimeout"
	case DeadlineMiss:
		return "DeadlineMiss"
	default:
		return "Unknown"
	}
}

// severityTable is the fixed Kind -> Event Sink severity mapping required
// by spec.md §3 ("mapping fixed (§4.G/H)").
var severityTable = map[Kind]eventsink.Level{
	ChamberPressureHigh: eventsink.Critical,
	ChamberPressureLow:  eventsink.Critical,
	TurbopumpUnderspeed: eventsink.Critical,
	NozzleOverTemp:      eventsink.Critical,
	SensorInjected:      eventsink.Critical,
	WatchdogTimeout:     eventsink.Major,
	DeadlineMiss:        eventsink.Warn,
}

// Severity returns the fixed severity level for a FaultKind.
func Severity(k Kind) eventsink.Level {
	if lvl, ok := severityTable[k]; ok {
		return lvl
	}
	return eventsink.Major
}

// Sticky reports whether a fault, once raised, requires an external Reset
// to clear (spec.md §3: "Fault is sticky until an external Reset command").
func Sticky(k Kind) bool {
	switch k {
	case ChamberPressureHigh, ChamberPressureLow, TurbopumpUnderspeed, NozzleOverTemp, SensorInjected:
		return true
	default:
		return false
	}
}
