// Package vehicle implements the Shared Vehicle State (component E): a
// small process-global record with one designated writer per field group
// and lock-free, allocation-free reads and writes.
//
// Grounded on spec.md §9's design note — "consider an interior-mutable
// wrapper of per-field atomics rather than a single big lock" — and on
// the mission_phase_t / system_state_t enumerations in
// original_source/src/common/sls_types.h.
package vehicle

import (
	"math"
	"sync/atomic"
	"time"
)

// MissionPhase is the top-level vehicle lifecycle state.
type MissionPhase int32

const (
	PreLaunch MissionPhase = iota
	Countdown
	Ignition
	Liftoff
	Ascent
	StageSeparation
	OrbitInsertion
	MissionComplete
	Abort
)

func (p MissionPhase) String() string {
	switch p {
	case PreLaunch:
		return "PreLaunch"
	case Countdown:
		return "Countdown"
	case Ignition:
		return "Ignition"
	case Liftoff:
		return "Liftoff"
	case Ascent:
		return "Ascent"
	case StageSeparation:
		return "StageSeparation"
	case OrbitInsertion:
		return "OrbitInsertion"
	case MissionComplete:
		return "MissionComplete"
	case Abort:
		return "Abort"
	default:
		return "Unknown"
	}
}

// SystemState is the overall process health state, orthogonal to
// MissionPhase (original_source's system_state_t).
type SystemState int32

const (
	Offline SystemState = iota
	Initializing
	Standby
	Active
	Fault
	Emergency
	Shutdown
)

func (s SystemState) String() string {
	switch s {
	case Offline:
		return "Offline"
	case Initializing:
		return "Initializing"
	case Standby:
		return "Standby"
	case Active:
		return "Active"
	case Fault:
		return "Fault"
	case Emergency:
		return "Emergency"
	case Shutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}

// State is the process-global Shared Vehicle State. Zero value is ready
// to use; all fields default to zero (MissionTimeS=0, Phase=PreLaunch,
// SystemState=Offline).
type State struct {
	// Physics fields: written only by Flight Control.
	missionTimeBits      atomic.Uint64
	altitudeBits         atomic.Uint64
	velocityBits         atomic.Uint64
	accelerationBits     atomic.Uint64
	fuelPctBits          atomic.Uint64
	massKgBits           atomic.Uint64
	dynamicPressureBits  atomic.Uint64
	machBits             atomic.Uint64
	phase                atomic.Int32
	systemState          atomic.Int32
	timestampUnixNano    atomic.Int64

	// Command fields: written only by the Command Service.
	missionGo      atomic.Bool
	throttle       atomic.Int32
	abortRequested atomic.Bool
}

// New returns a State initialized to spec defaults: mass_kg starts at
// dry+fuel mass, fuel_pct at 100, phase PreLaunch, system_state Offline.
func New(dryMassKg, fuelMassKg float64) *State {
	s := &State{}
	s.massKgBits.Store(math.Float64bits(dryMassKg + fuelMassKg))
	s.fuelPctBits.Store(math.Float64bits(100))
	s.throttle.Store(100)
	return s
}

func loadFloat(a *atomic.Uint64) float64 { return math.Float64frombits(a.Load()) }
func storeFloat(a *atomic.Uint64, v float64) { a.Store(math.Float64bits(v)) }

// --- Flight Control writer fields ---

func (s *State) MissionTimeS() float64        { return loadFloat(&s.missionTimeBits) }
func (s *State) SetMissionTimeS(v float64)    { storeFloat(&s.missionTimeBits, v) }
func (s *State) AltitudeM() float64           { return loadFloat(&s.altitudeBits) }
func (s *State) SetAltitudeM(v float64)       { storeFloat(&s.altitudeBits, v) }
func (s *State) VelocityMS() float64          { return loadFloat(&s.velocityBits) }
func (s *State) SetVelocityMS(v float64)      { storeFloat(&s.velocityBits, v) }
func (s *State) AccelerationMS2() float64     { return loadFloat(&s.accelerationBits) }
func (s *State) SetAccelerationMS2(v float64) { storeFloat(&s.accelerationBits, v) }
func (s *State) FuelPct() float64             { return loadFloat(&s.fuelPctBits) }
func (s *State) SetFuelPct(v float64)         { storeFloat(&s.fuelPctBits, v) }
func (s *State) MassKg() float64              { return loadFloat(&s.massKgBits) }
func (s *State) SetMassKg(v float64)          { storeFloat(&s.massKgBits, v) }
func (s *State) DynamicPressurePa() float64   { return loadFloat(&s.dynamicPressureBits) }
func (s *State) SetDynamicPressurePa(v float64) { storeFloat(&s.dynamicPressureBits, v) }
func (s *State) Mach() float64                { return loadFloat(&s.machBits) }
func (s *State) SetMach(v float64)            { storeFloat(&s.machBits, v) }
func (s *State) Phase() MissionPhase          { return MissionPhase(s.phase.Load()) }
func (s *State) SetPhase(p MissionPhase)      { s.phase.Store(int32(p)) }
func (s *State) SystemState() SystemState     { return SystemState(s.systemState.Load()) }
func (s *State) SetSystemState(v SystemState) { s.systemState.Store(int32(v)) }
func (s *State) Timestamp() time.Time         { return time.Unix(0, s.timestampUnixNano.Load()) }
func (s *State) SetTimestamp(t time.Time)     { s.timestampUnixNano.Store(t.UnixNano()) }

// --- Command Service writer fields ---

func (s *State) MissionGo() bool      { return s.missionGo.Load() }
func (s *State) SetMissionGo(v bool)  { s.missionGo.Store(v) }
func (s *State) AbortRequested() bool { return s.abortRequested.Load() }
func (s *State) SetAbortRequested(v bool) { s.abortRequested.Store(v) }

// Throttle returns the current throttle percent, always in [0, 100].
func (s *State) Throttle() int { return int(s.throttle.Load()) }

// SetThrottle clamps v to [0, 100] before storing it and returns the
// clamped value.
func (s *State) SetThrottle(v int) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.throttle.Store(int32(v))
	return v
}

// Snapshot is a point-in-time, non-atomic copy of all fields, for
// reporting (component K's /v1/state) and tests. Readers may observe a
// tick of skew across fields, as permitted by spec.md §5.
type Snapshot struct {
	MissionTimeS      float64      `json:"missionTimeS"`
	AltitudeM         float64      `json:"altitudeM"`
	VelocityMS        float64      `json:"velocityMs"`
	AccelerationMS2   float64      `json:"accelerationMs2"`
	FuelPct           float64      `json:"fuelPct"`
	MassKg            float64      `json:"massKg"`
	DynamicPressurePa float64      `json:"dynamicPressurePa"`
	Mach              float64      `json:"mach"`
	Phase             MissionPhase `json:"phase"`
	SystemState       SystemState  `json:"systemState"`
	MissionGo         bool         `json:"missionGo"`
	Throttle          int          `json:"throttle"`
	AbortRequested    bool         `json:"abortRequested"`
}

// Snapshot reads every field once into a plain struct. It allocates, so
// it is intended for reporting paths, not steady-state subsystem bodies.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		MissionTimeS:      s.MissionTimeS(),
		AltitudeM:         s.AltitudeM(),
		VelocityMS:        s.VelocityMS(),
		AccelerationMS2:   s.AccelerationMS2(),
		FuelPct:           s.FuelPct(),
		MassKg:            s.MassKg(),
		DynamicPressurePa: s.DynamicPressurePa(),
		Mach:              s.Mach(),
		Phase:             s.Phase(),
		SystemState:       s.SystemState(),
		MissionGo:         s.MissionGo(),
		Throttle:          s.Throttle(),
		AbortRequested:    s.AbortRequested(),
	}
}
