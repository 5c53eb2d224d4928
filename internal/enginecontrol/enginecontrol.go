// Package enginecontrol implements the Engine Control Subsystem
// (component H): N independent engine state machines driven by a
// coordinated ignition/shutdown sequence.
//
// Grounded on engine_control_thread's per-engine update/sensor/health
// loop in original_source/src/subsystems/engine_control.c (per-tick
// ignition/shutdown sequence processing, per-engine state/sensor/health
// update, deterministic telemetry IDs), translated from the C thread's
// imperative update functions into Go methods on a Controller that the
// Scheduler (component F) invokes once per period via runSubsystem.
package enginecontrol

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/faults"
	"github.com/launchsim/core/internal/metrics"
)

// NumEngines is N in spec.md §4.H (original_source NUM_ENGINES).
const NumEngines = 4

const (
	restChamberPa   = 101325.0
	maxChamberPa    = 20_000_000.0 // ENGINE_MAX_CHAMBER_PRESSURE
	minChamberPa    = 1_000_000.0  // 1 MPa, ChamberPressureLow threshold
	restTurbopumpRPM = 0.0
	minRunningRPM    = 8_000.0
	maxIgnitionRPM   = 12_000.0
	restNozzleK      = 300.0
	runNozzleK       = 2500.0
	maxNozzleK       = 3000.0
	runThrottlePct   = 60.0 // min-throttle Running value

	sensorInjectedProbability = 1e-4
)

// Fsm is the per-engine lifecycle state.
type Fsm int

const (
	Offline Fsm = iota
	PreStart
	IgnitionFsm
	Running
	ShutdownFsm
	Fault
)

func (f Fsm) String() string {
	switch f {
	case Offline:
		return "Offline"
	case PreStart:
		return "PreStart"
	case IgnitionFsm:
		return "Ignition"
	case Running:
		return "Running"
	case ShutdownFsm:
		return "Shutdown"
	case Fault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// Engine is the per-engine record owned exclusively by Controller.
type Engine struct {
	ID                int
	State             Fsm
	ThrustPct         float64
	ChamberPa         float64
	FuelFlowKgS       float64
	OxFlowKgS         float64
	NozzleK           float64
	TurbopumpRPM      float64
	IgnitionElapsedS  float64
	ShutdownElapsedS  float64
	Fault             *faults.Kind
}

// Controller owns the engine array and the coordinated ignition/shutdown
// sequence state machine.
type Controller struct {
	mu      sync.Mutex
	engines [NumEngines]Engine

	ignitionActive bool
	ignitionAt     time.Duration
	shutdownActive bool
	shutdownAt     time.Duration

	rng  *rand.Rand
	sink *eventsink.Sink
}

// New creates a Controller with all engines Offline. seed makes the
// sensor-fault injection deterministic for tests.
func New(sink *eventsink.Sink, seed int64) *Controller {
	c := &Controller{sink: sink, rng: rand.New(rand.NewSource(seed))}
	for i := range c.engines {
		c.engines[i] = Engine{ID: i + 1, State: Offline, ChamberPa: restChamberPa, NozzleK: restNozzleK}
	}
	return c
}

// StartIgnition begins the coordinated ignition sequence. Idempotent.
func (c *Controller) StartIgnition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ignitionActive || c.shutdownActive {
		return
	}
	c.ignitionActive = true
	c.ignitionAt = 0
}

// StartShutdown begins the coordinated shutdown sequence. Idempotent.
func (c *Controller) StartShutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shutdownActive {
		return
	}
	c.shutdownActive = true
	c.shutdownAt = 0
	c.ignitionActive = false
}

// AllRunning reports whether every engine has reached the Running state,
// the signal Flight Control polls for the Ignition -> Liftoff transition.
func (c *Controller) AllRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.engines {
		if e.State != Running {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the current engine array.
func (c *Controller) Snapshot() [NumEngines]Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engines
}

// Tick advances every engine by dt. It is the Body the Scheduler invokes
// once per Engine Control period (50 Hz default).
func (c *Controller) Tick(dt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ignitionActive {
		c.ignitionAt += dt
	}
	if c.shutdownActive {
		c.shutdownAt += dt
	}

	for i := range c.engines {
		c.updateEngine(&c.engines[i], dt)
	}
	return nil
}

func (c *Controller) updateEngine(e *Engine, dt time.Duration) {
	if e.State == Fault {
		if e.Fault == nil || faults.Sticky(*e.Fault) {
			return // sticky until external Reset
		}
		e.State = Offline
		e.Fault = nil
	}

	if c.shutdownActive {
		c.processShutdown(e, dt)
		return
	}

	if c.ignitionActive {
		c.processIgnition(e)
	}

	if e.State == Running {
		c.updateRunningSensors(e)
		c.monitorHealth(e)
	}
}

// processIgnition implements the coordinated 4-stage sequence from
// spec.md §4.H, keyed off elapsed time since StartIgnition.
func (c *Controller) processIgnition(e *Engine) {
	elapsed := c.ignitionAt.Seconds()

	switch {
	case elapsed < 1.0:
		e.State = PreStart
		e.TurbopumpRPM = 0
	case elapsed < 3.0:
		e.State = PreStart
		frac := clamp((elapsed-1.0)/2.0, 0, 1)
		e.TurbopumpRPM = maxIgnitionRPM * frac
	case elapsed < 4.0:
		e.State = IgnitionFsm
	default:
		e.State = Running
		e.ThrustPct = runThrottlePct
	}
}

func (c *Controller) processShutdown(e *Engine, dt time.Duration) {
	const shutdownDurationS = 2.0
	elapsed := c.shutdownAt.Seconds()
	e.State = ShutdownFsm
	frac := clamp(1.0-elapsed/shutdownDurationS, 0, 1)
	e.ThrustPct = runThrottlePct * frac
	if elapsed >= shutdownDurationS {
		e.State = Offline
		e.ThrustPct = 0
		e.ChamberPa = restChamberPa
		e.TurbopumpRPM = restTurbopumpRPM
		e.NozzleK = restNozzleK
		e.FuelFlowKgS = 0
		e.OxFlowKgS = 0
	}
}

func (c *Controller) updateRunningSensors(e *Engine) {
	e.ChamberPa = (restChamberPa + (maxChamberPa-restChamberPa)*e.ThrustPct/100) * gaussianNoise(c.rng, 0.02)
	e.TurbopumpRPM = (minRunningRPM + 4000*e.ThrustPct/100) * gaussianNoise(c.rng, 0.05)
	e.NozzleK = runNozzleK + (c.rng.Float64()*2-1)*50
	e.FuelFlowKgS = 200 * e.ThrustPct / 100
	e.OxFlowKgS = 400 * e.ThrustPct / 100
}

func (c *Controller) monitorHealth(e *Engine) {
	var kind faults.Kind
	triggered := false

	switch {
	case e.ChamberPa > maxChamberPa:
		kind, triggered = faults.ChamberPressureHigh, true
	case e.ChamberPa < minChamberPa:
		kind, triggered = faults.ChamberPressureLow, true
	case e.TurbopumpRPM < minRunningRPM:
		kind, triggered = faults.TurbopumpUnderspeed, true
	case e.NozzleK > maxNozzleK:
		kind, triggered = faults.NozzleOverTemp, true
	case c.rng.Float64() < sensorInjectedProbability:
		kind, triggered = faults.SensorInjected, true
	}

	if triggered {
		e.State = Fault
		e.Fault = &kind
		e.ThrustPct = 0
		metrics.IncEngineFault(kind.String())
		if c.sink != nil {
			c.sink.Emit(faults.Severity(kind), "ENG", "engine "+strconv.Itoa(e.ID)+" fault: "+kind.String())
		}
	}
}

// Reset clears a sticky Fault on the given engine, returning it Offline.
func (c *Controller) Reset(engineID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.engines {
		if c.engines[i].ID == engineID {
			c.engines[i].State = Offline
			c.engines[i].Fault = nil
			c.engines[i].ThrustPct = 0
			c.engines[i].ChamberPa = restChamberPa
			c.engines[i].NozzleK = restNozzleK
			c.engines[i].TurbopumpRPM = restTurbopumpRPM
			return
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gaussianNoise returns a multiplicative factor approximating 1 ± pct
// noise using rand.NormFloat64, matching the "N % noise" phrasing in
// spec.md §4.H.
func gaussianNoise(rng *rand.Rand, pct float64) float64 {
	return 1 + rng.NormFloat64()*pct
}

