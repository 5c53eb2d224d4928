// Package flightcontrol implements the Flight Control Subsystem
// (component G): the dynamics integrator, mission-phase policy, and a
// decoupled velocity-tracking PID autopilot.
//
// Grounded on the explicit-Euler integration and ticker-driven physics
// loop in zenapo-hub-flight-simulator2's internal/sim/engine.go (Run(ctx)
// integrates position/velocity each tick and applies a smoothing
// controller toward a desired velocity) — the PID gains and clamp here
// replace that file's simpler exponential-approach smoothing, per
// spec.md §4.G's explicit Kp/Ki/Kd/clamp values. Numeric vehicle
// constants (T_max, masses) come from
// original_source/src/common/sls_config.h.
package flightcontrol

import (
	"math"
	"time"

	"github.com/launchsim/core/internal/enginecontrol"
	"github.com/launchsim/core/internal/eventsink"
	"github.com/launchsim/core/internal/vehicle"
)

const (
	dryMassKg  = 500_000.0
	fuelMassKg = 1_500_000.0
	maxThrustN = 7_500_000.0
	gravity    = 9.81

	fuelBurnRateKgS = 1000.0
	ascentThrottle  = 0.75 // Max-Q throttle-down during Ascent

	airDensitySeaLevel = 1.225
	scaleHeightM       = 8000.0
	dragCoefficient    = 0.3
	crossSectionAreaM2 = 50.0
	speedOfSoundMS     = 343.0

	dynamicPressureWarnPa = 50_000.0
	accelWarnG            = 5.0

	pidKp      = 0.1
	pidKi      = 0.01
	pidKd      = 0.05
	pidClampMS = 10.0

	stageSeparationMassFactor = 0.3
)

// Phase transition times (mission_time_s), spec.md §4.G table and
// original_source/src/common/sls_config.h's T_MINUS/T_PLUS constants.
const (
	tCountdownS       = -600.0
	tIgnitionS        = -6.0
	tAscentS          = 10.0
	tStageSeparationS = 120.0
	tOrbitInsertionS  = 125.0
	tMissionCompleteS = 480.0
)

// velocityProfile is a simple piecewise-linear reference the autopilot
// tracks during powered flight. spec.md leaves the exact target profile
// unspecified; see DESIGN.md for this choice's rationale.
var velocityProfile = []struct {
	missionTimeS float64
	velocityMS   float64
}{
	{0, 0},
	{tAscentS, 150},
	{tStageSeparationS, 2000},
	{tOrbitInsertionS, 2200},
	{tMissionCompleteS, 7800},
}

func targetVelocity(missionTimeS float64) float64 {
	if missionTimeS <= velocityProfile[0].missionTimeS {
		return velocityProfile[0].velocityMS
	}
	for i := 1; i < len(velocityProfile); i++ {
		if missionTimeS <= velocityProfile[i].missionTimeS {
			prev, cur := velocityProfile[i-1], velocityProfile[i]
			frac := (missionTimeS - prev.missionTimeS) / (cur.missionTimeS - prev.missionTimeS)
			return prev.velocityMS + frac*(cur.velocityMS-prev.velocityMS)
		}
	}
	return velocityProfile[len(velocityProfile)-1].velocityMS
}

// Controller owns the dynamics integrator and mission-phase policy.
type Controller struct {
	state   *vehicle.State
	engines *enginecontrol.Controller
	sink    *eventsink.Sink

	lastPhase vehicle.MissionPhase

	pidIntegral float64
	pidPrevErr  float64
}

// New creates a flight control Controller.
func New(state *vehicle.State, engines *enginecontrol.Controller, sink *eventsink.Sink) *Controller {
	return &Controller{state: state, engines: engines, sink: sink, lastPhase: vehicle.PreLaunch}
}

// Tick advances vehicle dynamics by dt, the Body the Scheduler invokes
// once per Flight Control period (100 Hz default).
func (c *Controller) Tick(dt time.Duration) error {
	dtS := dt.Seconds()
	if dtS <= 0 {
		return nil
	}

	missionTimeS := c.state.MissionTimeS() + dtS
	c.state.SetMissionTimeS(missionTimeS)

	// One tick may satisfy several time-based transitions at once (a
	// large dt crossing both -600 s and -6 s); apply them in order so
	// every phase's entry action runs.
	phase := c.nextPhase(missionTimeS)
	for phase != c.lastPhase {
		c.onPhaseEntry(phase)
		c.lastPhase = phase
		phase = c.nextPhase(missionTimeS)
	}
	c.state.SetPhase(phase)

	thrustN, groundHeld := c.computeThrust(phase)

	accel := -gravity
	if !groundHeld {
		accel += thrustN / c.state.MassKg()
	}

	if autopilotActive(phase) {
		accel += c.autopilotCorrection(dtS, missionTimeS)
	}

	velocity := c.state.VelocityMS()
	altitude := c.state.AltitudeM()

	if !groundHeld {
		velocity += accel * dtS
		altitude += velocity * dtS
		if altitude < 0 {
			altitude = 0
		}
	} else {
		velocity = 0
		altitude = 0
		accel = 0
	}

	if thrustN > 0 && !groundHeld {
		burned := fuelBurnRateKgS * dtS
		mass := c.state.MassKg() - burned
		if mass < dryMassKg {
			mass = dryMassKg
		}
		c.state.SetMassKg(mass)
	}

	fuelPct := clamp((c.state.MassKg()-dryMassKg)/fuelMassKg*100, 0, 100)
	c.state.SetFuelPct(fuelPct)

	rho := airDensitySeaLevel * math.Exp(-altitude/scaleHeightM)
	q := 0.5 * rho * velocity * velocity
	mach := math.Abs(velocity) / speedOfSoundMS

	if altitude < 100_000 {
		drag := 0.5 * rho * velocity * velocity * dragCoefficient * crossSectionAreaM2
		if velocity > 0 {
			accel -= drag / c.state.MassKg()
		} else if velocity < 0 {
			accel += drag / c.state.MassKg()
		}
	}

	c.state.SetVelocityMS(velocity)
	c.state.SetAltitudeM(altitude)
	c.state.SetAccelerationMS2(accel)
	c.state.SetDynamicPressurePa(q)
	c.state.SetMach(mach)

	c.safetyChecks(fuelPct, q, accel, altitude, phase)

	return nil
}

func (c *Controller) nextPhase(missionTimeS float64) vehicle.MissionPhase {
	if c.state.AbortRequested() {
		return vehicle.Abort
	}
	current := c.lastPhase
	if current == vehicle.Abort {
		return vehicle.Abort // terminal
	}

	switch current {
	case vehicle.PreLaunch:
		if missionTimeS >= tCountdownS {
			return vehicle.Countdown
		}
	case vehicle.Countdown:
		if missionTimeS >= tIgnitionS {
			return vehicle.Ignition
		}
	case vehicle.Ignition:
		if c.engines != nil && c.engines.AllRunning() {
			return vehicle.Liftoff
		}
	case vehicle.Liftoff:
		if missionTimeS >= tAscentS {
			return vehicle.Ascent
		}
	case vehicle.Ascent:
		if missionTimeS >= tStageSeparationS {
			return vehicle.StageSeparation
		}
	case vehicle.StageSeparation:
		if missionTimeS >= tOrbitInsertionS {
			return vehicle.OrbitInsertion
		}
	case vehicle.OrbitInsertion:
		if missionTimeS >= tMissionCompleteS {
			return vehicle.MissionComplete
		}
	}
	return current
}

func (c *Controller) onPhaseEntry(phase vehicle.MissionPhase) {
	switch phase {
	case vehicle.Ignition:
		if c.engines != nil {
			c.engines.StartIgnition()
		}
	case vehicle.StageSeparation:
		c.state.SetMassKg(c.state.MassKg() * stageSeparationMassFactor)
	case vehicle.Abort:
		if c.engines != nil {
			c.engines.StartShutdown()
		}
		c.pidIntegral = 0
		c.pidPrevErr = 0
	}
	if c.sink != nil {
		c.sink.Emit(eventsink.Info, "FCC", "phase -> "+phase.String())
	}
}

// computeThrust returns the commanded thrust in newtons and whether the
// vehicle remains ground-held regardless of thrust (spec.md §4.G step 2).
func (c *Controller) computeThrust(phase vehicle.MissionPhase) (float64, bool) {
	switch phase {
	case vehicle.PreLaunch, vehicle.Countdown:
		return 0, true
	case vehicle.Ignition:
		return 0.5 * maxThrustN, true
	case vehicle.Liftoff, vehicle.StageSeparation, vehicle.OrbitInsertion:
		return maxThrustN * float64(c.state.Throttle()) / 100, false
	case vehicle.Ascent:
		return maxThrustN * ascentThrottle, false
	default:
		return 0, false
	}
}

func (c *Controller) autopilotCorrection(dtS, missionTimeS float64) float64 {
	target := targetVelocity(missionTimeS)
	err := target - c.state.VelocityMS()

	c.pidIntegral += err * dtS
	derivative := (err - c.pidPrevErr) / dtS
	c.pidPrevErr = err

	u := pidKp*err + pidKi*c.pidIntegral - pidKd*derivative
	return clamp(u, -pidClampMS, pidClampMS)
}

func (c *Controller) safetyChecks(fuelPct, q, accel, altitude float64, phase vehicle.MissionPhase) {
	if c.sink == nil {
		return
	}
	if fuelPct < 5 {
		c.sink.Emit(eventsink.Warn, "FCC", "low fuel reserve")
	}
	if q > dynamicPressureWarnPa {
		c.sink.Emit(eventsink.Warn, "FCC", "dynamic pressure exceeds Max-Q margin")
	}
	if math.Abs(accel) > accelWarnG*gravity {
		c.sink.Emit(eventsink.Warn, "FCC", "acceleration exceeds 5g")
	}
	if altitude < 0 && phase != vehicle.PreLaunch && phase != vehicle.Countdown {
		c.sink.Emit(eventsink.Warn, "FCC", "altitude below ground during flight")
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

// autopilotActive reports whether the PID velocity-tracking correction
// applies: Liftoff..OrbitInsertion inclusive, per spec.md §4.G.
func autopilotActive(p vehicle.MissionPhase) bool {
	switch p {
	case vehicle.Liftoff, vehicle.Ascent, vehicle.StageSeparation, vehicle.OrbitInsertion:
		return true
	default:
		return false
	}
}
