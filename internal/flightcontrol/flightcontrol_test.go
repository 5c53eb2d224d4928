package flightcontrol

import (
	"testing"
	"time"

	"github.com/launchsim/core/internal/enginecontrol"
	"github.com/launchsim/core/internal/vehicle"
)

func newTestController() (*Controller, *vehicle.State, *enginecontrol.Controller) {
	state := vehicle.New(dryMassKg, fuelMassKg)
	engines := enginecontrol.New(nil, 1)
	c := New(state, engines, nil)
	return c, state, engines
}

// tick advances the engine and flight controllers together by step, total/step
// times, mirroring how the Scheduler drives both subsystems each period.
func tick(c *Controller, engines *enginecontrol.Controller, total, step time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		engines.Tick(step)
		c.Tick(step)
	}
}

func setMissionTime(state *vehicle.State, t float64) {
	state.SetMissionTimeS(t)
}

func TestGroundHeldBeforeIgnition(t *testing.T) {
	c, state, _ := newTestController()
	setMissionTime(state, -700)

	tick(c, enginecontrol.New(nil, 1), 500*time.Millisecond, 50*time.Millisecond)

	if state.Phase() != vehicle.PreLaunch {
		t.Fatalf("expected PreLaunch, got %v", state.Phase())
	}
	if state.VelocityMS() != 0 || state.AltitudeM() != 0 {
		t.Fatalf("expected ground-held velocity/altitude == 0, got v=%v alt=%v", state.VelocityMS(), state.AltitudeM())
	}
}

func TestCountdownTransitionAtSixHundredSeconds(t *testing.T) {
	c, state, engines := newTestController()
	setMissionTime(state, -601)

	c.Tick(2 * time.Second) // crosses -600
	_ = engines

	if state.Phase() != vehicle.Countdown {
		t.Fatalf("expected Countdown, got %v", state.Phase())
	}
}

func TestIgnitionToLiftoffGatedOnEnginesRunning(t *testing.T) {
	c, state, engines := newTestController()
	setMissionTime(state, -7)

	// Cross into Ignition; onPhaseEntry should call engines.StartIgnition().
	c.Tick(2 * time.Second)
	if state.Phase() != vehicle.Ignition {
		t.Fatalf("expected Ignition, got %v", state.Phase())
	}
	if state.VelocityMS() != 0 || state.AltitudeM() != 0 {
		t.Fatalf("expected ground-held during Ignition, got v=%v alt=%v", state.VelocityMS(), state.AltitudeM())
	}

	// Engines take ~4s to reach Running; advance both controllers together.
	step := 50 * time.Millisecond
	tick(c, engines, 4*time.Second, step)

	if !engines.AllRunning() {
		t.Fatal("setup: expected all engines running by now")
	}
	if state.Phase() != vehicle.Liftoff {
		t.Fatalf("expected Liftoff once engines running, got %v", state.Phase())
	}

	// A further tick should now integrate dynamics (thrust flowing, not ground-held).
	c.Tick(step)
	if state.AltitudeM() <= 0 {
		t.Fatalf("expected altitude > 0 shortly after Liftoff, got %v", state.AltitudeM())
	}
	if state.FuelPct() >= 100 {
		t.Fatalf("expected fuel_pct to have decreased from 100, got %v", state.FuelPct())
	}
}

func TestAscentTransitionAndThrottleDown(t *testing.T) {
	c, state, engines := newTestController()
	setMissionTime(state, tAscentS-1)
	state.SetPhase(vehicle.Liftoff)
	c.lastPhase = vehicle.Liftoff

	c.Tick(2 * time.Second)
	_ = engines

	if state.Phase() != vehicle.Ascent {
		t.Fatalf("expected Ascent, got %v", state.Phase())
	}
	thrustN, groundHeld := c.computeThrust(vehicle.Ascent)
	if groundHeld {
		t.Fatal("expected Ascent not ground-held")
	}
	if thrustN != maxThrustN*ascentThrottle {
		t.Fatalf("expected throttled-down thrust %v, got %v", maxThrustN*ascentThrottle, thrustN)
	}
}

func TestStageSeparationCutsMassByFactor(t *testing.T) {
	c, state, _ := newTestController()
	setMissionTime(state, tStageSeparationS-1)
	state.SetPhase(vehicle.Ascent)
	c.lastPhase = vehicle.Ascent

	massBefore := state.MassKg()
	c.Tick(2 * time.Second)

	if state.Phase() != vehicle.StageSeparation {
		t.Fatalf("expected StageSeparation, got %v", state.Phase())
	}
	wantMass := massBefore * stageSeparationMassFactor
	if got := state.MassKg(); got < wantMass*0.99 || got > wantMass*1.01 {
		t.Fatalf("expected mass ~= %v after stage separation, got %v", wantMass, got)
	}
}

func TestAbortFromAnyNonTerminalPhaseCutsThrustWithinTwoSeconds(t *testing.T) {
	c, state, engines := newTestController()
	setMissionTime(state, 50)
	state.SetPhase(vehicle.Ascent)
	c.lastPhase = vehicle.Ascent
	engines.StartIgnition()
	tick(c, engines, 4100*time.Millisecond, 50*time.Millisecond)

	state.SetAbortRequested(true)
	c.Tick(50 * time.Millisecond)

	if state.Phase() != vehicle.Abort {
		t.Fatalf("expected Abort, got %v", state.Phase())
	}

	// Within one Flight Control tick of entering Abort, engines.StartShutdown()
	// must have been invoked; after its 2s ramp every engine reaches zero thrust.
	tick(c, engines, 2100*time.Millisecond, 50*time.Millisecond)
	for _, e := range engines.Snapshot() {
		if e.ThrustPct != 0 {
			t.Fatalf("expected engine %d thrust=0 after abort shutdown ramp, got %v", e.ID, e.ThrustPct)
		}
	}
}

func TestAbortIsTerminal(t *testing.T) {
	c, state, _ := newTestController()
	setMissionTime(state, 50)
	state.SetPhase(vehicle.Abort)
	c.lastPhase = vehicle.Abort
	state.SetAbortRequested(true)

	c.Tick(time.Second)
	if state.Phase() != vehicle.Abort {
		t.Fatalf("expected Abort to remain terminal, got %v", state.Phase())
	}
}

func TestFuelPctMonotonicNonIncreasingWhileBurning(t *testing.T) {
	c, state, engines := newTestController()
	setMissionTime(state, -7)
	state.SetPhase(vehicle.Ignition)
	c.lastPhase = vehicle.Ignition
	// The phase is forced rather than entered, so start the ignition
	// sequence its entry action would have started.
	engines.StartIgnition()

	step := 50 * time.Millisecond
	tick(c, engines, 4*time.Second, step)
	if state.Phase() != vehicle.Liftoff {
		t.Fatalf("setup: expected Liftoff, got %v", state.Phase())
	}

	last := state.FuelPct()
	for i := 0; i < 100; i++ {
		engines.Tick(step)
		c.Tick(step)
		cur := state.FuelPct()
		if cur > last {
			t.Fatalf("fuel_pct increased while burning: %v -> %v", last, cur)
		}
		if cur < 0 || cur > 100 {
			t.Fatalf("fuel_pct out of [0,100] range: %v", cur)
		}
		last = cur
	}
}

func TestTargetVelocityInterpolatesPiecewiseLinear(t *testing.T) {
	if v := targetVelocity(0); v != 0 {
		t.Fatalf("targetVelocity(0) = %v, want 0", v)
	}
	if v := targetVelocity(tAscentS); v != 150 {
		t.Fatalf("targetVelocity(tAscentS) = %v, want 150", v)
	}
	mid := targetVelocity(tAscentS / 2)
	if mid <= 0 || mid >= 150 {
		t.Fatalf("expected interpolated value strictly between 0 and 150, got %v", mid)
	}
	if v := targetVelocity(tMissionCompleteS + 1000); v != 7800 {
		t.Fatalf("targetVelocity past last knot = %v, want clamp to 7800", v)
	}
}

func TestAutopilotActiveOnlyDuringPoweredFlight(t *testing.T) {
	active := []vehicle.MissionPhase{vehicle.Liftoff, vehicle.Ascent, vehicle.StageSeparation, vehicle.OrbitInsertion}
	for _, p := range active {
		if !autopilotActive(p) {
			t.Fatalf("expected autopilot active during %v", p)
		}
	}
	inactive := []vehicle.MissionPhase{vehicle.PreLaunch, vehicle.Countdown, vehicle.Ignition, vehicle.MissionComplete, vehicle.Abort}
	for _, p := range inactive {
		if autopilotActive(p) {
			t.Fatalf("expected autopilot inactive during %v", p)
		}
	}
}
