package vehicle

import "testing"

func TestNewDefaults(t *testing.T) {
	s := New(500000, 1500000)
	if s.Phase() != PreLaunch {
		t.Fatalf("expected PreLaunch, got %v", s.Phase())
	}
	if s.SystemState() != Offline {
		t.Fatalf("expected Offline, got %v", s.SystemState())
	}
	if s.FuelPct() != 100 {
		t.Fatalf("expected fuel_pct=100, got %v", s.FuelPct())
	}
	if s.MassKg() != 2000000 {
		t.Fatalf("expected mass=2000000, got %v", s.MassKg())
	}
	if s.AltitudeM() != 0 || s.VelocityMS() != 0 {
		t.Fatalf("expected zero altitude/velocity before liftoff")
	}
}

func TestSetThrottleClamps(t *testing.T) {
	s := New(500000, 1500000)
	if got := s.SetThrottle(250); got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
	if s.Throttle() != 100 {
		t.Fatalf("Throttle() out of sync: %d", s.Throttle())
	}
	if got := s.SetThrottle(-5); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := s.SetThrottle(42); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestCommandFieldsIndependentOfPhysics(t *testing.T) {
	s := New(500000, 1500000)
	s.SetMissionGo(true)
	s.SetAbortRequested(false)
	s.SetAltitudeM(1234.5)

	if !s.MissionGo() {
		t.Fatal("expected mission_go true")
	}
	if s.AltitudeM() != 1234.5 {
		t.Fatalf("expected altitude 1234.5, got %v", s.AltitudeM())
	}
}

func TestSnapshotReflectsCurrentValues(t *testing.T) {
	s := New(500000, 1500000)
	s.SetPhase(Liftoff)
	s.SetAltitudeM(10)
	s.SetVelocityMS(5)
	snap := s.Snapshot()
	if snap.Phase != Liftoff || snap.AltitudeM != 10 || snap.VelocityMS != 5 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestPhaseStringers(t *testing.T) {
	cases := []struct {
		p    MissionPhase
		want string
	}{
		{PreLaunch, "PreLaunch"},
		{Liftoff, "Liftoff"},
		{Abort, "Abort"},
		{MissionPhase(999), "Unknown"},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Fatalf("String(%d) = %q, want %q", c.p, got, c.want)
		}
	}
}
