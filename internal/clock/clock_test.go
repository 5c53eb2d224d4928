package clock

import (
	"context"
	"testing"
	"time"
)

func TestNowMonotonicNonDecreasing(t *testing.T) {
	c := New()
	t1 := c.Now()
	time.Sleep(time.Millisecond)
	t2 := c.Now()
	if t2.Before(t1) {
		t.Fatalf("Now() went backwards: %v then %v", t1, t2)
	}
}

func TestSleepUntilReturnsAtOrAfterDeadline(t *testing.T) {
	c := New()
	deadline := c.Now().Add(20 * time.Millisecond)
	if err := c.SleepUntil(context.Background(), deadline); err != nil {
		t.Fatalf("SleepUntil: %v", err)
	}
	if c.Now().Before(deadline) {
		t.Fatalf("SleepUntil returned early")
	}
}

func TestSleepUntilPastDeadlineReturnsImmediately(t *testing.T) {
	c := New()
	start := time.Now()
	if err := c.SleepUntil(context.Background(), start.Add(-time.Second)); err != nil {
		t.Fatalf("SleepUntil: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("SleepUntil with past deadline took too long")
	}
}

func TestSleepUntilCancelledByContext(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := c.SleepUntil(ctx, time.Now().Add(time.Hour))
	if err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func TestPulseSourceRejectsNonPositivePeriod(t *testing.T) {
	if _, err := NewPulseSource(0); err != ErrInvalidPeriod {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestPulseSourceDeliversAndCoalesces(t *testing.T) {
	ps, err := NewPulseSource(5 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewPulseSource: %v", err)
	}
	defer ps.Stop()

	select {
	case p := <-ps.C:
		if p.Seq == 0 {
			t.Fatalf("expected a positive sequence number")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for first pulse")
	}

	// Let several periods elapse without draining; channel capacity is 1
	// so no unbounded backlog should accumulate.
	time.Sleep(50 * time.Millisecond)
	select {
	case <-ps.C:
	default:
		t.Fatal("expected a coalesced pulse to be available")
	}
}
