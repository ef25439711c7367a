package frame

import (
	"testing"
	"time"
)

func TestSchedulerTicksOncePerFrame(t *testing.T) {
	host := NewManualHost()
	count := 0
	s := NewScheduler(host, func(time.Time) { count++ })

	s.Start()
	for i := 0; i < 10; i++ {
		host.Pump(time.Now())
	}

	if count != 10 {
		t.Errorf("expected 10 ticks, got %d", count)
	}
	if s.Ticks() != 10 {
		t.Errorf("expected Ticks() = 10, got %d", s.Ticks())
	}
	if !s.Running() {
		t.Error("expected scheduler to still be running")
	}
}

func TestSchedulerRestartDoesNotDuplicate(t *testing.T) {
	host := NewManualHost()
	count := 0
	s := NewScheduler(host, func(time.Time) { count++ })

	s.Start()
	s.Start()
	s.Start()

	if host.Pending() != 1 {
		t.Fatalf("expected exactly one pending frame, got %d", host.Pending())
	}

	host.Pump(time.Now())
	if count != 1 {
		t.Errorf("expected one tick per frame after restarts, got %d", count)
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	host := NewManualHost()
	count := 0
	s := NewScheduler(host, func(time.Time) { count++ })

	s.Start()
	host.Pump(time.Now())

	s.Stop()
	s.Stop()

	if s.Running() {
		t.Error("expected scheduler to be stopped")
	}
	if host.Pending() != 0 {
		t.Errorf("expected no pending frames, got %d", host.Pending())
	}

	host.Pump(time.Now())
	if count != 1 {
		t.Errorf("expected no ticks after stop, got %d total", count)
	}
}

func TestStopFromInsideTick(t *testing.T) {
	host := NewManualHost()
	count := 0
	var s *Scheduler
	s = NewScheduler(host, func(time.Time) {
		count++
		if count == 3 {
			s.Stop()
		}
	})

	s.Start()
	for i := 0; i < 10; i++ {
		host.Pump(time.Now())
	}

	if count != 3 {
		t.Errorf("expected loop to stop after 3 ticks, got %d", count)
	}
}

func TestManualHostCancelUnknown(t *testing.T) {
	host := NewManualHost()
	host.CancelFrame(42) // no-op

	ran := 0
	id := host.RequestFrame(func(time.Time) { ran++ })
	host.CancelFrame(id)
	host.CancelFrame(id)

	if n := host.Pump(time.Now()); n != 0 || ran != 0 {
		t.Errorf("expected cancelled frame not to run, got %d callbacks", n)
	}
}
