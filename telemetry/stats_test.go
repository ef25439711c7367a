package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/shrine/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeCountStats(t *testing.T) {
	mean, p50, p90 := ComputeCountStats([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100})
	if math.Abs(mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", mean)
	}
	if math.Abs(p50-55) > 0.001 {
		t.Errorf("p50 = %v, want 55", p50)
	}
	if math.Abs(p90-91) > 0.001 {
		t.Errorf("p90 = %v, want 91", p90)
	}

	if m, a, b := ComputeCountStats(nil); m != 0 || a != 0 || b != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1, 1.0/60)
	if c.WindowDurationTicks() != 60 {
		t.Fatalf("expected 60 ticks per window, got %d", c.WindowDurationTicks())
	}

	c.RecordClick(systems.ClickResult{Action: systems.ActionExpression, Target: "kodam"})
	c.RecordClick(systems.ClickResult{Action: systems.ActionExpression, Target: "kodam", Advanced: true})
	c.RecordClick(systems.ClickResult{Action: systems.ActionNavigate, Target: "github", URL: "https://github.com/"})
	c.RecordClick(systems.ClickResult{})

	for tick := int64(1); tick <= 60; tick++ {
		c.RecordTick(TickSample{
			Hovering:       tick <= 15,
			AuraUpdated:    tick > 10,
			EmitterRan:     true,
			FlameParticles: 100,
			SweepFinished:  tick == 42,
		})
		if tick < 60 && c.ShouldFlush(tick) {
			t.Fatalf("flushed early at tick %d", tick)
		}
	}
	if !c.ShouldFlush(60) {
		t.Fatal("expected flush at tick 60")
	}

	s := c.Flush(60, 1)
	if s.Clicks != 4 || s.SubjectClicks != 2 || s.Navigations != 1 || s.Misses != 1 || s.ExpressionAdvances != 1 {
		t.Errorf("unexpected click counters: %+v", s)
	}
	if math.Abs(s.HoverRatio-0.25) > 1e-9 {
		t.Errorf("expected hover ratio 0.25, got %f", s.HoverRatio)
	}
	if s.AuraSkippedTicks != 10 || s.EmitterTicks != 60 || s.FlameMean != 100 || s.Sweeps != 1 {
		t.Errorf("unexpected tick counters: %+v", s)
	}
	if math.Abs(s.SceneTimeSec-1) > 1e-9 {
		t.Errorf("expected 1s of scene time, got %f", s.SceneTimeSec)
	}

	next := c.Flush(120, 1)
	if next.WindowStartTick != 60 || next.Clicks != 0 || next.EmitterTicks != 0 {
		t.Errorf("expected counters reset after flush, got %+v", next)
	}
}
