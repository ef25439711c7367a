package telemetry

import "github.com/pthm-cable/shrine/systems"

// Collector accumulates per-tick and per-click counters within tick
// windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	windowStartTick int64

	clicks       int
	subject      int
	navigations  int
	misses       int
	advances     int
	hoverTicks   int
	auraSkipped  int
	emitterTicks int
	sweeps       int
	flameCounts  []float64
}

// NewCollector creates a collector.
// windowDurationSec: length of each window in seconds of scene time
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := int64(windowDurationSec / dt)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticks,
		dt:                  dt,
	}
}

// RecordClick counts a click outcome.
func (c *Collector) RecordClick(res systems.ClickResult) {
	c.clicks++
	switch res.Action {
	case systems.ActionExpression:
		c.subject++
		if res.Advanced {
			c.advances++
		}
	case systems.ActionNavigate:
		c.navigations++
	default:
		if res.Target == "" {
			c.misses++
		}
	}
}

// TickSample is what the scene reports about one tick.
type TickSample struct {
	Hovering       bool // pointer over an interactive object
	AuraUpdated    bool
	EmitterRan     bool
	FlameParticles int
	SweepFinished  bool // sequencer entered its pause on this tick
}

// RecordTick counts one tick's observations.
func (c *Collector) RecordTick(s TickSample) {
	if s.Hovering {
		c.hoverTicks++
	}
	if !s.AuraUpdated {
		c.auraSkipped++
	}
	if s.EmitterRan {
		c.emitterTicks++
		c.flameCounts = append(c.flameCounts, float64(s.FlameParticles))
	}
	if s.SweepFinished {
		c.sweeps++
	}
}

// ShouldFlush reports whether the window starting at the last flush is full.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the window's statistics and resets the counters.
// expression is the expression index on display at flush time.
func (c *Collector) Flush(currentTick int64, expression int) WindowStats {
	ticks := currentTick - c.windowStartTick
	var hoverRatio float64
	if ticks > 0 {
		hoverRatio = float64(c.hoverTicks) / float64(ticks)
	}
	mean, p50, p90 := ComputeCountStats(c.flameCounts)

	stats := WindowStats{
		WindowStartTick:    c.windowStartTick,
		WindowEndTick:      currentTick,
		SceneTimeSec:       float64(currentTick) * c.dt,
		Clicks:             c.clicks,
		SubjectClicks:      c.subject,
		Navigations:        c.navigations,
		Misses:             c.misses,
		ExpressionAdvances: c.advances,
		Expression:         expression,
		HoverRatio:         hoverRatio,
		AuraSkippedTicks:   c.auraSkipped,
		EmitterTicks:       c.emitterTicks,
		FlameMean:          mean,
		FlameP50:           p50,
		FlameP90:           p90,
		Sweeps:             c.sweeps,
	}

	c.windowStartTick = currentTick
	c.clicks = 0
	c.subject = 0
	c.navigations = 0
	c.misses = 0
	c.advances = 0
	c.hoverTicks = 0
	c.auraSkipped = 0
	c.emitterTicks = 0
	c.sweeps = 0
	c.flameCounts = c.flameCounts[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
