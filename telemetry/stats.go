package telemetry

import (
	"log/slog"
	"sort"

	"github.com/dustin/go-humanize"
)

// WindowStats holds aggregated statistics for one window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SceneTimeSec    float64 `csv:"scene_time"`

	// Pointer
	Clicks             int     `csv:"clicks"`
	SubjectClicks      int     `csv:"subject_clicks"`
	Navigations        int     `csv:"navigations"`
	Misses             int     `csv:"misses"`
	ExpressionAdvances int     `csv:"expression_advances"`
	Expression         int     `csv:"expression"`
	HoverRatio         float64 `csv:"hover_ratio"`

	// Particles
	AuraSkippedTicks int     `csv:"aura_skipped"`
	EmitterTicks     int     `csv:"emitter_ticks"`
	FlameMean        float64 `csv:"flame_mean"`
	FlameP50         float64 `csv:"flame_p50"`
	FlameP90         float64 `csv:"flame_p90"`

	// Sequencer sweeps completed in the window
	Sweeps int `csv:"sweeps"`
}

// Percentile returns the p-th percentile of a sorted slice, interpolating
// linearly. p is in [0, 1]; an empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeCountStats returns the mean, median and 90th percentile.
func ComputeCountStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.5), Percentile(sorted, 0.9)
}

// LogStats logs the window as one stats event.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", humanize.Comma(s.WindowEndTick),
		"scene_time", s.SceneTimeSec,
		"clicks", s.Clicks,
		"subject_clicks", s.SubjectClicks,
		"navigations", s.Navigations,
		"expression", s.Expression,
		"hover_ratio", s.HoverRatio,
		"flame_mean", s.FlameMean,
		"sweeps", s.Sweeps,
	)
}
