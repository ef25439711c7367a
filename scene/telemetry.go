package scene

import (
	"log/slog"

	"github.com/pthm-cable/shrine/telemetry"
)

// flushTelemetry closes the stats window when it is full and writes it out.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.Expression.CurrentIndex)
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// PerfStats returns the current tick timing statistics.
func (s *Scene) PerfStats() telemetry.PerfStats {
	return s.perf.Stats()
}
