package game

import "log/slog"

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.simTime, g.fields)
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		for _, s := range stats {
			s.LogStats()
		}
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// DumpParticles appends every pool slot to particles.csv.
// No-op when output is disabled.
func (g *Game) DumpParticles() error {
	if g.outputManager == nil {
		return nil
	}
	if err := g.outputManager.WriteParticles(g.tick, g.fields); err != nil {
		return err
	}
	slog.Info("particles dumped", "tick", g.tick, "dir", g.outputManager.Dir())
	return nil
}
