package game

// flushTelemetry closes the stats window once it is due and writes the
// results.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	movers := len(g.walkers)
	if g.player != nil {
		movers++
	}
	stats := g.collector.Flush(g.tick, movers, g.Moving())
	perfStats := g.profiler.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			g.logger.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
	g.writeEvents()
}

// writeEvents drains the recorder into events.csv.
func (g *Game) writeEvents() {
	records := g.recorder.Drain()
	if err := g.outputManager.WriteEvents(records); err != nil {
		g.logger.Error("failed to write events", "error", err)
	}
}
