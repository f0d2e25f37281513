package game

import (
	"github.com/pthm-cable/pursuit/telemetry"
)

// flushTelemetry closes the stats window when it is due and writes output.
func (g *Game) flushTelemetry() {
	if g.cfg.Telemetry.StatsWindow <= 0 || !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleWorld())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats(g.logger)
		perfStats.LogStats(g.logger)
	}

	if err := g.outputManager.WriteStats(stats); err != nil {
		g.logger.Error("failed to write pursuit stats", "error", err)
	}
	if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
		g.logger.Error("failed to write events", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}

// sampleWorld collects counts and drone charge for the window stats.
func (g *Game) sampleWorld() telemetry.WorldSample {
	sample := telemetry.WorldSample{
		Hunters:   g.numHunters,
		Pursuing:  g.pursuing,
		Batteries: make([]float64, 0, g.numDrones),
	}
	query := g.droneFilter.Query()
	for query.Next() {
		_, _, battery := query.Get()
		sample.Batteries = append(sample.Batteries, battery.Fraction())
	}
	return sample
}

// Snapshot builds a snapshot of the current hunters and drones.
func (g *Game) Snapshot() *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Seed:    g.seed,
		Tick:    g.tick,
	}

	tracker := g.collector.Hunters()
	for _, s := range g.pursuit.Snapshots(nil) {
		snapshot.Hunters = append(snapshot.Hunters, telemetry.NewHunterState(s, tracker.Get(s.ID)))
	}

	query := g.droneFilter.Query()
	for query.Next() {
		pos, drone, battery := query.Get()
		snapshot.Drones = append(snapshot.Drones, telemetry.DroneState{
			ID:      drone.ID,
			X:       pos.X,
			Y:       pos.Y,
			Z:       pos.Z,
			Battery: battery.Current(),
		})
	}
	return snapshot
}
