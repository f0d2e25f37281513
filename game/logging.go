package game

import "log/slog"

// logSetup logs the arena and population once the game is built.
func (g *Game) logSetup() {
	g.logger.Info("arena ready",
		"half_size", g.arena.HalfSize,
		"obstacles", len(g.arena.Obstacles),
		"bodies", g.collision.Len(),
		"seed", g.seed,
	)
	g.logger.Info("population ready",
		"hunters", g.numHunters,
		"drones", g.numDrones,
		"grid_side", g.cfg.Derived.MaxGridSide,
		"planner", g.cfg.Derived.PlannerEnabled,
	)

	for _, cat := range g.registry.Categories() {
		infos := g.registry.ByCategory(cat)
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.Name
		}
		g.logger.Debug("systems", "category", cat, "names", names)
	}
}

// LogSummary logs end-of-run totals.
func (g *Game) LogSummary() {
	totals := g.Totals()
	bursts, particles := g.feedback.Particles()
	g.logger.Info("run summary",
		"tick", g.tick,
		"sim_time", float64(g.tick)*g.cfg.Sim.DT,
		slog.Group("hunters",
			"detections", totals.Detections,
			"losses", totals.Losses,
			"replans", totals.Replans,
			"attacks", totals.Attacks,
			"slides", totals.Slides,
			"stalls", totals.Stalls,
			"damage", totals.Damage,
		),
		slog.Group("feedback",
			"impacts", g.feedback.Impacts(),
			"bursts", bursts,
			"particles", particles,
		),
		"drones_drained", g.DronesDrained(),
	)
}
