// Package game wires the pursuit agents, drones and collision world into a
// headless tick loop with telemetry.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/pursuit/collision"
	"github.com/pthm-cable/pursuit/components"
	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/pursuit"
	"github.com/pthm-cable/pursuit/systems"
	"github.com/pthm-cable/pursuit/telemetry"
)

// Options holds the run settings that are not part of the config file.
type Options struct {
	Seed          int64  // 0 = use sim.seed
	LogStats      bool   // log window and perf stats
	OutputDir     string // overrides telemetry.output_dir when set
	Logger        *slog.Logger
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete sandbox state.
type Game struct {
	cfg    *config.Config
	world  *ecs.World
	rng    *rand.Rand
	seed   int64
	logger *slog.Logger

	hunterMapper *ecs.Map3[components.Position, components.Heading, components.Hunter]
	droneMapper  *ecs.Map5[components.Position, components.Heading, components.Drone, components.Battery, components.Patrol]
	droneFilter  ecs.Filter3[components.Position, components.Drone, components.Battery]

	arena     *Arena
	collision *collision.World
	drones    *systems.DroneSystem
	targets   *systems.TargetGrid
	pursuit   *systems.PursuitSystem
	registry  *systems.SystemRegistry
	feedback  *Feedback

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// State
	tick       int32
	nextID     uint32
	numHunters int
	numDrones  int
	pursuing   int
}

// New builds the arena, spawns the population and opens output files.
func New(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	outputDir := cfg.Telemetry.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:          cfg,
		world:        world,
		rng:          rand.New(rand.NewSource(seed)),
		seed:         seed,
		logger:       logger,
		hunterMapper: ecs.NewMap3[components.Position, components.Heading, components.Hunter](world),
		droneMapper:  ecs.NewMap5[components.Position, components.Heading, components.Drone, components.Battery, components.Patrol](world),
		droneFilter:  *ecs.NewFilter3[components.Position, components.Drone, components.Battery](world),

		registry:      systems.NewSystemRegistry(),
		feedback:      NewFeedback(logger),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Sim.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}

	keepClear := make([]r3.Vec, 0, len(cfg.Hunters.Spawns)+len(cfg.Drones.Spawns))
	for _, sp := range cfg.Hunters.Spawns {
		keepClear = append(keepClear, r3.Vec{X: sp.X, Z: sp.Z})
	}
	for _, sp := range cfg.Drones.Spawns {
		keepClear = append(keepClear, r3.Vec{X: sp.X, Z: sp.Z})
	}
	g.arena = BuildArena(cfg.Arena, seed, keepClear)
	g.collision = collision.NewWorld(cfg.Arena.GroundY)
	g.arena.Populate(g.collision)

	bounds := systems.Bounds{HalfSize: cfg.Arena.HalfSize, GroundY: cfg.Arena.GroundY}
	radius := math.Max(cfg.Pursuit.DetectionRange, cfg.Pursuit.ChaseDistance)
	g.drones = systems.NewDroneSystem(world, bounds)
	g.targets = systems.NewTargetGrid(world, cfg.Arena.HalfSize, cfg.Sim.GridCellSize, radius)
	g.pursuit = systems.NewPursuitSystem(world)

	g.spawnPopulation()

	if !cfg.Derived.PlannerEnabled {
		logger.Warn("planning grid exceeds node cap, agents will chase directly",
			"grid_side", cfg.Derived.MaxGridSide,
			"max_nodes", pursuit.MaxGridNodes,
		)
	}

	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	g.logSetup()
	return g, nil
}

// Step runs a single tick of the sandbox.
func (g *Game) Step() {
	dt := g.cfg.Sim.DT
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDrones)
	g.drones.Update(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTargetGrid)
	g.targets.Update()

	g.perfCollector.StartPhase(telemetry.PhasePursuit)
	g.collector.SetTick(g.tick)
	g.pursuing = g.pursuit.Update(dt)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Run steps until maxTicks is reached (0 = unbounded) or ctx is done.
func (g *Game) Run(ctx context.Context, maxTicks int) error {
	for maxTicks <= 0 || int(g.tick) < maxTicks {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Step()
	}
	return nil
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 { return g.tick }

// Pursuing returns how many hunters were pursuing after the last tick.
func (g *Game) Pursuing() int { return g.pursuing }

// Hunters returns the number of spawned hunters.
func (g *Game) Hunters() int { return g.numHunters }

// Drones returns the number of spawned drones.
func (g *Game) Drones() int { return g.numDrones }

// DronesDrained returns how many drones have an empty battery.
func (g *Game) DronesDrained() int {
	drained := 0
	query := g.droneFilter.Query()
	for query.Next() {
		_, _, battery := query.Get()
		if battery.Drained() {
			drained++
		}
	}
	return drained
}

// Arena returns the obstacle layout.
func (g *Game) Arena() *Arena { return g.arena }

// Feedback returns the impact and particle sink.
func (g *Game) Feedback() *Feedback { return g.feedback }

// Totals returns the summed hunter counters so far.
func (g *Game) Totals() telemetry.HunterStats {
	return g.collector.Hunters().Sum()
}

// Close writes the final snapshot and closes output files.
func (g *Game) Close() error {
	g.collector.Hunters().Close(g.tick)
	if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
		g.logger.Error("failed to write events", "error", err)
	}
	if path, err := g.outputManager.WriteSnapshot(g.Snapshot()); err != nil {
		g.logger.Error("failed to save snapshot", "error", err)
	} else if path != "" {
		g.logger.Info("snapshot saved", "path", path, "tick", g.tick)
	}
	return g.outputManager.Close()
}
