package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/game"
	"github.com/pthm-cable/pursuit/telemetry"
)

// FitnessEvaluator runs headless games and scores how well hunters press
// their targets.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64
	logger      *slog.Logger
	gameLogger  *slog.Logger

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestTotals  telemetry.HunterStats
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator. Game logs are discarded; run
// failures are reported to logger.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config, logger *slog.Logger) *FitnessEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		logger:      logger,
		gameLogger:  slog.New(slog.DiscardHandler),
		bestFitness: math.Inf(1),
	}
}

// BestTotals returns the summed hunter counters of the best evaluation.
func (fe *FitnessEvaluator) BestTotals() telemetry.HunterStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestTotals
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single game run.
type runResult struct {
	hunters     int
	simSeconds  float64
	totals      telemetry.HunterStats
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	var sum telemetry.HunterStats
	for _, r := range results {
		totalFitness += fe.computeFitness(r)
		totalQuality += computeQuality(r.windowStats)
		sum.Detections += r.totals.Detections
		sum.Attacks += r.totals.Attacks
		sum.Slides += r.totals.Slides
		sum.Stalls += r.totals.Stalls
		sum.Damage += r.totals.Damage
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestTotals = sum
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless game with the given parameters.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	if err := cfg.Validate(); err != nil {
		fe.logger.Warn("run failed", "seed", seed, "error", err)
		return result
	}

	g, err := game.New(cfg, game.Options{
		Seed:   seed,
		Logger: fe.gameLogger,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		fe.logger.Warn("run failed", "seed", seed, "error", err)
		return result
	}
	defer g.Close()

	_ = g.Run(context.Background(), fe.maxTicks)

	result.hunters = g.Hunters()
	result.simSeconds = float64(g.Tick()) * cfg.Sim.DT
	result.totals = g.Totals()
	return result
}

// copyConfig returns a copy of the base config with file output disabled.
// Slices are shared; nothing in a run writes to them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Telemetry.OutputDir = ""
	cfg.Telemetry.StatsWindow = fe.statsWindow
	cfg.Rederive()
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(damagePerHunterSecond × (1.0 + 0.2 × quality))
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.hunters == 0 || r.simSeconds == 0 {
		return 0
	}
	rate := r.totals.Damage / float64(r.hunters) / r.simSeconds
	return -(rate * (1.0 + 0.2*computeQuality(r.windowStats)))
}

// Quality component weights.
const (
	qualityWeightContact = 0.5
	qualityWeightSlide   = 0.3
	qualityWeightReplan  = 0.2

	qualityContactScale = 3.0 // seconds
	qualityReplanTarget = 2.0 // replans per hunter per second
)

// computeQuality scores pursuit quality in [0, 1] from window stats:
// quick contact after detection, sliding rather than stalling, and a
// replan rate that does not thrash.
func computeQuality(windows []telemetry.WindowStats) float64 {
	var contacts, slides, replans []float64
	for _, w := range windows {
		if w.ContactMean > 0 {
			contacts = append(contacts, w.ContactMean)
		}
		if w.Slides+w.Stalls > 0 {
			slides = append(slides, w.SlideRate)
		}
		replans = append(replans, w.ReplanRate)
	}
	if len(windows) == 0 {
		return 0
	}

	contactScore := 0.0
	if len(contacts) > 0 {
		contactScore = math.Exp(-stat.Mean(contacts, nil) / qualityContactScale)
	}
	slideScore := 1.0
	if len(slides) > 0 {
		slideScore = stat.Mean(slides, nil)
	}
	replanScore := math.Exp(-math.Pow(stat.Mean(replans, nil)/qualityReplanTarget, 2))

	quality := qualityWeightContact*contactScore +
		qualityWeightSlide*slideScore +
		qualityWeightReplan*replanScore
	return min(max(quality, 0), 1)
}
