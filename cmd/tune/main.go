// Package main runs a CMA-ES search over the path planning and chase
// parameters, scoring each candidate by how fast hunters drain drones.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/pursuit/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config file, YAML or TOML (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 3600, "Simulation duration per run in ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Create output directory
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Fixed seeds so every candidate sees the same arenas
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	// Run failures go to stderr; game logs are discarded
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	evaluator := NewFitnessEvaluator(params, *maxTicks, evalSeeds, baseCfg, logger)

	prog, err := newProgress(*outputDir, params, baseCfg, *maxEvals)
	if err != nil {
		log.Fatalf("failed to open progress log: %v", err)
	}
	defer prog.Close()

	// CMA-ES searches the unit cube; the evaluator sees raw values
	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			quality := evaluator.LastQuality()

			improved, err := prog.record(fitness, quality, raw)
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}
			if improved {
				// Checkpoint so an interrupted run keeps its best candidate
				if err := prog.checkpoint(evaluator.BestTotals()); err != nil {
					log.Printf("checkpoint: %v", err)
				}
			}

			// Fitness = -(damage rate × (1 + 0.2×quality)), so recover the rate
			rate := -fitness / (1.0 + 0.2*quality)
			elapsed, remaining := prog.eta()
			marker := ""
			if improved {
				marker = " *"
			}
			fmt.Printf("Eval %d/%d: damage/s=%.3f quality=%.2f (best=%.3f)%s | elapsed: %s, ETA: %s\n",
				prog.evals, *maxEvals, rate, quality, -prog.bestFitness, marker,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	// Seeds already run in parallel inside Evaluate
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}

	// Population size
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}

	// Fall back to the optimizer's final point if no evaluation improved
	if prog.bestParams == nil && result != nil {
		prog.bestParams = params.Clamp(params.Denormalize(result.X))
		if err := prog.checkpoint(evaluator.BestTotals()); err != nil {
			log.Printf("checkpoint: %v", err)
		}
	}
	if prog.bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	elapsed, _ := prog.eta()
	fmt.Printf("\nTuning complete after %d evaluations in %s\n", prog.evals, formatDuration(elapsed))
	fmt.Printf("Best fitness: %.4f\n", prog.bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, prog.bestParams[i])
	}
	fmt.Printf("\nBest config and totals saved to: %s\n", *outputDir)
}
