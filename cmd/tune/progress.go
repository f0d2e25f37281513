package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/telemetry"
)

// progress records every evaluation to tune_log.csv and checkpoints the best
// candidate whenever it improves, so an interrupted run keeps its result.
type progress struct {
	dir      string
	params   *ParamVector
	base     *config.Config
	maxEvals int

	file *os.File
	log  *csv.Writer

	evals       int
	start       time.Time
	bestFitness float64
	bestParams  []float64
}

func newProgress(dir string, params *ParamVector, base *config.Config, maxEvals int) (*progress, error) {
	f, err := os.Create(filepath.Join(dir, "tune_log.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	p := &progress{
		dir:         dir,
		params:      params,
		base:        base,
		maxEvals:    maxEvals,
		file:        f,
		log:         csv.NewWriter(f),
		start:       time.Now(),
		bestFitness: 1e9,
	}

	// Header: eval, fitness, quality, improved, then one column per parameter
	header := []string{"eval", "fitness", "quality", "improved"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := p.log.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing log header: %w", err)
	}
	return p, nil
}

// record logs one evaluation of raw (denormalized) values and reports whether
// it is the best so far. Values are clamped to what the run actually used.
func (p *progress) record(fitness, quality float64, raw []float64) (bool, error) {
	p.evals++
	clamped := p.params.Clamp(raw)

	improved := fitness < p.bestFitness
	if improved {
		p.bestFitness = fitness
		p.bestParams = clamped
	}

	row := []string{
		strconv.Itoa(p.evals),
		fmt.Sprintf("%.6f", fitness),
		fmt.Sprintf("%.4f", quality),
		strconv.FormatBool(improved),
	}
	for _, v := range clamped {
		row = append(row, fmt.Sprintf("%.6f", v))
	}
	if err := p.log.Write(row); err != nil {
		return improved, err
	}
	p.log.Flush()
	return improved, p.log.Error()
}

// checkpoint writes best_config.yaml and best_totals.json for the best
// parameters seen so far.
func (p *progress) checkpoint(totals telemetry.HunterStats) error {
	if p.bestParams == nil {
		return nil
	}
	cfg := *p.base
	p.params.ApplyToConfig(&cfg, p.bestParams)
	if err := cfg.WriteYAML(filepath.Join(p.dir, "best_config.yaml")); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}

	data, err := json.MarshalIndent(totals, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling totals: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.dir, "best_totals.json"), data, 0644); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return nil
}

// eta estimates the remaining wall time from the average evaluation so far.
func (p *progress) eta() (elapsed, remaining time.Duration) {
	elapsed = time.Since(p.start)
	if p.evals == 0 {
		return elapsed, 0
	}
	avgPerEval := elapsed / time.Duration(p.evals)
	return elapsed, time.Duration(max(p.maxEvals-p.evals, 0)) * avgPerEval
}

func (p *progress) Close() error {
	p.log.Flush()
	return p.file.Close()
}
