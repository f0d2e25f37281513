package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/pthm-cable/pursuit/config"
)

func TestRunSimulationReportsInvalidConfig(t *testing.T) {
	base, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	base.Sim.DT = 0

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 10, []int64{7}, base, logger)

	r := fe.runSimulation(pv.DefaultVector(), 7)
	if r.hunters != 0 || r.simSeconds != 0 {
		t.Errorf("result = %+v, want empty", r)
	}
	out := buf.String()
	if !strings.Contains(out, "run failed") || !strings.Contains(out, "seed=7") {
		t.Errorf("log = %q, want a run failed warning for seed 7", out)
	}
}

func TestRunSimulationScoresDamage(t *testing.T) {
	base, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 300, []int64{7}, base, slog.New(slog.NewTextHandler(&buf, nil)))

	r := fe.runSimulation(pv.DefaultVector(), 7)
	if r.hunters == 0 || r.simSeconds == 0 {
		t.Fatalf("result = %+v, want a completed run", r)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected warnings: %s", buf.String())
	}
	if got := fe.computeFitness(r); got > 0 {
		t.Errorf("fitness = %v, want <= 0", got)
	}
}
