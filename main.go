package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/pursuit/config"
	"github.com/pthm-cable/pursuit/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config file, .yaml or .toml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window and perf stats via slog")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	debug := flag.Bool("debug", false, "Enable debug logging")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, negative = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config)")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	if *logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ticks := *maxTicks
	if ticks == 0 {
		ticks = config.Cfg().Sim.MaxTicks
	}

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.New(config.Cfg(), game.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Logger:    logger,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation", "max_ticks", ticks)
	runErr := g.Run(ctx, ticks)
	if errors.Is(runErr, context.Canceled) {
		slog.Info("interrupted", "tick", g.Tick())
		runErr = nil
	}

	g.LogSummary()
	if err := g.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
	if runErr != nil {
		slog.Error("run failed", "error", runErr)
		os.Exit(1)
	}
}
