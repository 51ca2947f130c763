package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = use config)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Field updates per frame (higher = faster runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	frames := cfg.Simulation.MaxFrames
	if *maxFrames > 0 {
		frames = *maxFrames
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	if !*headless {
		if err := viewer.Run(cfg, opts, frames); err != nil {
			slog.Error("viewer failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Headless mode - pure CPU simulation, no raylib needed
	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"dt", cfg.Simulation.DT,
		"max_frames", frames,
		"steps_per_update", *stepsPerUpdate,
	)

	if frames <= 0 {
		slog.Warn("no frame limit set, running until interrupted")
	}
	for i := 0; frames <= 0 || i < frames; i++ {
		g.UpdateHeadless()
	}
	slog.Info("max frames reached", "frames", frames, "tick", g.Tick(), "sim_time", g.SimTime())
}
