package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/game"
)

func main() {
	// Environment (and .env) supplies flag defaults
	env := config.LoadEnv()

	// CLI flags
	configPath := flag.String("config", env.ConfigPath, "Path to config.yaml (empty = use defaults)")
	ants := flag.Int("ants", 0, "Number of ants (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", env.OutputDir, "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", env.Seed, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = use config, which may be unlimited)")
	noDecay := flag.Bool("no-decay", false, "Disable pheromone decay")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	limit := *maxTicks
	if limit == 0 {
		limit = cfg.Simulation.MaxTicks
	}

	g, err := game.NewGame(game.Options{
		Seed:           rngSeed,
		AntCount:       *ants,
		StatsWindowSec: *statsWindow,
		DisableDecay:   *noDecay,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		SnapshotDir:    *snapshotDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"run_id", g.RunID(),
		"seed", rngSeed,
		"maze", []int{cfg.Maze.Width, cfg.Maze.Depth},
		"max_ticks", limit,
	)

	for {
		if err := g.Step(cfg.Simulation.DT); err != nil {
			slog.Error("simulation failed", "tick", g.Tick(), "error", err)
			g.Unload()
			os.Exit(1)
		}

		if limit > 0 && int(g.Tick()) >= limit {
			slog.Info("max ticks reached",
				"tick", g.Tick(),
				"deliveries", g.Deliveries(),
			)
			break
		}
	}

	if err := g.Unload(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
