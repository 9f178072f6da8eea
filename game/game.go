// Package game wires the maze, the pheromone field and the ant colony into
// one tick-driven simulation.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
	"github.com/pthm-cable/antmaze/systems"
	"github.com/pthm-cable/antmaze/telemetry"
)

// ErrAlreadyInitialized is returned by a second InitializeSimulation call.
var ErrAlreadyInitialized = errors.New("game: simulation already initialized")

// ErrSharedCell is returned when the maze is too small to hold the colony and
// the food in separate cells.
var ErrSharedCell = errors.New("game: colony and food share a cell")

// Game holds the complete simulation state.
type Game struct {
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64
	runID   string
	cfg     *config.Config

	antMapper *ecs.Map3[components.Position, components.Motion, components.Ant]
	antFilter *ecs.Filter3[components.Position, components.Motion, components.Ant]

	generator    *maze.Generator
	grid         *maze.Grid
	field        *pheromone.Field
	decay        *pheromone.DecayScheduler
	disableDecay bool
	policy       *systems.AntPolicy

	// Telemetry
	collector        *telemetry.Collector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	perfCollector    *telemetry.PerfCollector
	trips            []telemetry.TripRecord
	lastStats        telemetry.WindowStats
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string

	// State
	tick         int32 // simulation ticks since initialization
	nextID       uint32
	antCount     int
	numAnts      int
	initialized  bool
	shortestPath float64
}

// NewGame creates a game whose maze is generated by the first calls to Step.
func NewGame(opts Options) (*Game, error) {
	world := ecs.NewWorld()

	g := &Game{
		world:           world,
		rng:             rand.New(rand.NewSource(opts.Seed)),
		rngSeed:         opts.Seed,
		cfg:             opts.Config,
		antMapper:       ecs.NewMap3[components.Position, components.Motion, components.Ant](world),
		antFilter:       ecs.NewFilter3[components.Position, components.Motion, components.Ant](world),
		disableDecay:    opts.DisableDecay,
		lifetimeTracker: telemetry.NewLifetimeTracker(),
		statsCallback:   opts.StatsCallback,
		logStats:        opts.LogStats,
		snapshotDir:     opts.SnapshotDir,
	}
	cfg := g.config()

	g.antCount = opts.AntCount
	if g.antCount <= 0 {
		g.antCount = cfg.Ant.Count
	}

	gen, err := maze.NewGenerator(cfg.Maze.Width, cfg.Maze.Depth, cfg.Maze.CellDelay, g.rng)
	if err != nil {
		return nil, fmt.Errorf("creating maze generator: %w", err)
	}
	g.generator = gen

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Simulation.DT)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)
	g.perfCollector = telemetry.NewPerfCollector(int(g.collector.WindowDurationTicks()))

	manifest := telemetry.NewManifest(opts.Seed, cfg.Maze.Width, cfg.Maze.Depth, g.antCount)
	g.runID = manifest.RunID

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	if err := om.WriteManifest(manifest); err != nil {
		om.Close()
		return nil, err
	}
	g.outputManager = om

	return g, nil
}

// Step advances the game by dt seconds.
//
// Until the maze is complete each call performs the generation visits that
// have come due; the call that finishes the maze initializes the colony.
// After that every call is one simulation tick: decay, then every ant in
// turn, then telemetry. Errors from the ant policy are fatal.
func (g *Game) Step(dt float64) error {
	if !g.initialized {
		g.perfCollector.StartTick()
		g.perfCollector.StartPhase(telemetry.PhaseGeneration)
		done, err := g.generator.Tick(dt)
		g.perfCollector.EndTick()
		if err != nil {
			return fmt.Errorf("generating maze: %w", err)
		}
		if !done {
			return nil
		}
		return g.InitializeSimulation(g.antCount)
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseDecay)
	g.updateDecay(dt)

	g.perfCollector.StartPhase(telemetry.PhaseAnts)
	if err := g.updateAnts(dt); err != nil {
		g.perfCollector.EndTick()
		return fmt.Errorf("tick %d: %w", g.tick, err)
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return nil
}

// Tick returns the number of simulation ticks since initialization.
func (g *Game) Tick() int32 {
	return g.tick
}

// Initialized reports whether the maze is complete and the colony placed.
func (g *Game) Initialized() bool {
	return g.initialized
}

// Grid returns the maze, or nil while it is still being generated.
func (g *Game) Grid() *maze.Grid {
	return g.grid
}

// Field returns the pheromone field, or nil before initialization.
func (g *Game) Field() *pheromone.Field {
	return g.field
}

// AntCount returns the number of live ants.
func (g *Game) AntCount() int {
	return g.numAnts
}

// Deliveries returns the total food deliveries so far.
func (g *Game) Deliveries() int {
	return g.collector.TotalDeliveries()
}

// ShortestPath returns the maze distance from colony to food in hops, or 0
// before initialization.
func (g *Game) ShortestPath() float64 {
	return g.shortestPath
}

// Stats returns the most recently flushed stats window.
func (g *Game) Stats() telemetry.WindowStats {
	return g.lastStats
}

// RunID returns the unique identifier of this run.
func (g *Game) RunID() string {
	return g.runID
}

// AntView is a copy of one ant's state.
type AntView struct {
	Entity   ecs.Entity
	Position components.Position
	Speed    float64
	Ant      components.Ant
}

// Ants returns a copy of every ant's state, for tests and diagnostics.
func (g *Game) Ants() []AntView {
	var views []AntView
	query := g.antFilter.Query()
	for query.Next() {
		pos, motion, ant := query.Get()
		view := AntView{
			Entity:   query.Entity(),
			Position: *pos,
			Speed:    motion.Speed,
			Ant:      *ant,
		}
		view.Ant.Visited = append([]*pheromone.Node(nil), ant.Visited...)
		view.Ant.ReturnPath = append([]*pheromone.Node(nil), ant.ReturnPath...)
		views = append(views, view)
	}
	return views
}

// Unload closes the output files.
func (g *Game) Unload() error {
	if len(g.trips) > 0 {
		g.writeTrips()
	}
	return g.outputManager.Close()
}
