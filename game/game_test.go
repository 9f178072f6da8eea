package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
	"github.com/pthm-cable/antmaze/telemetry"
)

func init() {
	config.MustInit("")
}

func testConfig(t *testing.T, width, depth int) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Maze.Width = width
	cfg.Maze.Depth = depth
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := NewGame(opts)
	require.NoError(t, err)
	t.Cleanup(func() { g.Unload() })
	return g
}

func TestInitializeRequiresFinishedMaze(t *testing.T) {
	cfg := testConfig(t, 3, 3)
	cfg.Maze.CellDelay = 1.0
	g := newTestGame(t, Options{Seed: 1, AntCount: 2, Config: cfg})

	assert.ErrorIs(t, g.InitializeSimulation(2), maze.ErrNotReady)
	_, err := g.SpawnAnt(0, 0)
	assert.ErrorIs(t, err, maze.ErrNotReady)

	require.NoError(t, g.Step(0.5))
	assert.False(t, g.Initialized(), "paced generation needs several steps")
	assert.Nil(t, g.Field())

	for i := 0; i < 100 && !g.Initialized(); i++ {
		require.NoError(t, g.Step(0.5))
	}
	require.True(t, g.Initialized())
	assert.Equal(t, int32(0), g.Tick(), "generation steps are not simulation ticks")
	assert.Equal(t, 2, g.AntCount())

	assert.ErrorIs(t, g.InitializeSimulation(2), ErrAlreadyInitialized)
	assert.Equal(t, 2, g.AntCount())
}

func TestInitializeLayout(t *testing.T) {
	cfg := testConfig(t, 4, 3)
	g := newTestGame(t, Options{Seed: 7, AntCount: 5, Config: cfg})
	require.NoError(t, g.Step(cfg.Simulation.DT))
	require.True(t, g.Initialized())

	colony := maze.Coord{X: 3, Z: 2}
	field := g.Field()
	require.NotNil(t, field)
	assert.Equal(t, colony, field.Colony().Cell())
	assert.Equal(t, maze.Coord{X: 0, Z: 0}, field.Food().Cell())
	assert.Len(t, field.Nodes(), 12)
	assert.False(t, g.Grid().HasWall(colony, maze.Right), "colony is opened to the outside")
	assert.True(t, g.Grid().HasWall(maze.Coord{X: 3, Z: 0}, maze.Right))
	require.NoError(t, maze.Validate(g.Grid()))
	assert.GreaterOrEqual(t, g.ShortestPath(), 5.0, "manhattan distance bounds the maze distance")

	ants := g.Ants()
	require.Len(t, ants, 5)
	ids := map[uint32]bool{}
	for _, a := range ants {
		ids[a.Ant.ID] = true
		assert.Equal(t, components.Seeking, a.Ant.State)
		assert.InDelta(t, 3.0, a.Position.X, 1e-9)
		assert.InDelta(t, 2.0, a.Position.Z, 1e-9)
		assert.NotNil(t, a.Ant.Current)
		require.NotEmpty(t, a.Ant.ReturnPath)
		assert.Equal(t, field.Colony(), a.Ant.ReturnPath[0])
		assert.GreaterOrEqual(t, a.Speed, cfg.Derived.MinSpeed)
		assert.LessOrEqual(t, a.Speed, cfg.Ant.BaseSpeed+cfg.Ant.SpeedJitter)
	}
	assert.Len(t, ids, 5, "ant IDs are unique")
}

// A single ant in a 3×3 maze without decay finds food. Its outbound leg is
// never shorter than the maze distance from colony to food, and matches it
// exactly when no dead end was marked on the way.
func TestSingleAntFindsFood(t *testing.T) {
	cfg := testConfig(t, 3, 3)
	reached := 0

	for seed := int64(1); seed <= 8; seed++ {
		g := newTestGame(t, Options{Seed: seed, AntCount: 1, Config: cfg, DisableDecay: true})
		require.NoError(t, g.Step(cfg.Simulation.DT))
		require.True(t, g.Initialized())
		shortest := g.ShortestPath()

		for i := 0; i < 60000; i++ {
			require.NoError(t, g.Step(cfg.Simulation.DT), "seed %d", seed)
			ant := g.Ants()[0].Ant
			if ant.State != components.Returning {
				continue
			}

			reached++
			assert.GreaterOrEqual(t, float64(ant.LastLeg.Hops), shortest, "seed %d", seed)
			if g.Field().Snapshot().DeadEnds == 0 {
				assert.Equal(t, shortest, float64(ant.LastLeg.Hops), "seed %d: direct walk", seed)
			}
			assert.Greater(t, ant.LastLeg.Seconds, 0.0)
			assert.NotEqual(t, g.Field().Food(), ant.Current, "returning ant walks away from food")
			assert.False(t, ant.Current.DeadEnd())
			assert.Equal(t, 110.0, g.Field().Food().Concentration(),
				"food is saturated then marked with a carrying deposit")
			break
		}
	}
	assert.Positive(t, reached, "no seed reached food")
}

func TestSingleCellMazeRejected(t *testing.T) {
	cfg := testConfig(t, 1, 1)
	g := newTestGame(t, Options{Seed: 1, AntCount: 1, Config: cfg})

	err := g.Step(cfg.Simulation.DT)
	assert.ErrorIs(t, err, ErrSharedCell)
	assert.False(t, g.Initialized())
	assert.Nil(t, g.Field())
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := testConfig(t, 5, 5)
	run := func() []AntView {
		g := newTestGame(t, Options{Seed: 99, AntCount: 4, Config: cfg})
		for i := 0; i < 2000; i++ {
			require.NoError(t, g.Step(cfg.Simulation.DT))
		}
		return g.Ants()
	}

	a, b := run(), run()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Position, b[i].Position)
		assert.Equal(t, a[i].Ant.Current.Cell(), b[i].Ant.Current.Cell())
		assert.Equal(t, a[i].Ant.State, b[i].Ant.State)
	}
}

func TestDecaySwitch(t *testing.T) {
	cfg := testConfig(t, 4, 4)

	decays := func(disable bool) int {
		var total int
		g := newTestGame(t, Options{
			Seed:           3,
			AntCount:       2,
			Config:         cfg,
			StatsWindowSec: 1,
			DisableDecay:   disable,
			StatsCallback: func(s telemetry.WindowStats) {
				total += s.Decays
			},
		})
		// The first step only builds the maze
		for i := 0; i <= 600; i++ {
			require.NoError(t, g.Step(cfg.Simulation.DT))
		}
		return total
	}

	assert.Zero(t, decays(true))
	// 600 ticks at 1/60 s is 10 s, one decay every 0.5 s
	assert.InDelta(t, 20, decays(false), 1)
}

func TestStatsWindows(t *testing.T) {
	cfg := testConfig(t, 4, 4)
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		Seed:           5,
		AntCount:       3,
		Config:         cfg,
		StatsWindowSec: 1,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	for i := 0; i <= 300; i++ {
		require.NoError(t, g.Step(cfg.Simulation.DT))
	}

	require.Len(t, windows, 5)
	for _, w := range windows {
		assert.Equal(t, 3, w.Seeking+w.Returning)
		assert.GreaterOrEqual(t, w.PheromoneTotal, 0.0)
	}
	assert.Equal(t, windows[4], g.Stats())
	assert.Equal(t, int32(300), windows[4].WindowEndTick)
}

func TestOutputFiles(t *testing.T) {
	cfg := testConfig(t, 4, 4)
	dir := t.TempDir()
	snapDir := filepath.Join(dir, "snapshots")

	g, err := NewGame(Options{
		Seed:           11,
		AntCount:       3,
		Config:         cfg,
		StatsWindowSec: 1,
		OutputDir:      dir,
		SnapshotDir:    snapDir,
	})
	require.NoError(t, err)
	for i := 0; i < 240; i++ {
		require.NoError(t, g.Step(cfg.Simulation.DT))
	}
	require.NoError(t, g.Unload())

	for _, name := range []string{"config.yaml", "manifest.yaml", "telemetry.csv", "perf.csv", "trips.csv", "bookmarks.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), g.RunID())
}

func TestSnapshotCapturesField(t *testing.T) {
	cfg := testConfig(t, 3, 2)
	g := newTestGame(t, Options{Seed: 2, AntCount: 2, Config: cfg})
	for i := 0; i < 120; i++ {
		require.NoError(t, g.Step(cfg.Simulation.DT))
	}

	s := g.createSnapshot(&telemetry.Bookmark{Type: telemetry.BookmarkFirstFood})
	assert.Equal(t, g.RunID(), s.RunID)
	assert.Equal(t, 3, s.MazeWidth)
	assert.Len(t, s.Nodes, 6)
	assert.Len(t, s.Ants, 2)

	roles := map[string]int{}
	for _, n := range s.Nodes {
		roles[n.Role]++
	}
	assert.Equal(t, 1, roles[pheromone.RoleColony.String()])
	assert.Equal(t, 1, roles[pheromone.RoleFood.String()])
}
