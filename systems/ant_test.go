package systems

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
)

func init() {
	config.MustInit("")
}

// corridor builds a w×1 maze with colony at the right end and food at the
// left end. Walls listed in closed stay in place (by the x of their left cell).
func corridor(t *testing.T, w int, closed ...int) *pheromone.Field {
	t.Helper()
	grid, err := maze.NewGrid(w, 1)
	require.NoError(t, err)
	for x := 0; x+1 < w; x++ {
		if contains(closed, x) {
			continue
		}
		require.NoError(t, grid.ClearWall(maze.Coord{X: x}, maze.Right))
	}
	f := pheromone.NewField(grid, pheromone.DefaultParams())
	f.Activate()
	require.NoError(t, f.SetRole(maze.Coord{X: w - 1}, pheromone.RoleColony))
	require.NoError(t, f.SetRole(maze.Coord{X: 0}, pheromone.RoleFood))
	return f
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func newPolicy(f *pheromone.Field, seed int64) *AntPolicy {
	return NewAntPolicy(f, NewWallSight(f, 0.25), LinearMover{}, rand.New(rand.NewSource(seed)), DefaultPolicyParams())
}

// standAt places the ant on node c as if it had just arrived there.
func standAt(f *pheromone.Field, ant *components.Ant, c maze.Coord) *components.Position {
	ant.Current = f.Node(c)
	x, z := ant.Current.Position()
	return &components.Position{X: x, Z: z}
}

func TestPolicyParamsFromConfig(t *testing.T) {
	assert.Equal(t, DefaultPolicyParams(), PolicyParamsFromConfig(config.Cfg()))
}

func TestRandomSpeedWithinJitter(t *testing.T) {
	p := newPolicy(corridor(t, 2), 3)
	for i := 0; i < 200; i++ {
		s := p.RandomSpeed(0.5, 0.2)
		assert.GreaterOrEqual(t, s, 0.3)
		assert.Less(t, s, 0.7)
	}
}

func TestInitAntStartsAtNearestNode(t *testing.T) {
	f := corridor(t, 4)
	p := newPolicy(f, 1)

	var ant components.Ant
	pos := &components.Position{X: 2.9, Z: 0.1}
	_, err := p.InitAnt(&ant, pos)
	require.NoError(t, err)

	colony := f.Colony()
	require.NotEmpty(t, ant.ReturnPath)
	assert.Same(t, colony, ant.ReturnPath[0])
	assert.Equal(t, components.Seeking, ant.State)
	require.NotNil(t, ant.Current)
	assert.Contains(t, []maze.Coord{{X: 3}, {X: 2}}, ant.Current.Cell())
	assert.True(t, ant.HasVisited(ant.Current))
	assert.True(t, ant.HasVisited(colony), "the start node counts as visited")
}

func TestSeekingDoesNotStepBackToStart(t *testing.T) {
	f := corridor(t, 3)
	for seed := int64(1); seed <= 20; seed++ {
		p := newPolicy(f, seed)

		var ant components.Ant
		x, z := f.Colony().Position()
		pos := &components.Position{X: x, Z: z}
		_, err := p.InitAnt(&ant, pos)
		require.NoError(t, err)
		require.Equal(t, maze.Coord{X: 1}, ant.Current.Cell())

		pos = standAt(f, &ant, maze.Coord{X: 1})
		ev, err := p.FindNewTarget(&ant, pos)
		require.NoError(t, err)
		assert.Zero(t, ev, "seed %d", seed)
		assert.Same(t, f.Food(), ant.Current, "seed %d", seed)
	}
}

func TestInitAntEmptyField(t *testing.T) {
	grid, err := maze.NewGrid(2, 2)
	require.NoError(t, err)
	f := pheromone.NewField(grid, pheromone.DefaultParams())
	p := newPolicy(f, 1)

	var ant components.Ant
	_, err = p.InitAnt(&ant, &components.Position{})
	assert.ErrorIs(t, err, ErrNoNodes)
}

func TestSeekingSkipsVisited(t *testing.T) {
	f := corridor(t, 4)
	p := newPolicy(f, 1)

	var ant components.Ant
	pos := standAt(f, &ant, maze.Coord{X: 3})
	ant.Visited = append(ant.Visited, ant.Current)

	ev, err := p.FindNewTarget(&ant, pos)
	require.NoError(t, err)
	assert.Zero(t, ev)
	assert.Equal(t, maze.Coord{X: 2}, ant.Current.Cell())
	assert.Equal(t, maze.Coord{X: 3}, ant.Last.Cell())
}

func TestRoulettePrefersWeakPheromone(t *testing.T) {
	f := corridor(t, 4)
	f.Node(maze.Coord{X: 3}).Deposit(5)

	for seed := int64(0); seed < 50; seed++ {
		p := newPolicy(f, seed)
		var ant components.Ant
		pos := standAt(f, &ant, maze.Coord{X: 2})
		ant.Visited = append(ant.Visited, ant.Current)

		_, err := p.FindNewTarget(&ant, pos)
		require.NoError(t, err)
		assert.Equal(t, maze.Coord{X: 1}, ant.Current.Cell(), "saturated node has zero weight")
	}
}

func TestRouletteUniformWhenAllSaturated(t *testing.T) {
	f := corridor(t, 4)
	f.Node(maze.Coord{X: 1}).Deposit(2)
	f.Node(maze.Coord{X: 3}).Deposit(2)

	picked := map[maze.Coord]int{}
	p := newPolicy(f, 7)
	for i := 0; i < 200; i++ {
		var ant components.Ant
		pos := standAt(f, &ant, maze.Coord{X: 2})
		ant.Visited = append(ant.Visited, ant.Current)
		_, err := p.FindNewTarget(&ant, pos)
		require.NoError(t, err)
		picked[ant.Current.Cell()]++
	}
	assert.Len(t, picked, 2)
	assert.Greater(t, picked[maze.Coord{X: 1}], 50)
	assert.Greater(t, picked[maze.Coord{X: 3}], 50)
}

func TestDeadEndMarkedAndRetreat(t *testing.T) {
	// Wall between (0,0) and (1,0): (1,0) is a dead end.
	f := corridor(t, 4, 0)
	p := newPolicy(f, 1)

	var ant components.Ant
	pos := standAt(f, &ant, maze.Coord{X: 1})
	ant.Last = f.Node(maze.Coord{X: 2})
	ant.Visited = append(ant.Visited, ant.Last, ant.Current)

	ev, err := p.FindNewTarget(&ant, pos)
	require.NoError(t, err)
	assert.True(t, ev.Has(EventDeadEnd|EventRetreat))
	assert.True(t, f.Node(maze.Coord{X: 1}).DeadEnd())
	assert.Equal(t, maze.Coord{X: 2}, ant.Current.Cell())
	assert.Equal(t, []*pheromone.Node{ant.Current}, ant.Visited, "visited list restarts after backtracking")

	// The dead end is never chosen again, even with visited cleared.
	for seed := int64(0); seed < 50; seed++ {
		p := newPolicy(f, seed)
		var ant components.Ant
		pos := standAt(f, &ant, maze.Coord{X: 2})
		_, err := p.FindNewTarget(&ant, pos)
		require.NoError(t, err)
		assert.NotEqual(t, maze.Coord{X: 1}, ant.Current.Cell())
		assert.True(t, f.Node(maze.Coord{X: 1}).DeadEnd())
	}
}

func TestSpecialNodesNeverDeadEnd(t *testing.T) {
	// Isolated colony: nothing else is visible from it.
	f := corridor(t, 2, 0)
	p := newPolicy(f, 1)

	var ant components.Ant
	pos := standAt(f, &ant, maze.Coord{X: 1})
	ant.Visited = append(ant.Visited, ant.Current)

	ev, err := p.FindNewTarget(&ant, pos)
	require.NoError(t, err)
	assert.False(t, f.Colony().DeadEnd())
	assert.True(t, ev.Has(EventFallback))
	assert.False(t, ev.Has(EventDeadEnd))
	assert.Same(t, f.Colony(), ant.Current)
}

type blindSight struct{}

func (blindSight) Visible(from, to *pheromone.Node) bool { return false }

func TestFallbackFailsLoudly(t *testing.T) {
	f := corridor(t, 3)
	p := NewAntPolicy(f, blindSight{}, LinearMover{}, rand.New(rand.NewSource(1)), DefaultPolicyParams())

	var ant components.Ant
	pos := standAt(f, &ant, maze.Coord{X: 1})
	ant.Last = f.Node(maze.Coord{X: 2})
	ant.Last.MarkDeadEnd()

	_, err := p.FindNewTarget(&ant, pos)
	assert.ErrorIs(t, err, ErrNoVisibleTarget)
}

func TestFindReturnTargetSkipsDeadEnds(t *testing.T) {
	f := corridor(t, 5)
	p := newPolicy(f, 1)
	node := func(x int) *pheromone.Node { return f.Node(maze.Coord{X: x}) }

	ant := components.Ant{
		State:      components.Returning,
		Current:    node(0),
		ReturnPath: []*pheromone.Node{node(4), node(3), node(2), node(1), node(0)},
	}
	node(2).MarkDeadEnd()

	var got []int
	for {
		err := p.FindReturnTarget(&ant)
		if err != nil {
			assert.ErrorIs(t, err, ErrReturnPathExhausted)
			break
		}
		got = append(got, ant.Current.Cell().X)
	}
	assert.Equal(t, []int{1, 3, 4}, got)
}

func TestReturnPathTerminatesAtColony(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 50; trial++ {
		grid, err := maze.Generate(5, 5, 0, rng)
		require.NoError(t, err)
		f := pheromone.NewField(grid, pheromone.DefaultParams())
		f.Activate()
		require.NoError(t, f.SetRole(maze.Coord{X: 4, Z: 4}, pheromone.RoleColony))
		require.NoError(t, f.SetRole(maze.Coord{X: 0, Z: 0}, pheromone.RoleFood))

		// Random stack of plain nodes on top of the colony, some marked dead end.
		nodes := f.Nodes()
		path := []*pheromone.Node{f.Colony()}
		for i := 0; i < 1+rng.Intn(30); i++ {
			n := nodes[rng.Intn(len(nodes)-2)]
			if rng.Intn(3) == 0 {
				n.MarkDeadEnd()
			}
			path = append(path, n)
		}
		path = append(path, f.Food())

		ant := components.Ant{State: components.Returning, Current: f.Food(), ReturnPath: path}
		p := newPolicy(f, int64(trial))
		steps := 0
		for ant.Current != f.Colony() {
			require.NoError(t, p.FindReturnTarget(&ant))
			assert.False(t, ant.Current.DeadEnd())
			steps++
			require.LessOrEqual(t, steps, len(path))
		}
	}
}

func TestVisitTargetTransitions(t *testing.T) {
	f := corridor(t, 3)
	p := newPolicy(f, 1)
	food, colony := f.Food(), f.Colony()

	ant := components.Ant{
		Current:    food,
		ReturnPath: []*pheromone.Node{colony, f.Node(maze.Coord{X: 1})},
		Visited:    []*pheromone.Node{f.Node(maze.Coord{X: 1}), food},
		LegSeconds: 4,
		LegHops:    1,
	}
	ev := p.VisitTarget(&ant)
	assert.True(t, ev.Has(EventFoundFood))
	assert.Equal(t, components.Returning, ant.State)
	assert.Empty(t, ant.Visited)
	assert.Same(t, food, ant.ReturnPath[len(ant.ReturnPath)-1])
	assert.InDelta(t, 100+10, food.Concentration(), 1e-9, "food saturates then takes a carrying deposit")
	assert.Equal(t, components.Leg{Seconds: 4, Hops: 2}, ant.LastLeg)

	ant.Current = colony
	ev = p.VisitTarget(&ant)
	assert.True(t, ev.Has(EventDelivered))
	assert.Equal(t, components.Seeking, ant.State)
	assert.Equal(t, 1, ant.Deliveries)
	assert.Equal(t, []*pheromone.Node{colony}, ant.ReturnPath)
	assert.Equal(t, []*pheromone.Node{colony}, ant.Visited, "a new leg starts with the colony visited")
	assert.InDelta(t, 1.0, colony.Concentration(), 1e-9)
}

func TestVisitTargetDepositMultiplier(t *testing.T) {
	f := corridor(t, 3)
	p := newPolicy(f, 1)
	mid := f.Node(maze.Coord{X: 1})

	seeking := components.Ant{Current: mid}
	p.VisitTarget(&seeking)
	assert.InDelta(t, 1.0, mid.Concentration(), 1e-9)
	assert.Equal(t, []*pheromone.Node{mid}, seeking.ReturnPath)

	returning := components.Ant{Current: mid, State: components.Returning}
	p.VisitTarget(&returning)
	assert.InDelta(t, 11.0, mid.Concentration(), 1e-9)
	assert.Empty(t, returning.ReturnPath, "returning ants do not extend the return path")
}

func TestUpdateMovesThenArrives(t *testing.T) {
	f := corridor(t, 3)
	p := newPolicy(f, 1)

	ant := components.Ant{Current: f.Node(maze.Coord{X: 1})}
	pos := &components.Position{X: 2, Z: 0}
	motion := &components.Motion{Speed: 0.5}

	ev, err := p.Update(&ant, pos, motion, 1)
	require.NoError(t, err)
	assert.Zero(t, ev)
	assert.InDelta(t, 1.5, pos.X, 1e-9)
	assert.Equal(t, 0, ant.LegHops)

	_, err = p.Update(&ant, pos, motion, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pos.X, 1e-9)
	assert.Equal(t, 1, ant.LegHops)
	assert.InDelta(t, 1.0, f.Node(maze.Coord{X: 1}).Concentration(), 1e-9)
	assert.NotNil(t, ant.Current)
}
