package game

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
	"github.com/pthm-cable/antmaze/systems"
)

// InitializeSimulation places the colony and the food in the finished maze
// and spawns antCount ants at the colony.
//
// The colony sits in the far corner (W-1, D-1) with its outer right wall
// opened; the food sits in the origin cell.
func (g *Game) InitializeSimulation(antCount int) error {
	if g.initialized {
		return ErrAlreadyInitialized
	}
	grid, err := g.generator.Grid()
	if err != nil {
		return err
	}
	colony := maze.Coord{X: grid.Width() - 1, Z: grid.Depth() - 1}
	food := maze.Coord{X: 0, Z: 0}
	if colony == food {
		return fmt.Errorf("%w: %dx%d maze", ErrSharedCell, grid.Width(), grid.Depth())
	}
	if err := maze.Validate(grid); err != nil {
		return fmt.Errorf("validating maze: %w", err)
	}
	cfg := g.config()

	if err := grid.ClearBoundaryWall(colony, maze.Right); err != nil {
		return fmt.Errorf("opening colony: %w", err)
	}

	field := pheromone.NewField(grid, pheromone.ParamsFromConfig(cfg))
	field.Activate()
	if err := field.SetRole(colony, pheromone.RoleColony); err != nil {
		return err
	}
	if err := field.SetRole(food, pheromone.RoleFood); err != nil {
		return err
	}

	g.grid = grid
	g.field = field
	g.decay = pheromone.NewDecayScheduler(field)
	g.decay.Enabled = cfg.Pheromone.Decay && !g.disableDecay
	g.policy = systems.NewAntPolicy(
		field,
		systems.NewWallSight(field, cfg.Ant.NodeRadius),
		systems.LinearMover{},
		g.rng,
		systems.PolicyParamsFromConfig(cfg),
	)
	g.initialized = true

	g.logMazeSummary(colony, food)

	x, z := field.Colony().Position()
	for i := 0; i < antCount; i++ {
		if _, err := g.SpawnAnt(x, z); err != nil {
			return err
		}
	}
	return nil
}

// SpawnAnt creates an ant at (x, z) with a fresh random speed and points it
// at its first target.
func (g *Game) SpawnAnt(x, z float64) (ecs.Entity, error) {
	if !g.initialized {
		return ecs.Entity{}, maze.ErrNotReady
	}
	cfg := g.config()

	id := g.nextID
	g.nextID++

	pos := components.Position{X: x, Z: z}
	speed := g.policy.RandomSpeed(cfg.Ant.BaseSpeed, cfg.Ant.SpeedJitter)
	motion := components.Motion{Speed: math.Max(speed, cfg.Derived.MinSpeed)}
	ant := components.Ant{ID: id}

	ev, err := g.policy.InitAnt(&ant, &pos)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("spawning ant %d: %w", id, err)
	}

	entity := g.antMapper.NewEntity(&pos, &motion, &ant)
	g.numAnts++

	g.lifetimeTracker.Register(id, g.tick)
	g.recordEvents(&ant, ev)

	return entity, nil
}
