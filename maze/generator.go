package maze

import (
	"fmt"
	"math/rand"
)

// frame is one level of the depth-first carve: a visited cell and the
// neighbours it has not tried yet, in the random order they will be tried.
type frame struct {
	cell       Coord
	candidates []Coord
}

// Generator carves a perfect maze with randomized depth-first backtracking
// starting at cell (0, 0).
//
// Work is split into visits: each Step visits exactly one new cell. Tick paces
// visits by CellDelay seconds of simulated time so a host can show the maze
// being built. Pacing never changes the topology; only the random sequence does.
type Generator struct {
	grid      *Grid
	rng       *rand.Rand
	cellDelay float64

	stack   []frame
	visits  int
	started bool
	done    bool

	elapsed float64 // seconds accumulated by Tick
	nextAt  float64 // elapsed time at which the next visit is due
}

// NewGenerator creates a generator for a width×depth maze.
// cellDelay is the simulated time between visits; <= 0 finishes on the first Tick.
func NewGenerator(width, depth int, cellDelay float64, rng *rand.Rand) (*Generator, error) {
	grid, err := NewGrid(width, depth)
	if err != nil {
		return nil, err
	}
	return &Generator{
		grid:      grid,
		rng:       rng,
		cellDelay: cellDelay,
		stack:     make([]frame, 0, width*depth),
	}, nil
}

// Generate builds a complete maze synchronously.
func Generate(width, depth int, cellDelay float64, rng *rand.Rand) (*Grid, error) {
	gen, err := NewGenerator(width, depth, cellDelay, rng)
	if err != nil {
		return nil, err
	}
	if err := gen.Run(); err != nil {
		return nil, err
	}
	return gen.grid, nil
}

// Done reports whether every cell has been visited. Nothing may read the grid before this.
func (g *Generator) Done() bool { return g.done }

// Progress returns visited and total cell counts.
func (g *Generator) Progress() (visited, total int) {
	return g.visits, g.grid.Len()
}

// Grid returns the finished grid, or ErrNotReady while generation is running.
func (g *Generator) Grid() (*Grid, error) {
	if !g.done {
		return nil, ErrNotReady
	}
	return g.grid, nil
}

// Run steps until generation completes, ignoring pacing.
func (g *Generator) Run() error {
	for !g.done {
		if _, err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Tick advances pacing by dt seconds and performs every visit that has come due.
// It returns true once generation is complete.
func (g *Generator) Tick(dt float64) (bool, error) {
	if g.done {
		return true, nil
	}
	if g.cellDelay <= 0 {
		return true, g.Run()
	}
	g.elapsed += dt
	for !g.done && g.elapsed >= g.nextAt {
		if _, err := g.Step(); err != nil {
			return false, err
		}
		g.nextAt += g.cellDelay
	}
	return g.done, nil
}

// Step visits exactly one new cell, backtracking through exhausted frames as needed.
// It returns true once every cell has been visited.
func (g *Generator) Step() (bool, error) {
	if g.done {
		return true, nil
	}
	if !g.started {
		g.started = true
		if err := g.visit(Coord{}, nil); err != nil {
			return false, err
		}
		return g.done, nil
	}

	for len(g.stack) > 0 {
		top := &g.stack[len(g.stack)-1]
		for len(top.candidates) > 0 {
			next := top.candidates[0]
			top.candidates = top.candidates[1:]
			// A candidate may have been reached through another branch since it was listed
			if g.grid.Cell(next).Visited {
				continue
			}
			from := top.cell
			if err := g.visit(next, &from); err != nil {
				return false, err
			}
			return g.done, nil
		}
		g.stack = g.stack[:len(g.stack)-1]
	}

	// Unreachable for a grid of valid size: the stack empties only after the last visit.
	g.done = true
	return true, nil
}

// visit marks c visited, opens the wall towards the previous cell and pushes
// a frame listing c's unvisited neighbours in random order.
func (g *Generator) visit(c Coord, prev *Coord) error {
	g.grid.Cell(c).Visited = true
	g.visits++

	if prev != nil {
		d, ok := DirectionTo(*prev, c)
		if !ok {
			return fmt.Errorf("%w: %v and %v are not neighbours", ErrMalformedGrid, *prev, c)
		}
		if err := g.grid.ClearWall(*prev, d); err != nil {
			return err
		}
		if err := g.grid.checkPair(*prev, d); err != nil {
			return err
		}
	}

	if g.visits == g.grid.Len() {
		g.done = true
		g.stack = g.stack[:0]
		return nil
	}

	var candidates []Coord
	for _, n := range g.grid.Neighbors(c) {
		if !g.grid.Cell(n).Visited {
			candidates = append(candidates, n)
		}
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	g.stack = append(g.stack, frame{cell: c, candidates: candidates})
	return nil
}
