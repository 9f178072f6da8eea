// Package mazegraph turns a finished maze into an adjacency graph and computes
// all-pairs shortest-path distances over it.
//
// The graph is derived from wall state only and is never mutated; changing the
// maze means building a new graph. Edges have unit weight.
package mazegraph

import (
	"github.com/pthm-cable/antmaze/maze"
)

// Graph maps each cell to the cells reachable from it without crossing a wall.
type Graph struct {
	width, depth int
	cells        []maze.Coord // x-major, matches maze.Grid.Index
	adj          map[maze.Coord][]maze.Coord
}

// BuildAdjacency derives the adjacency list of every cell in grid.
// Neighbours are listed in the order left, right, back, front.
func BuildAdjacency(grid *maze.Grid) *Graph {
	g := &Graph{
		width: grid.Width(),
		depth: grid.Depth(),
		cells: make([]maze.Coord, 0, grid.Len()),
		adj:   make(map[maze.Coord][]maze.Coord, grid.Len()),
	}
	for x := 0; x < grid.Width(); x++ {
		for z := 0; z < grid.Depth(); z++ {
			c := maze.Coord{X: x, Z: z}
			g.cells = append(g.cells, c)
			g.adj[c] = connectedCells(grid, c)
		}
	}
	return g
}

// FromGenerator builds the graph of a generator's maze, refusing to read the
// grid before generation has completed.
func FromGenerator(gen *maze.Generator) (*Graph, error) {
	grid, err := gen.Grid()
	if err != nil {
		return nil, err
	}
	return BuildAdjacency(grid), nil
}

func connectedCells(grid *maze.Grid, c maze.Coord) []maze.Coord {
	out := make([]maze.Coord, 0, 4)
	for _, d := range maze.Directions {
		n := c.Step(d)
		if !grid.HasWall(c, d) && grid.In(n) {
			out = append(out, n)
		}
	}
	return out
}

// Width returns the grid width the graph was built from.
func (g *Graph) Width() int { return g.width }

// Depth returns the grid depth the graph was built from.
func (g *Graph) Depth() int { return g.depth }

// Len returns the number of cells.
func (g *Graph) Len() int { return len(g.cells) }

// Cells returns every cell in x-major order. The slice must not be modified.
func (g *Graph) Cells() []maze.Coord { return g.cells }

// Neighbors returns the cells connected to c. The slice must not be modified.
func (g *Graph) Neighbors(c maze.Coord) []maze.Coord { return g.adj[c] }

// Index returns the position of c in Cells, or -1 if c is not in the graph.
func (g *Graph) Index(c maze.Coord) int {
	if c.X < 0 || c.X >= g.width || c.Z < 0 || c.Z >= g.depth {
		return -1
	}
	return c.X*g.depth + c.Z
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, ns := range g.adj {
		n += len(ns)
	}
	return n / 2
}
