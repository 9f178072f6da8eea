package maze

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Validate checks that g is a perfect maze: wall state is symmetric, every
// cell was visited, the passages connect all cells and contain no cycle.
func Validate(g *Grid) error {
	if err := g.CheckSymmetry(); err != nil {
		return err
	}
	for i := range g.cells {
		if !g.cells[i].Visited {
			return fmt.Errorf("%w: cell %v never visited", ErrDisconnected, g.CoordAt(i))
		}
	}

	ug := PassageGraph(g)
	if comps := topo.ConnectedComponents(ug); len(comps) != 1 {
		return fmt.Errorf("%w: %d components", ErrDisconnected, len(comps))
	}
	// A connected graph on n nodes is a tree iff it has n-1 edges
	if edges := ug.Edges().Len(); edges != g.Len()-1 {
		return fmt.Errorf("%w: %d passages for %d cells", ErrCyclic, edges, g.Len())
	}
	return nil
}

// PassageGraph returns the undirected graph whose nodes are cell indices and
// whose edges are the open interior walls.
func PassageGraph(g *Grid) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := range g.cells {
		ug.AddNode(simple.Node(i))
	}
	for i := range g.cells {
		c := g.CoordAt(i)
		for _, d := range [...]Direction{Right, Front} {
			n := c.Step(d)
			if g.In(n) && !g.cells[i].walls[d] {
				ug.SetEdge(ug.NewEdge(simple.Node(i), simple.Node(g.Index(n))))
			}
		}
	}
	return ug
}
