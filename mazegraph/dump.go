package mazegraph

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pthm-cable/antmaze/maze"
)

// WriteAdjacency prints one line per cell listing its connected neighbours,
// in x-major cell order.
func WriteAdjacency(w io.Writer, g *Graph) error {
	for _, c := range g.cells {
		names := make([]string, 0, len(g.adj[c]))
		for _, n := range g.adj[c] {
			names = append(names, n.String())
		}
		if _, err := fmt.Fprintf(w, "Cell %v: Connected to %s\n", c, strings.Join(names, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteDistanceMatrix prints the distances from one source cell laid out as
// the maze grid: one row per z, columns by x, two decimals in width 6.
func WriteDistanceMatrix(w io.Writer, m *DistanceMatrix, from maze.Coord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Distance Matrix from %v:\n", from)
	for z := 0; z < m.graph.depth; z++ {
		for x := 0; x < m.graph.width; x++ {
			b.WriteString(formatDistance(m.Distance(from, maze.Coord{X: x, Z: z})))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteAllDistances prints a distance block for every source cell.
func WriteAllDistances(w io.Writer, m *DistanceMatrix) error {
	for _, c := range m.graph.cells {
		if err := WriteDistanceMatrix(w, m, c); err != nil {
			return err
		}
	}
	return nil
}

func formatDistance(v float64) string {
	if math.IsInf(v, 1) {
		return fmt.Sprintf("%6s", "Infinity")
	}
	return fmt.Sprintf("%6.2f", v)
}
