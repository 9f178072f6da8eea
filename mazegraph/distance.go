package mazegraph

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/antmaze/maze"
)

// parallelThreshold is the minimum cell count to compute rows concurrently.
// Below this, a single goroutine is faster.
const parallelThreshold = 64

// DistanceMatrix holds shortest hop counts between every pair of cells.
// Unreachable pairs hold +Inf. It is read-only once computed.
type DistanceMatrix struct {
	graph *Graph
	dist  *mat.Dense // row = source index, column = target index
}

// Distance returns the shortest hop count from a to b, or +Inf when b cannot
// be reached or either cell lies outside the graph.
func (m *DistanceMatrix) Distance(a, b maze.Coord) float64 {
	i, j := m.graph.Index(a), m.graph.Index(b)
	if i < 0 || j < 0 {
		return math.Inf(1)
	}
	return m.dist.At(i, j)
}

// Row returns a copy of the distances from source to every cell in Cells order.
func (m *DistanceMatrix) Row(source maze.Coord) []float64 {
	i := m.graph.Index(source)
	if i < 0 {
		return nil
	}
	return mat.Row(nil, i, m.dist)
}

// Graph returns the graph the matrix was computed from.
func (m *DistanceMatrix) Graph() *Graph { return m.graph }

// Dense exposes the underlying matrix for numeric consumers. It must not be modified.
func (m *DistanceMatrix) Dense() mat.Matrix { return m.dist }

// ComputeDistances runs a single-source shortest-path search from every cell.
func ComputeDistances(g *Graph) *DistanceMatrix {
	m := newDistanceMatrix(g)
	for i := range g.cells {
		m.fillRow(i)
	}
	return m
}

// ComputeDistancesParallel produces the same matrix as ComputeDistances,
// spreading sources over a pool of workers. workers <= 0 uses GOMAXPROCS.
// Each worker writes only the rows of its own sources.
func ComputeDistancesParallel(g *Graph, workers int) *DistanceMatrix {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if g.Len() < parallelThreshold || workers == 1 {
		return ComputeDistances(g)
	}

	m := newDistanceMatrix(g)
	sources := make(chan int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range sources {
				m.fillRow(i)
			}
		}()
	}
	for i := range g.cells {
		sources <- i
	}
	close(sources)
	wg.Wait()
	return m
}

func newDistanceMatrix(g *Graph) *DistanceMatrix {
	n := g.Len()
	return &DistanceMatrix{graph: g, dist: mat.NewDense(n, n, nil)}
}

// fillRow writes the shortest distances from source i into row i.
func (m *DistanceMatrix) fillRow(i int) {
	dist := shortestPaths(m.graph, i)
	m.dist.SetRow(i, dist)
}

// shortestPaths is Dijkstra with unit edges and a linear scan for the closest
// unvisited cell. The first minimum found wins ties.
func shortestPaths(g *Graph, source int) []float64 {
	n := g.Len()
	dist := make([]float64, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	for remaining := n; remaining > 0; remaining-- {
		current := -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !visited[i] && dist[i] < best {
				best = dist[i]
				current = i
			}
		}
		// Everything left is unreachable
		if current < 0 {
			break
		}
		visited[current] = true

		for _, nb := range g.adj[g.cells[current]] {
			j := g.Index(nb)
			if visited[j] {
				continue
			}
			if alt := dist[current] + 1; alt < dist[j] {
				dist[j] = alt
			}
		}
	}
	return dist
}
