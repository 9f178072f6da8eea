package game

import (
	"log/slog"
	"runtime"

	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/mazegraph"
)

// logMazeSummary logs the finished maze and records the colony to food distance.
func (g *Game) logMazeSummary(colony, food maze.Coord) {
	graph := mazegraph.BuildAdjacency(g.grid)
	dist := mazegraph.ComputeDistancesParallel(graph, runtime.GOMAXPROCS(0))
	g.shortestPath = dist.Distance(colony, food)

	slog.Info("maze ready",
		"run_id", g.runID,
		"seed", g.rngSeed,
		"width", g.grid.Width(),
		"depth", g.grid.Depth(),
		"cells", graph.Len(),
		"passages", graph.EdgeCount(),
		"colony", colony.String(),
		"food", food.String(),
		"shortest_path", g.shortestPath,
		"ants", g.antCount,
	)
}
