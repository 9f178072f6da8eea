// Command mazedump generates a maze and prints its wall map, adjacency list
// and shortest-path distances.
package main

import (
	"bufio"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/mazegraph"
)

func main() {
	width := flag.Int("width", 10, "Maze cells along X")
	depth := flag.Int("depth", 10, "Maze cells along Z")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	all := flag.Bool("all", false, "Print distances from every cell instead of only (0, 0)")
	workers := flag.Int("workers", 0, "Distance workers (0 = GOMAXPROCS)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if err := run(*width, *depth, *seed, *all, *workers); err != nil {
		slog.Error("mazedump failed", "error", err)
		os.Exit(1)
	}
}

func run(width, depth int, seed int64, all bool, workers int) error {
	grid, err := maze.Generate(width, depth, 0, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	if err := maze.Validate(grid); err != nil {
		return err
	}
	slog.Info("maze generated", "width", width, "depth", depth, "seed", seed)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if _, err := out.WriteString(grid.String()); err != nil {
		return err
	}
	if err := out.WriteByte('\n'); err != nil {
		return err
	}

	graph := mazegraph.BuildAdjacency(grid)
	if err := mazegraph.WriteAdjacency(out, graph); err != nil {
		return err
	}

	dist := mazegraph.ComputeDistancesParallel(graph, workers)
	if all {
		return mazegraph.WriteAllDistances(out, dist)
	}
	return mazegraph.WriteDistanceMatrix(out, dist, maze.Coord{X: 0, Z: 0})
}
