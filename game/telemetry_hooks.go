package game

import (
	"log/slog"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	seeking, returning := g.countStates()
	stats := g.collector.Flush(g.tick, seeking, returning, g.field.Snapshot())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
	g.writeTrips()

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// writeTrips appends the legs completed since the last call to trips.csv.
func (g *Game) writeTrips() {
	if err := g.outputManager.WriteTrips(g.trips); err != nil {
		slog.Error("failed to write trips", "error", err)
	}
	g.trips = g.trips[:0]
}

// countStates counts seeking and returning ants.
func (g *Game) countStates() (seeking, returning int) {
	query := g.antFilter.Query()
	for query.Next() {
		_, _, ant := query.Get()
		if ant.State == components.Returning {
			returning++
		} else {
			seeking++
		}
	}
	return seeking, returning
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.createSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current state.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RunID:     g.runID,
		RNGSeed:   g.rngSeed,
		MazeWidth: g.grid.Width(),
		MazeDepth: g.grid.Depth(),
		Tick:      g.tick,
		Nodes:     telemetry.NewNodeStates(g.field),
		Bookmark:  bookmark,
	}

	query := g.antFilter.Query()
	for query.Next() {
		pos, motion, ant := query.Get()
		snapshot.Ants = append(snapshot.Ants,
			telemetry.NewAntState(ant, pos, motion, g.lifetimeTracker.Get(ant.ID)))
	}

	return snapshot
}
