package game

import (
	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/telemetry"
)

// Options holds configuration for game initialization.
type Options struct {
	Seed           int64
	AntCount       int     // 0 = ant.count from config
	StatsWindowSec float64 // 0 = telemetry.stats_window from config
	DisableDecay   bool
	LogStats       bool
	OutputDir      string // empty = no CSV output
	SnapshotDir    string // empty = no snapshots on bookmarks

	// Config overrides the global configuration when set.
	Config *config.Config

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// config returns the configuration the game runs with.
func (g *Game) config() *config.Config {
	if g.cfg != nil {
		return g.cfg
	}
	return config.Cfg()
}
