package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the pheromone field and ant states at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	RNGSeed int64  `json:"rng_seed"`

	MazeWidth int `json:"maze_width"`
	MazeDepth int `json:"maze_depth"`

	Tick int32 `json:"tick"`

	Nodes []NodeState `json:"nodes"`
	Ants  []AntState  `json:"ants"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// NodeState holds one pheromone node.
type NodeState struct {
	X             int     `json:"x"`
	Z             int     `json:"z"`
	Role          string  `json:"role"`
	Concentration float64 `json:"concentration"`
	DeadEnd       bool    `json:"dead_end,omitempty"`
}

// AntState holds one ant.
type AntState struct {
	ID         uint32  `json:"id"`
	State      string  `json:"state"`
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	Speed      float64 `json:"speed"`
	Target     *[2]int `json:"target,omitempty"`
	ReturnPath int     `json:"return_path"`
	Deliveries int     `json:"deliveries"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// NewNodeStates captures every node of the field.
func NewNodeStates(f *pheromone.Field) []NodeState {
	grid := f.Grid()
	out := make([]NodeState, 0, grid.Len())
	for i := 0; i < grid.Len(); i++ {
		c := grid.CoordAt(i)
		n := f.Node(c)
		out = append(out, NodeState{
			X:             c.X,
			Z:             c.Z,
			Role:          n.Role().String(),
			Concentration: n.Concentration(),
			DeadEnd:       n.DeadEnd(),
		})
	}
	return out
}

// NewAntState captures one ant.
func NewAntState(ant *components.Ant, pos *components.Position, motion *components.Motion, lifetime *LifetimeStats) AntState {
	s := AntState{
		ID:         ant.ID,
		State:      ant.State.String(),
		X:          pos.X,
		Z:          pos.Z,
		Speed:      motion.Speed,
		ReturnPath: len(ant.ReturnPath),
		Deliveries: ant.Deliveries,
		Lifetime:   lifetime.ToJSON(),
	}
	if ant.Current != nil {
		c := ant.Current.Cell()
		s.Target = &[2]int{c.X, c.Z}
	}
	return s
}

// Cell returns the node's cell coordinate.
func (n NodeState) Cell() maze.Coord { return maze.Coord{X: n.X, Z: n.Z} }

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	SpawnTick        int32   `json:"spawn_tick"`
	FoodFound        int     `json:"food_found"`
	Deliveries       int     `json:"deliveries"`
	DeadEnds         int     `json:"dead_ends"`
	Fallbacks        int     `json:"fallbacks"`
	BestRoundTripSec float64 `json:"best_round_trip_sec"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		SpawnTick:        ls.SpawnTick,
		FoodFound:        ls.FoodFound,
		Deliveries:       ls.Deliveries,
		DeadEnds:         ls.DeadEnds,
		Fallbacks:        ls.Fallbacks,
		BestRoundTripSec: ls.BestRoundTripSec,
	}
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
