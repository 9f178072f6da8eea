// Package pheromone holds the per-cell pheromone field the ants read and write.
//
// Every maze cell owns one Node. A node carries a pheromone concentration
// that grows with deposits and shrinks on a fixed decay period, a dead-end
// flag set by the ant policy, and a role marking the colony and food cells.
package pheromone

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/maze"
)

// ErrUnknownCell is returned when a cell outside the field is addressed.
var ErrUnknownCell = errors.New("pheromone: unknown cell")

// Role tags the special cells of the simulation.
type Role uint8

const (
	RoleNone Role = iota
	RoleColony
	RoleFood
)

func (r Role) String() string {
	switch r {
	case RoleColony:
		return "colony"
	case RoleFood:
		return "food"
	default:
		return "target"
	}
}

// Params holds the pheromone constants shared by every node.
type Params struct {
	BaseStrength float64 // added per deposit at multiplier 1
	DecayAmount  float64 // removed per decay period
	DecayPeriod  float64 // seconds between decays
	FoodLevel    float64 // concentration set when food is found
}

// DefaultParams returns the stock constants.
func DefaultParams() Params {
	return Params{
		BaseStrength: 1.0,
		DecayAmount:  0.1,
		DecayPeriod:  0.5,
		FoodLevel:    100,
	}
}

// ParamsFromConfig reads the pheromone section of cfg.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		BaseStrength: cfg.Pheromone.BaseStrength,
		DecayAmount:  cfg.Pheromone.DecayAmount,
		DecayPeriod:  cfg.Pheromone.DecayPeriod,
		FoodLevel:    cfg.Pheromone.FoodLevel,
	}
}

// Node is the pheromone state of one traversable cell.
type Node struct {
	cell   maze.Coord
	x, z   float64
	role   Role
	active bool

	concentration float64
	deadEnd       bool

	params *Params
}

// Cell returns the maze cell the node belongs to.
func (n *Node) Cell() maze.Coord { return n.cell }

// Position returns the world position of the node (the cell centre).
func (n *Node) Position() (x, z float64) { return n.x, n.z }

// Role returns the node's role.
func (n *Node) Role() Role { return n.role }

// Active reports whether the node has been activated for the simulation.
func (n *Node) Active() bool { return n.active }

// Concentration returns the current pheromone level (never negative).
func (n *Node) Concentration() float64 { return n.concentration }

// DeadEnd reports whether an ant has marked this node as a dead end.
func (n *Node) DeadEnd() bool { return n.deadEnd }

// MarkDeadEnd flags the node as a dead end. The flag is permanent.
func (n *Node) MarkDeadEnd() { n.deadEnd = true }

// Deposit adds BaseStrength*multiplier to the concentration.
func (n *Node) Deposit(multiplier float64) {
	n.concentration += n.params.BaseStrength * multiplier
	if n.concentration < 0 {
		n.concentration = 0
	}
}

// MarkFoodFound saturates the concentration to make the node a strong attractor.
func (n *Node) MarkFoodFound() {
	n.concentration = n.params.FoodLevel
}

// Decay removes one DecayAmount from the concentration, flooring at 0.
func (n *Node) Decay() {
	n.concentration -= n.params.DecayAmount
	if n.concentration < 0 {
		n.concentration = 0
	}
}

// Field is the registry of all nodes of a maze.
type Field struct {
	grid   *maze.Grid
	params Params
	nodes  []*Node // x-major, indexed as grid.Index

	ordered []*Node // active nodes: plain targets, then colony, then food
	dirty   bool
}

// NewField creates one inactive node per grid cell.
func NewField(grid *maze.Grid, params Params) *Field {
	f := &Field{
		grid:   grid,
		params: params,
		nodes:  make([]*Node, grid.Len()),
		dirty:  true,
	}
	for i := range f.nodes {
		c := grid.CoordAt(i)
		x, z := grid.Center(c)
		f.nodes[i] = &Node{cell: c, x: x, z: z, params: &f.params}
	}
	return f
}

// Params returns the constants shared by the nodes.
func (f *Field) Params() Params { return f.params }

// Grid returns the maze the field was built over.
func (f *Field) Grid() *maze.Grid { return f.grid }

// Activate enables every node for the simulation.
func (f *Field) Activate() {
	for _, n := range f.nodes {
		n.active = true
	}
	f.dirty = true
}

// Node returns the node of cell c, or nil if c is outside the grid.
func (f *Field) Node(c maze.Coord) *Node {
	if !f.grid.In(c) {
		return nil
	}
	return f.nodes[f.grid.Index(c)]
}

// SetRole tags the node of cell c.
func (f *Field) SetRole(c maze.Coord, role Role) error {
	n := f.Node(c)
	if n == nil {
		return fmt.Errorf("%w: %v", ErrUnknownCell, c)
	}
	n.role = role
	f.dirty = true
	return nil
}

// Nodes returns the active nodes: plain targets first, then the colony, then food.
// The slice must not be modified.
func (f *Field) Nodes() []*Node {
	if f.dirty {
		f.ordered = f.ordered[:0]
		for _, role := range [...]Role{RoleNone, RoleColony, RoleFood} {
			for _, n := range f.nodes {
				if n.active && n.role == role {
					f.ordered = append(f.ordered, n)
				}
			}
		}
		f.dirty = false
	}
	return f.ordered
}

// Colony returns the first node tagged colony, or nil.
func (f *Field) Colony() *Node { return f.firstWithRole(RoleColony) }

// Food returns the first node tagged food, or nil.
func (f *Field) Food() *Node { return f.firstWithRole(RoleFood) }

func (f *Field) firstWithRole(role Role) *Node {
	for _, n := range f.nodes {
		if n.role == role {
			return n
		}
	}
	return nil
}

// Decay applies one decay step to every node.
func (f *Field) Decay() {
	for _, n := range f.nodes {
		n.Decay()
	}
}

// Snapshot summarises the field for telemetry.
type Snapshot struct {
	Total    float64 // sum of concentrations
	Max      float64 // highest concentration
	DeadEnds int     // nodes flagged dead end
	Marked   int     // nodes with concentration > 0
}

// Snapshot returns aggregate field statistics.
func (f *Field) Snapshot() Snapshot {
	var s Snapshot
	for _, n := range f.nodes {
		s.Total += n.concentration
		if n.concentration > s.Max {
			s.Max = n.concentration
		}
		if n.concentration > 0 {
			s.Marked++
		}
		if n.deadEnd {
			s.DeadEnds++
		}
	}
	return s
}
