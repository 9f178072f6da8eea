// Package maze generates perfect mazes over a W×D grid of cells.
//
// Cells are addressed by Coord{X, Z}. Cell (x, z) sits at world position
// (x, z); neighbouring cell centres are one unit apart. Every cell starts with
// all four walls present. The generator removes walls between cells as it
// carves a spanning tree, so the finished grid has exactly one path between
// any two cells.
package maze

import (
	"fmt"
	"strings"
)

// Coord addresses a cell in the grid.
type Coord struct {
	X, Z int
}

// Step returns the coordinate one cell away in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dz := d.Offset()
	return Coord{X: c.X + dx, Z: c.Z + dz}
}

// String formats the coordinate as "(x, z)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Z)
}

// Direction names one side of a cell.
type Direction uint8

const (
	Left  Direction = iota // -X
	Right                  // +X
	Back                   // -Z
	Front                  // +Z
	NumDirections
)

// Directions lists all sides in adjacency order.
var Directions = [NumDirections]Direction{Left, Right, Back, Front}

// Offset returns the coordinate delta for moving through this side.
func (d Direction) Offset() (dx, dz int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Back:
		return 0, -1
	case Front:
		return 0, 1
	}
	return 0, 0
}

// Opposite returns the side facing d on the neighbouring cell.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Back:
		return Front
	default:
		return Back
	}
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Back:
		return "back"
	case Front:
		return "front"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Cell holds the wall state of one grid cell.
type Cell struct {
	walls   [NumDirections]bool // true = wall present
	Visited bool                // set once by the generator
}

// HasWall reports whether the wall on side d is present.
func (c *Cell) HasWall(d Direction) bool {
	return c.walls[d]
}

// Grid is a W×D array of cells stored x-major.
type Grid struct {
	width, depth int
	cells        []Cell
}

// NewGrid creates a grid with every wall present and no cell visited.
func NewGrid(width, depth int) (*Grid, error) {
	if width < 1 || depth < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, depth)
	}
	g := &Grid{
		width: width,
		depth: depth,
		cells: make([]Cell, width*depth),
	}
	for i := range g.cells {
		for _, d := range Directions {
			g.cells[i].walls[d] = true
		}
	}
	return g, nil
}

// Width returns the number of cells along X.
func (g *Grid) Width() int { return g.width }

// Depth returns the number of cells along Z.
func (g *Grid) Depth() int { return g.depth }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// In reports whether c lies inside the grid.
func (g *Grid) In(c Coord) bool {
	return c.X >= 0 && c.X < g.width && c.Z >= 0 && c.Z < g.depth
}

// Index returns the x-major index of c. c must be in bounds.
func (g *Grid) Index(c Coord) int {
	return c.X*g.depth + c.Z
}

// CoordAt is the inverse of Index.
func (g *Grid) CoordAt(i int) Coord {
	return Coord{X: i / g.depth, Z: i % g.depth}
}

// Cell returns the cell at c, or nil if c is out of bounds.
func (g *Grid) Cell(c Coord) *Cell {
	if !g.In(c) {
		return nil
	}
	return &g.cells[g.Index(c)]
}

// HasWall reports whether cell c has a wall on side d.
// Out-of-bounds cells report every wall present.
func (g *Grid) HasWall(c Coord, d Direction) bool {
	cell := g.Cell(c)
	if cell == nil {
		return true
	}
	return cell.walls[d]
}

// Center returns the world position of the centre of cell c.
func (g *Grid) Center(c Coord) (x, z float64) {
	return float64(c.X), float64(c.Z)
}

// Neighbors returns the in-bounds orthogonal neighbours of c regardless of walls,
// in the order right, left, front, back.
func (g *Grid) Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 4)
	for _, d := range [...]Direction{Right, Left, Front, Back} {
		n := c.Step(d)
		if g.In(n) {
			out = append(out, n)
		}
	}
	return out
}

// DirectionTo returns the side of a that faces b when the two are orthogonal neighbours.
func DirectionTo(a, b Coord) (Direction, bool) {
	for _, d := range Directions {
		if a.Step(d) == b {
			return d, true
		}
	}
	return 0, false
}

// ClearWall removes the wall on side d of c together with the facing wall of
// the neighbour. The neighbour must be inside the grid.
func (g *Grid) ClearWall(c Coord, d Direction) error {
	n := c.Step(d)
	if !g.In(c) || !g.In(n) {
		return fmt.Errorf("%w: %v %v", ErrOutOfBounds, c, d)
	}
	g.cells[g.Index(c)].walls[d] = false
	g.cells[g.Index(n)].walls[d.Opposite()] = false
	return nil
}

// ClearBoundaryWall removes an outer wall of c, opening the maze to the outside.
func (g *Grid) ClearBoundaryWall(c Coord, d Direction) error {
	if !g.In(c) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	if g.In(c.Step(d)) {
		return fmt.Errorf("%w: %v %v is an interior wall", ErrNotBoundary, c, d)
	}
	g.cells[g.Index(c)].walls[d] = false
	return nil
}

// InteriorOpenings counts the absent walls between pairs of in-bounds cells.
func (g *Grid) InteriorOpenings() int {
	n := 0
	for i := range g.cells {
		c := g.CoordAt(i)
		for _, d := range [...]Direction{Right, Front} {
			if g.In(c.Step(d)) && !g.cells[i].walls[d] {
				n++
			}
		}
	}
	return n
}

// CheckSymmetry verifies that every interior wall is present on both sides or neither.
func (g *Grid) CheckSymmetry() error {
	for i := range g.cells {
		c := g.CoordAt(i)
		for _, d := range [...]Direction{Right, Front} {
			if err := g.checkPair(c, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Grid) checkPair(c Coord, d Direction) error {
	n := c.Step(d)
	if !g.In(n) {
		return nil
	}
	if g.HasWall(c, d) != g.HasWall(n, d.Opposite()) {
		return fmt.Errorf("%w: %v %v vs %v %v", ErrMalformedGrid, c, d, n, d.Opposite())
	}
	return nil
}

// String draws the grid as ASCII art with +Z pointing up.
func (g *Grid) String() string {
	var b strings.Builder
	for z := g.depth - 1; z >= 0; z-- {
		for x := 0; x < g.width; x++ {
			b.WriteByte('+')
			if g.HasWall(Coord{x, z}, Front) {
				b.WriteString("---")
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString("+\n")
		for x := 0; x < g.width; x++ {
			if g.HasWall(Coord{x, z}, Left) {
				b.WriteByte('|')
			} else {
				b.WriteByte(' ')
			}
			b.WriteString("   ")
		}
		if g.HasWall(Coord{g.width - 1, z}, Right) {
			b.WriteByte('|')
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	for x := 0; x < g.width; x++ {
		b.WriteByte('+')
		if g.HasWall(Coord{x, 0}, Back) {
			b.WriteString("---")
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString("+\n")
	return b.String()
}
