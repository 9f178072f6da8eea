package systems

import (
	"github.com/pthm-cable/antmaze/maze"
	"github.com/pthm-cable/antmaze/pheromone"
)

// Sight answers line-of-sight queries between two nodes.
type Sight interface {
	Visible(from, to *pheromone.Node) bool
}

// WallSight casts a straight segment from one node centre to another.
// The segment is blocked by any maze wall it crosses and by the sphere of any
// other node it passes through. Passing exactly through a cell corner needs
// both orthogonal routes around the corner to be open.
type WallSight struct {
	grid       *maze.Grid
	field      *pheromone.Field
	nodeRadius float64
}

// NewWallSight creates a sight checker over the field's maze.
func NewWallSight(field *pheromone.Field, nodeRadius float64) *WallSight {
	return &WallSight{
		grid:       field.Grid(),
		field:      field,
		nodeRadius: nodeRadius,
	}
}

// Visible reports whether to can be seen from from.
func (s *WallSight) Visible(from, to *pheromone.Node) bool {
	if from == nil || to == nil {
		return false
	}
	if from == to {
		return true
	}
	return s.wallsClear(from.Cell(), to.Cell()) && !s.occluded(from, to)
}

// wallsClear walks the cells crossed by the segment between two cell centres.
// All arithmetic is on integers: the segment crosses the x boundary k at
// t = (2k+1)/(2nx) and the z boundary k at t = (2k+1)/(2nz).
func (s *WallSight) wallsClear(a, b maze.Coord) bool {
	dx, dz := b.X-a.X, b.Z-a.Z
	nx, nz := abs(dx), abs(dz)

	stepX, stepZ := maze.Right, maze.Front
	if sign(dx) < 0 {
		stepX = maze.Left
	}
	if sign(dz) < 0 {
		stepZ = maze.Back
	}

	cur := a
	ix, iz := 0, 0
	for ix < nx || iz < nz {
		tx := (1 + 2*ix) * nz
		tz := (1 + 2*iz) * nx
		switch {
		case ix < nx && (iz >= nz || tx < tz):
			if s.grid.HasWall(cur, stepX) {
				return false
			}
			cur = cur.Step(stepX)
			ix++
		case iz < nz && (ix >= nx || tz < tx):
			if s.grid.HasWall(cur, stepZ) {
				return false
			}
			cur = cur.Step(stepZ)
			iz++
		default:
			if !s.cornerOpen(cur, stepX, stepZ) {
				return false
			}
			cur = cur.Step(stepX).Step(stepZ)
			ix++
			iz++
		}
	}
	return true
}

func (s *WallSight) cornerOpen(c maze.Coord, dx, dz maze.Direction) bool {
	viaX := !s.grid.HasWall(c, dx) && !s.grid.HasWall(c.Step(dx), dz)
	viaZ := !s.grid.HasWall(c, dz) && !s.grid.HasWall(c.Step(dz), dx)
	return viaX && viaZ
}

// occluded reports whether a node other than the endpoints sits on the segment.
// Only cells inside the bounding box of the segment can hold such a node.
func (s *WallSight) occluded(from, to *pheromone.Node) bool {
	ax, az := from.Position()
	bx, bz := to.Position()
	a, b := from.Cell(), to.Cell()
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minZ, maxZ := min(a.Z, b.Z), max(a.Z, b.Z)
	r2 := s.nodeRadius * s.nodeRadius

	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			n := s.field.Node(maze.Coord{X: x, Z: z})
			if n == nil || n == from || n == to || !n.Active() {
				continue
			}
			px, pz := n.Position()
			if segmentDistanceSq(px, pz, ax, az, bx, bz) < r2 {
				return true
			}
		}
	}
	return false
}
