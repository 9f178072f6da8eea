package maze

import "errors"

var (
	// ErrInvalidSize is returned when a grid dimension is below 1.
	ErrInvalidSize = errors.New("maze: invalid size")
	// ErrOutOfBounds is returned when a wall operation addresses a cell outside the grid.
	ErrOutOfBounds = errors.New("maze: coordinate out of bounds")
	// ErrNotBoundary is returned by ClearBoundaryWall for an interior wall.
	ErrNotBoundary = errors.New("maze: not a boundary wall")
	// ErrMalformedGrid reports asymmetric wall state between two neighbours.
	ErrMalformedGrid = errors.New("maze: asymmetric wall state")
	// ErrNotReady is returned when the grid is read before generation completed.
	ErrNotReady = errors.New("maze: generation not complete")
	// ErrDisconnected is returned by Validate when some cell cannot be reached.
	ErrDisconnected = errors.New("maze: grid is not connected")
	// ErrCyclic is returned by Validate when the passages contain a cycle.
	ErrCyclic = errors.New("maze: grid contains a cycle")
)
