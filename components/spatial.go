package components

// Position represents an ant's world position on the maze floor.
type Position struct {
	X, Z float64
}

// Motion holds the walking speed, fixed when the ant spawns.
type Motion struct {
	Speed float64 // units per second
}
