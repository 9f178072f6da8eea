// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/antmaze/pheromone"

// AntState is the foraging state of an ant.
type AntState uint8

const (
	Seeking   AntState = iota // no food, exploring outward
	Returning                 // carrying food, retracing the return path
)

func (s AntState) String() string {
	if s == Returning {
		return "returning"
	}
	return "seeking"
}

// Leg summarises one completed trip leg (colony to food, or food to colony).
type Leg struct {
	Seconds float64
	Hops    int
}

// Ant holds the policy state of one ant.
type Ant struct {
	ID    uint32
	State AntState

	Current *pheromone.Node // target being walked to
	Last    *pheromone.Node // target before Current

	Visited    []*pheromone.Node // targets chosen on the current leg
	ReturnPath []*pheromone.Node // outbound arrivals, colony at index 0

	// Leg progress, reset on every state transition
	LegSeconds float64
	LegHops    int
	LastLeg    Leg

	Deliveries int
}

// CarryingFood reports whether the ant is on its way home.
func (a *Ant) CarryingFood() bool { return a.State == Returning }

// HasVisited reports whether n was chosen on the current leg.
func (a *Ant) HasVisited(n *pheromone.Node) bool {
	for _, v := range a.Visited {
		if v == n {
			return true
		}
	}
	return false
}

// ClearVisited forgets the targets of the current leg.
func (a *Ant) ClearVisited() {
	a.Visited = a.Visited[:0]
}
