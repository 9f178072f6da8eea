package game

import (
	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/systems"
	"github.com/pthm-cable/antmaze/telemetry"
)

// updateDecay advances the pheromone decay timer.
func (g *Game) updateDecay(dt float64) {
	if n := g.decay.Advance(dt); n > 0 {
		g.collector.RecordDecay(n)
	}
}

// updateAnts runs the policy for every ant, one after another, so each ant
// sees the deposits of the ants updated before it.
func (g *Game) updateAnts(dt float64) error {
	var firstErr error

	query := g.antFilter.Query()
	for query.Next() {
		if firstErr != nil {
			continue // Must consume entire query to release world lock
		}
		pos, motion, ant := query.Get()

		ev, err := g.policy.Update(ant, pos, motion, dt)
		g.recordEvents(ant, ev)
		if err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// recordEvents forwards policy events to the telemetry collectors.
func (g *Game) recordEvents(ant *components.Ant, ev systems.Event) {
	if ev == 0 {
		return
	}
	if ev.Has(systems.EventFoundFood) {
		g.collector.RecordFoodFound(ant.LastLeg)
		g.lifetimeTracker.RecordFoodFound(ant.ID, ant.LastLeg.Seconds)
		g.trips = append(g.trips, telemetry.NewOutboundTrip(g.tick, ant.ID, ant.LastLeg))
	}
	if ev.Has(systems.EventDelivered) {
		g.collector.RecordDelivery(ant.LastLeg)
		g.lifetimeTracker.RecordDelivery(ant.ID, ant.LastLeg.Seconds)
		g.trips = append(g.trips, telemetry.NewReturnTrip(g.tick, ant.ID, ant.LastLeg))
	}
	if ev.Has(systems.EventDeadEnd) {
		g.collector.RecordDeadEnd()
		g.lifetimeTracker.RecordDeadEnd(ant.ID)
	}
	if ev.Has(systems.EventRetreat) {
		g.collector.RecordRetreat()
	}
	if ev.Has(systems.EventFallback) {
		g.collector.RecordFallback()
		g.lifetimeTracker.RecordFallback(ant.ID)
	}
}
