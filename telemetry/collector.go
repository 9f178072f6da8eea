package telemetry

import (
	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/pheromone"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	foodFound  int
	deliveries int
	deadEnds   int
	retreats   int
	fallbacks  int
	decays     int

	// Legs completed during the window
	outboundSec  []float64
	outboundHops []float64
	returnSec    []float64
	returnHops   []float64

	totalDeliveries int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordFoodFound records an ant reaching food at the end of an outbound leg.
func (c *Collector) RecordFoodFound(leg components.Leg) {
	c.foodFound++
	c.outboundSec = append(c.outboundSec, leg.Seconds)
	c.outboundHops = append(c.outboundHops, float64(leg.Hops))
}

// RecordDelivery records an ant bringing food back to the colony.
func (c *Collector) RecordDelivery(leg components.Leg) {
	c.deliveries++
	c.totalDeliveries++
	c.returnSec = append(c.returnSec, leg.Seconds)
	c.returnHops = append(c.returnHops, float64(leg.Hops))
}

// RecordDeadEnd records a node being marked as a dead end.
func (c *Collector) RecordDeadEnd() {
	c.deadEnds++
}

// RecordRetreat records an ant stepping back to its previous node.
func (c *Collector) RecordRetreat() {
	c.retreats++
}

// RecordFallback records a random pick among all visible nodes.
func (c *Collector) RecordFallback() {
	c.fallbacks++
}

// RecordDecay records n pheromone decay steps.
func (c *Collector) RecordDecay(n int) {
	c.decays += n
}

// TotalDeliveries returns the deliveries recorded since the collector was created.
func (c *Collector) TotalDeliveries() int {
	return c.totalDeliveries
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the ant state counts and a field snapshot taken at the
// end of the window.
func (c *Collector) Flush(currentTick int32, seeking, returning int, field pheromone.Snapshot) WindowStats {
	outMean, outStd, outP50 := ComputeLegStats(c.outboundSec)
	outHops, _, _ := ComputeLegStats(c.outboundHops)
	retMean, retStd, retP50 := ComputeLegStats(c.returnSec)
	retHops, _, _ := ComputeLegStats(c.returnHops)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Seeking:   seeking,
		Returning: returning,

		FoodFound:       c.foodFound,
		Deliveries:      c.deliveries,
		TotalDeliveries: c.totalDeliveries,
		DeadEnds:        c.deadEnds,
		Retreats:        c.retreats,
		Fallbacks:       c.fallbacks,
		Decays:          c.decays,

		OutboundSecMean: outMean,
		OutboundSecStd:  outStd,
		OutboundSecP50:  outP50,
		OutboundHops:    outHops,
		ReturnSecMean:   retMean,
		ReturnSecStd:    retStd,
		ReturnSecP50:    retP50,
		ReturnHops:      retHops,

		PheromoneTotal: field.Total,
		PheromoneMax:   field.Max,
		MarkedCells:    field.Marked,
		DeadEndCells:   field.DeadEnds,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.foodFound = 0
	c.deliveries = 0
	c.deadEnds = 0
	c.retreats = 0
	c.fallbacks = 0
	c.decays = 0
	c.outboundSec = c.outboundSec[:0]
	c.outboundHops = c.outboundHops[:0]
	c.returnSec = c.returnSec[:0]
	c.returnHops = c.returnHops[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
