package telemetry

// LifetimeStats tracks per-ant statistics over the whole run.
type LifetimeStats struct {
	SpawnTick int32

	FoodFound  int
	Deliveries int
	DeadEnds   int
	Fallbacks  int

	// Fastest completed round trip, 0 until the first delivery
	BestRoundTripSec float64

	lastOutboundSec float64
}

// LifetimeTracker manages per-ant lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new ant.
func (lt *LifetimeTracker) Register(antID uint32, spawnTick int32) {
	lt.stats[antID] = &LifetimeStats{SpawnTick: spawnTick}
}

// Get returns the lifetime stats for an ant, or nil if not found.
func (lt *LifetimeTracker) Get(antID uint32) *LifetimeStats {
	return lt.stats[antID]
}

// RecordFoodFound counts a completed outbound leg.
func (lt *LifetimeTracker) RecordFoodFound(antID uint32, seconds float64) {
	if s := lt.stats[antID]; s != nil {
		s.FoodFound++
		s.lastOutboundSec = seconds
	}
}

// RecordDelivery counts a completed return leg and updates the best round trip.
func (lt *LifetimeTracker) RecordDelivery(antID uint32, seconds float64) {
	s := lt.stats[antID]
	if s == nil {
		return
	}
	s.Deliveries++
	trip := s.lastOutboundSec + seconds
	if s.BestRoundTripSec == 0 || trip < s.BestRoundTripSec {
		s.BestRoundTripSec = trip
	}
}

// RecordDeadEnd counts a dead end marked by the ant.
func (lt *LifetimeTracker) RecordDeadEnd(antID uint32) {
	if s := lt.stats[antID]; s != nil {
		s.DeadEnds++
	}
}

// RecordFallback counts a random fallback pick by the ant.
func (lt *LifetimeTracker) RecordFallback(antID uint32) {
	if s := lt.stats[antID]; s != nil {
		s.Fallbacks++
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked ants.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// BestRoundTripSec returns the fastest round trip of any ant, or 0.
func (lt *LifetimeTracker) BestRoundTripSec() float64 {
	best := 0.0
	for _, s := range lt.stats {
		if s.BestRoundTripSec > 0 && (best == 0 || s.BestRoundTripSec < best) {
			best = s.BestRoundTripSec
		}
	}
	return best
}
