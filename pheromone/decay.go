package pheromone

// DecayScheduler applies Field.Decay on a fixed period of simulated time,
// independent of the tick rate and of ant activity. The first decay happens
// one full period after the scheduler starts.
type DecayScheduler struct {
	field   *Field
	period  float64
	elapsed float64
	count   int

	// Enabled gates decay. A disabled scheduler neither decays nor accumulates time.
	Enabled bool
}

// NewDecayScheduler creates an enabled scheduler using the field's DecayPeriod.
func NewDecayScheduler(field *Field) *DecayScheduler {
	return &DecayScheduler{
		field:   field,
		period:  field.params.DecayPeriod,
		Enabled: true,
	}
}

// Advance moves the timer forward by dt seconds and returns how many decay
// steps were applied.
func (s *DecayScheduler) Advance(dt float64) int {
	if !s.Enabled || s.period <= 0 {
		return 0
	}
	s.elapsed += dt
	n := 0
	for s.elapsed >= s.period {
		s.elapsed -= s.period
		s.field.Decay()
		n++
	}
	s.count += n
	return n
}

// Count returns the total decay steps applied so far.
func (s *DecayScheduler) Count() int { return s.count }
