package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a Game.Step call.
type Phase string

const (
	PhaseGeneration Phase = "generation"
	PhaseDecay      Phase = "decay"
	PhaseAnts       Phase = "ants"
	PhaseTelemetry  Phase = "telemetry"
)

// Phases lists the step phases in execution order.
var Phases = []Phase{PhaseGeneration, PhaseDecay, PhaseAnts, PhaseTelemetry}

type perfSample struct {
	total  time.Duration
	phases map[Phase]time.Duration
}

// PerfCollector times step phases over a ring of the most recent ticks.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int

	current    map[Phase]time.Duration
	phase      Phase
	tickStart  time.Time
	phaseStart time.Time
}

// NewPerfCollector keeps the last window ticks. A window below 1 becomes 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]perfSample, window)}
}

// StartTick begins timing a new step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[Phase]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.ring[p.next] = perfSample{total: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
	p.phase = ""
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// PerfStats aggregates the ticks currently held in the ring.
type PerfStats struct {
	Samples int

	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration

	PhaseAvg map[Phase]time.Duration
	PhasePct map[Phase]float64 // share of AvgTick, 0..100

	TicksPerSecond float64
}

// Stats aggregates the ring. An empty ring gives zero durations and empty maps.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Samples:  p.count,
		PhaseAvg: make(map[Phase]time.Duration),
		PhasePct: make(map[Phase]float64),
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[Phase]time.Duration)
	for i, sample := range p.ring[:p.count] {
		total += sample.total
		if i == 0 || sample.total < s.MinTick {
			s.MinTick = sample.total
		}
		s.MaxTick = max(s.MaxTick, sample.total)
		for phase, d := range sample.phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTick = total / n
	for phase, sum := range sums {
		avg := sum / n
		s.PhaseAvg[phase] = avg
		if s.AvgTick > 0 {
			s.PhasePct[phase] = 100 * float64(avg) / float64(s.AvgTick)
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("samples", s.Samples),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("min_tick_us", s.MinTick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(string(phase)+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the stats at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	GenerationPct float64 `csv:"generation_pct"`
	DecayPct      float64 `csv:"decay_pct"`
	AntsPct       float64 `csv:"ants_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTick.Microseconds(),
		MinTickUS:     s.MinTick.Microseconds(),
		MaxTickUS:     s.MaxTick.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		GenerationPct: s.PhasePct[PhaseGeneration],
		DecayPct:      s.PhasePct[PhaseDecay],
		AntsPct:       s.PhasePct[PhaseAnts],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
