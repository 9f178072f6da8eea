package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/antmaze/components"
	"github.com/pthm-cable/antmaze/config"
	"github.com/pthm-cable/antmaze/pheromone"
)

var (
	// ErrNoVisibleTarget is returned when the forced fallback finds no visible
	// node at all. Some node is always visible from a node the ant stands on,
	// so this means the field or the sight checker is broken.
	ErrNoVisibleTarget = errors.New("systems: no visible target")

	// ErrReturnPathExhausted is returned when a returning ant pops its whole
	// return path without finding a usable node.
	ErrReturnPathExhausted = errors.New("systems: return path exhausted")

	// ErrNoNodes is returned when an ant is initialised on an empty field.
	ErrNoNodes = errors.New("systems: field has no active nodes")
)

// Event flags what happened to an ant during one update.
type Event uint8

const (
	EventFoundFood Event = 1 << iota
	EventDelivered
	EventDeadEnd  // current node marked dead end
	EventRetreat  // stepped back to the previous node
	EventFallback // random pick among all visible nodes
)

// Has reports whether all flags of e2 are set in e.
func (e Event) Has(e2 Event) bool { return e&e2 == e2 }

// PolicyParams holds the tunable constants of the ant policy.
type PolicyParams struct {
	VisibilityRadius  float64 // candidates further from the ant are ignored
	ArrivalThreshold  float64 // distance at which a target counts as reached
	ExploreMultiplier float64 // deposit multiplier while seeking
	CarryMultiplier   float64 // deposit multiplier while returning
}

// DefaultPolicyParams returns the stock constants.
func DefaultPolicyParams() PolicyParams {
	return PolicyParams{
		VisibilityRadius:  1.30,
		ArrivalThreshold:  0.2,
		ExploreMultiplier: 1,
		CarryMultiplier:   10,
	}
}

// PolicyParamsFromConfig reads the ant section of cfg.
func PolicyParamsFromConfig(cfg *config.Config) PolicyParams {
	return PolicyParams{
		VisibilityRadius:  cfg.Ant.VisibilityRadius,
		ArrivalThreshold:  cfg.Ant.ArrivalThreshold,
		ExploreMultiplier: cfg.Ant.ExploreMultiplier,
		CarryMultiplier:   cfg.Ant.CarryMultiplier,
	}
}

// AntPolicy decides where each ant walks next.
//
// A seeking ant explores by roulette selection over the visible nodes it has
// not chosen on this leg, preferring weakly marked nodes. When it runs out of
// candidates it marks its node a dead end and backs off. A returning ant
// retraces its recorded outbound path in reverse.
type AntPolicy struct {
	field  *pheromone.Field
	sight  Sight
	mover  Mover
	rng    *rand.Rand
	params PolicyParams

	candidates []*pheromone.Node
	weights    []float64
}

// NewAntPolicy creates a policy over field.
func NewAntPolicy(field *pheromone.Field, sight Sight, mover Mover, rng *rand.Rand, params PolicyParams) *AntPolicy {
	return &AntPolicy{
		field:  field,
		sight:  sight,
		mover:  mover,
		rng:    rng,
		params: params,
	}
}

// Params returns the policy constants.
func (p *AntPolicy) Params() PolicyParams { return p.params }

// RandomSpeed returns base + U(-jitter, jitter).
func (p *AntPolicy) RandomSpeed(base, jitter float64) float64 {
	return base + (p.rng.Float64()*2-1)*jitter
}

// InitAnt points a fresh ant at the node nearest to pos, records that node as
// the start of its return path and of its visited list, and picks the first target.
func (p *AntPolicy) InitAnt(ant *components.Ant, pos *components.Position) (Event, error) {
	ant.State = components.Seeking
	ant.Current, ant.Last = nil, nil
	ant.Visited = ant.Visited[:0]
	ant.ReturnPath = ant.ReturnPath[:0]

	best := math.Inf(1)
	for _, n := range p.field.Nodes() {
		x, z := n.Position()
		if d := distanceSq(pos.X, pos.Z, x, z); d < best {
			best = d
			ant.Current = n
		}
	}
	if ant.Current == nil {
		return 0, ErrNoNodes
	}
	ant.ReturnPath = append(ant.ReturnPath, ant.Current)
	ant.Visited = append(ant.Visited, ant.Current)
	return p.FindNewTarget(ant, pos)
}

// Update walks the ant toward its target for dt seconds and handles arrival.
func (p *AntPolicy) Update(ant *components.Ant, pos *components.Position, motion *components.Motion, dt float64) (Event, error) {
	if ant.Current == nil {
		return p.FindNewTarget(ant, pos)
	}
	ant.LegSeconds += dt

	tx, tz := ant.Current.Position()
	pos.X, pos.Z = p.mover.MoveToward(pos.X, pos.Z, tx, tz, motion.Speed, dt)
	if distance(pos.X, pos.Z, tx, tz) >= p.params.ArrivalThreshold {
		return 0, nil
	}

	ev := p.VisitTarget(ant)
	next, err := p.FindNewTarget(ant, pos)
	return ev | next, err
}

// VisitTarget handles arrival at the current target.
func (p *AntPolicy) VisitTarget(ant *components.Ant) Event {
	n := ant.Current
	var ev Event
	ant.LegHops++

	if !ant.CarryingFood() {
		ant.ReturnPath = append(ant.ReturnPath, n)
	}

	switch {
	case n.Role() == pheromone.RoleFood:
		if !ant.CarryingFood() {
			ev |= EventFoundFood
			p.endLeg(ant)
		}
		ant.State = components.Returning
		n.MarkFoodFound()
		ant.ClearVisited()
	case n.Role() == pheromone.RoleColony && ant.CarryingFood():
		ev |= EventDelivered
		p.endLeg(ant)
		ant.State = components.Seeking
		ant.Deliveries++
		// The next outbound leg starts from the colony again.
		ant.ClearVisited()
		ant.Visited = append(ant.Visited, n)
		ant.ReturnPath = append(ant.ReturnPath[:0], n)
	}

	if ant.CarryingFood() {
		n.Deposit(p.params.CarryMultiplier)
	} else {
		n.Deposit(p.params.ExploreMultiplier)
	}
	return ev
}

func (p *AntPolicy) endLeg(ant *components.Ant) {
	ant.LastLeg = components.Leg{Seconds: ant.LegSeconds, Hops: ant.LegHops}
	ant.LegSeconds = 0
	ant.LegHops = 0
}

// FindNewTarget picks the next target according to the ant's state.
func (p *AntPolicy) FindNewTarget(ant *components.Ant, pos *components.Position) (Event, error) {
	prev := ant.Current
	var (
		ev  Event
		err error
	)
	if ant.CarryingFood() {
		err = p.FindReturnTarget(ant)
	} else {
		ev, err = p.findSeekingTarget(ant, pos)
	}
	if err != nil {
		return ev, err
	}
	if ant.Current != prev {
		ant.Last = prev
	}
	ant.Visited = append(ant.Visited, ant.Current)
	return ev, nil
}

func (p *AntPolicy) findSeekingTarget(ant *components.Ant, pos *components.Position) (Event, error) {
	p.candidates = p.candidates[:0]
	p.weights = p.weights[:0]
	total := 0.0
	for _, n := range p.field.Nodes() {
		if n.DeadEnd() || ant.HasVisited(n) || !p.visible(ant, pos, n) {
			continue
		}
		w := 1 - clamp01(n.Concentration())
		p.candidates = append(p.candidates, n)
		p.weights = append(p.weights, w)
		total += w
	}
	if len(p.candidates) > 0 {
		ant.Current = p.roulette(total)
		return 0, nil
	}
	return p.backtrack(ant, pos)
}

// roulette samples a candidate with probability proportional to its weight.
func (p *AntPolicy) roulette(total float64) *pheromone.Node {
	if total <= 0 {
		return p.candidates[p.rng.Intn(len(p.candidates))]
	}
	r := p.rng.Float64() * total
	cum := 0.0
	for i, w := range p.weights {
		cum += w
		if cum >= r && w > 0 {
			return p.candidates[i]
		}
	}
	return p.candidates[len(p.candidates)-1]
}

// backtrack handles a seeking ant with nowhere new to go.
func (p *AntPolicy) backtrack(ant *components.Ant, pos *components.Position) (Event, error) {
	var ev Event
	cur := ant.Current
	if cur != nil && cur.Role() == pheromone.RoleNone && !cur.DeadEnd() {
		cur.MarkDeadEnd()
		ev |= EventDeadEnd
	}

	if ant.Last != nil && !ant.Last.DeadEnd() {
		ant.Current = ant.Last
		ev |= EventRetreat
	} else {
		p.candidates = p.candidates[:0]
		for _, n := range p.field.Nodes() {
			if p.visible(ant, pos, n) {
				p.candidates = append(p.candidates, n)
			}
		}
		if len(p.candidates) == 0 {
			return ev, fmt.Errorf("%w: ant %d at %v", ErrNoVisibleTarget, ant.ID, cellOf(cur))
		}
		ant.Current = p.candidates[p.rng.Intn(len(p.candidates))]
		ev |= EventFallback
	}
	ant.ClearVisited()
	return ev, nil
}

// FindReturnTarget pops the return path until it reaches a node that is not
// a dead end and is not the node the ant is already on.
func (p *AntPolicy) FindReturnTarget(ant *components.Ant) error {
	for len(ant.ReturnPath) > 0 {
		last := len(ant.ReturnPath) - 1
		n := ant.ReturnPath[last]
		ant.ReturnPath = ant.ReturnPath[:last]
		if n.DeadEnd() || n == ant.Current {
			continue
		}
		ant.Current = n
		return nil
	}
	return fmt.Errorf("%w: ant %d at %v", ErrReturnPathExhausted, ant.ID, cellOf(ant.Current))
}

// visible reports whether n is within the visibility radius of the ant and in
// line of sight of its current target.
func (p *AntPolicy) visible(ant *components.Ant, pos *components.Position, n *pheromone.Node) bool {
	x, z := n.Position()
	r := p.params.VisibilityRadius
	if distanceSq(pos.X, pos.Z, x, z) > r*r {
		return false
	}
	if ant.Current == nil {
		return true
	}
	return p.sight.Visible(ant.Current, n)
}

func cellOf(n *pheromone.Node) any {
	if n == nil {
		return "nowhere"
	}
	return n.Cell()
}
