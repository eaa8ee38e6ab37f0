package simrt

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/katalvlaran/trafficevo/car"
	"github.com/katalvlaran/trafficevo/graph"
	"github.com/katalvlaran/trafficevo/lane"
	"github.com/katalvlaran/trafficevo/neural"
	"github.com/katalvlaran/trafficevo/pathserver"
)

// statusBufferSize is the default capacity of a Simulator's drop-oldest
// status channel.
const statusBufferSize = 32

// Option configures a Simulator at construction time, following the
// graph package's functional-option convention.
type Option func(*Simulator)

// WithLogger attaches a logger for recoverable per-car errors (spec §7).
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCostParams overrides car.DefaultCostParams for fitness accounting.
func WithCostParams(p car.CostParams) Option {
	return func(s *Simulator) { s.costParams = p }
}

// WithSnapshots enables the status channel (spec §4.4 "Observation
// snapshot... gated by a per-simulator boolean").
func WithSnapshots(enabled bool) Option {
	return func(s *Simulator) { s.emitSnapshots = enabled }
}

// WithRand supplies the RNG used for destination sampling at spawn time.
// Per spec §5 ("RNGs: one per worker, seeded deterministically from the
// generation number and member index"), callers own seeding.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rng = r
		}
	}
}

// Simulator owns one frozen graph plus every piece of mutable state the
// graph itself excludes (spec §4.4, component C4).
type Simulator struct {
	g      *graph.RuntimeGraph
	server *pathserver.Server
	rng    *rand.Rand
	logger *zap.Logger

	costParams car.CostParams

	crossingIDs []int // ascending; positional mapping for SetPolicies
	crossings   map[int]*crossingState
	streetLanes map[int][]*lane.Traversible
	ioAccum     map[int]float64
	absorbed    map[int]int

	totalCost float64
	totalCo2  float64

	emitSnapshots bool
	status        chan Snapshot
}

// New builds a Simulator over g, allocating one Traversible per street
// lane and one internal transit Traversible per crossing, and assigning
// every crossing an initial PhaseAllRed (the only phase admissible from
// nothing, spec §4.4 Open Question 1). Policies must be supplied via
// SetPolicies before the first Tick.
func New(g *graph.RuntimeGraph, server *pathserver.Server, opts ...Option) *Simulator {
	s := &Simulator{
		g:           g,
		server:      server,
		rng:         rand.New(rand.NewSource(1)),
		logger:      zap.NewNop(),
		costParams:  car.DefaultCostParams,
		crossings:   make(map[int]*crossingState),
		streetLanes: make(map[int][]*lane.Traversible),
		ioAccum:     make(map[int]float64),
		absorbed:    make(map[int]int),
		status:      make(chan Snapshot, statusBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, n := range g.All() {
		switch n.Kind {
		case graph.KindStreet:
			lanes := make([]*lane.Traversible, n.Lanes)
			for i := range lanes {
				lanes[i] = lane.New(n.Length)
			}
			s.streetLanes[n.ID] = lanes
		case graph.KindCrossing:
			s.crossingIDs = append(s.crossingIDs, n.ID)
			s.crossings[n.ID] = &crossingState{
				id:      n.ID,
				phase:   PhaseAllRed,
				transit: lane.New(n.TransitLength),
			}
		case graph.KindIoNode:
			s.ioAccum[n.ID] = 0
			s.absorbed[n.ID] = 0
		}
	}
	return s
}

// CrossingCount returns the number of crossings in the graph — the
// length SetPolicies requires.
func (s *Simulator) CrossingCount() int { return len(s.crossingIDs) }

// SetPolicies assigns one network per crossing in ascending crossing-id
// order. The slice length must equal CrossingCount() (spec §4.5's
// cross-simulator topology invariant).
func (s *Simulator) SetPolicies(nets []*neural.Network) error {
	if len(nets) != len(s.crossingIDs) {
		return fmt.Errorf("simrt: got %d policies, want %d: %w", len(nets), len(s.crossingIDs), ErrWrongCrossingCount)
	}
	for i, id := range s.crossingIDs {
		s.crossings[id].policy = nets[i]
	}
	return nil
}

// Policies returns the current per-crossing networks in the same
// ascending order SetPolicies expects, for the evolutionary driver to
// read back after a generation.
func (s *Simulator) Policies() []*neural.Network {
	out := make([]*neural.Network, len(s.crossingIDs))
	for i, id := range s.crossingIDs {
		out[i] = s.crossings[id].policy
	}
	return out
}

// Reset clears every car, accumulator, and cost tally so the Simulator
// can be reused for the next generation with freshly assigned policies
// (spec §4.5.d "reusing their graphs; reset simulator state"). Phases
// reset to PhaseAllRed.
func (s *Simulator) Reset() {
	for id, lanes := range s.streetLanes {
		for i := range lanes {
			lanes[i] = lane.New(lanes[i].Length())
		}
		s.streetLanes[id] = lanes
	}
	for _, cs := range s.crossings {
		cs.phase = PhaseAllRed
		cs.transit = lane.New(cs.transit.Length())
	}
	for id := range s.ioAccum {
		s.ioAccum[id] = 0
	}
	for id := range s.absorbed {
		s.absorbed[id] = 0
	}
	s.totalCost, s.totalCo2 = 0, 0
}

// Status returns the Simulator's status channel; reads are only
// meaningful when snapshot emission was enabled via WithSnapshots or
// SetSnapshots.
func (s *Simulator) Status() <-chan Snapshot { return s.status }

// SetSnapshots toggles snapshot emission at runtime, letting a driver
// track a single population member at a time (spec §6
// "SimManager::track_simulation") without reconstructing the Simulator.
func (s *Simulator) SetSnapshots(enabled bool) { s.emitSnapshots = enabled }

// Reseed replaces the spawn-decision RNG, letting an evolutionary driver
// reseed every worker deterministically from the generation number and
// member index at the start of each generation (spec §5).
func (s *Simulator) Reseed(r *rand.Rand) { s.rng = r }

// AbsorbedCount returns how many cars an IoNode has absorbed so far.
func (s *Simulator) AbsorbedCount(ioID int) int { return s.absorbed[ioID] }

// TotalCost and TotalCo2 return the running aggregate of every absorbed
// car's per-car cost (spec §4.4 "Fitness").
func (s *Simulator) TotalCost() float64 { return s.totalCost }
func (s *Simulator) TotalCo2() float64  { return s.totalCo2 }

// Fitness returns 1/cost, guarding the zero-cost case (spec §4.5.b) by
// treating "nothing has cost anything yet" as maximal fitness rather
// than dividing by zero.
func (s *Simulator) Fitness() float64 {
	if s.totalCost <= 0 {
		return math.MaxFloat64
	}
	return 1.0 / s.totalCost
}

// Tick advances every node by one timestep of duration dt in ascending
// node-id order: I/O sources, lane advance (which also absorbs cars at
// IoNode sinks), crossing admission, crossing exit.
func (s *Simulator) Tick(dt float64) error {
	for _, n := range s.g.All() {
		if n.Kind == graph.KindIoNode {
			s.tickIoSource(n, dt)
		}
	}
	for _, n := range s.g.All() {
		if n.Kind == graph.KindStreet {
			if err := s.tickStreetAdvance(n, dt); err != nil {
				return err
			}
		}
	}
	for _, n := range s.g.All() {
		if n.Kind == graph.KindCrossing {
			if err := s.tickCrossingAdmission(n); err != nil {
				return err
			}
		}
	}
	for _, n := range s.g.All() {
		if n.Kind == graph.KindCrossing {
			if err := s.tickCrossingExit(n, dt); err != nil {
				return err
			}
		}
	}

	if s.emitSnapshots {
		s.publish(s.buildSnapshot())
	}
	return nil
}

// tickIoSource spawns cars once the per-node accumulator reaches the
// spawn period (1/spawn_rate), draining multiple spawns in one tick if
// dt is coarse relative to the period.
func (s *Simulator) tickIoSource(n graph.RuntimeNode, dt float64) {
	if n.SpawnRate <= 0 {
		return
	}
	period := 1.0 / n.SpawnRate
	accum := s.ioAccum[n.ID] + dt

	for accum >= period {
		c, err := s.server.GenerateMovable(n.ID, s.rng)
		if err != nil {
			s.logger.Warn("spawn failed", zap.Int("io_node", n.ID), zap.Error(err))
			break
		}
		streetID, ok := c.Pop()
		if !ok {
			break
		}
		lanes, ok := s.streetLanes[streetID]
		if !ok {
			s.logger.Warn("spawned onto stale street", zap.Int("street", streetID))
			accum -= period
			continue
		}
		lane.AddToLeastLoaded(lanes, c)
		accum -= period
	}
	s.ioAccum[n.ID] = accum
}

// tickStreetAdvance advances every lane of n by dt. If n leads directly
// into an IoNode, arrived cars are absorbed immediately (no admission
// gate applies); otherwise they simply sit in the waiting run until the
// downstream Crossing processes admission.
func (s *Simulator) tickStreetAdvance(n graph.RuntimeNode, dt float64) error {
	lanes := s.streetLanes[n.ID]
	for _, ln := range lanes {
		ln.Advance(dt)
	}

	successor, ok := s.g.Node(n.Successor)
	if !ok {
		return fmt.Errorf("simrt: street %d successor %d: %w", n.ID, n.Successor, ErrStaleReference)
	}
	if successor.Kind != graph.KindIoNode {
		return nil
	}
	for _, ln := range lanes {
		for {
			c, ok := ln.PopExit()
			if !ok {
				break
			}
			s.absorb(successor.ID, c)
		}
	}
	return nil
}

// tickCrossingAdmission evaluates n's policy network, transitions its
// phase, and admits at most one waiting car per lane onto the crossing's
// internal Traversible, in N,E,S,W order (spec §4.4.c/d).
func (s *Simulator) tickCrossingAdmission(n graph.RuntimeNode) error {
	cs := s.crossings[n.ID]
	if cs.policy == nil {
		return nil // no policy assigned yet: crossing stays all-red
	}

	scores := cs.policy.Propagate(s.observation(n))
	cs.phase = nextPhase(cs.phase, Phase(argmax(scores)))

	for _, d := range dirs {
		streetID := n.In[d]
		if streetID == graph.NoID {
			continue
		}
		phase, dir := cs.phase, d
		for _, ln := range s.streetLanes[streetID] {
			c, ok := ln.PeekExit()
			if !ok {
				continue
			}
			_, advanced, err := pathserver.CanEnterCrossing(c, []int{n.ID}, func(overnextStreetID int) bool {
				out, ok := outgoingDirection(n, overnextStreetID)
				return ok && admissible(phase, dir, out)
			})
			if err != nil {
				// Recoverable per spec §7: log and destroy, do not
				// propagate.
				s.logger.Warn("car path error at crossing admission", zap.Int("crossing", n.ID), zap.Error(err))
				ln.PopExit()
				continue
			}
			if !advanced {
				continue
			}
			ln.PopExit()
			cs.transit.Add(c)
		}
	}
	return nil
}

// tickCrossingExit advances n's internal Traversible and routes every
// car that arrives at its tail onto the outgoing street its path names.
func (s *Simulator) tickCrossingExit(n graph.RuntimeNode, dt float64) error {
	cs := s.crossings[n.ID]
	cs.transit.Advance(dt)

	var outs []int
	for _, sid := range n.Out {
		if sid != graph.NoID {
			outs = append(outs, sid)
		}
	}

	for {
		c, ok := cs.transit.PopExit()
		if !ok {
			break
		}
		streetID, err := pathserver.Advance(c, outs)
		if err != nil {
			s.logger.Warn("car path error at crossing exit", zap.Int("crossing", n.ID), zap.Error(err))
			continue
		}
		lanes, ok := s.streetLanes[streetID]
		if !ok {
			s.logger.Warn("crossing exit onto stale street", zap.Int("street", streetID))
			continue
		}
		lane.AddToLeastLoaded(lanes, c)
	}
	return nil
}

func (s *Simulator) absorb(ioID int, c *car.Car) {
	s.absorbed[ioID]++
	cost, co2 := car.Cost(c.Report(), s.costParams)
	s.totalCost += cost
	s.totalCo2 += co2
}
