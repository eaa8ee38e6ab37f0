package evolve

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/trafficevo/graph"
	"github.com/katalvlaran/trafficevo/neural"
	"github.com/katalvlaran/trafficevo/pathserver"
	"github.com/katalvlaran/trafficevo/simrt"
)

// Config holds the SimManager::configure parameters of spec §4.5/§6.
type Config struct {
	Population         int
	Generations        int
	MutationChance     float64 // c, in [0,1]
	MutationCoeff      float64 // k
	Dt                 float64
	TicksPerGeneration int
	DelayMs            int // pacing delay between ticks, 0 disables
}

// Member is one population slot's outcome after Start returns.
type Member struct {
	Index    int
	Fitness  float64
	Networks []*neural.Network
}

// ManagerOption configures a Manager at construction time, following the
// graph/simrt functional-option convention.
type ManagerOption func(*Manager)

// WithLogger attaches a logger for per-generation/per-worker diagnostics.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSeed fixes the base RNG seed; worker RNGs are still derived per
// spec §5 "one per worker, seeded deterministically from the generation
// number and member index", but varying the base seed lets callers
// reproduce or vary an entire run.
func WithSeed(seed int64) ManagerOption {
	return func(m *Manager) { m.seed = seed }
}

// Manager runs a population of simrt.Simulators through Config.Generations
// generations, recombining per-crossing policy networks between
// generations (spec §4.5, component C5).
type Manager struct {
	g      *graph.RuntimeGraph
	cfg    Config
	logger *zap.Logger
	seed   int64

	mu      sync.Mutex
	started bool
	sims    []*simrt.Simulator
	tracked int // member index currently emitting snapshots, -1 = none

	genCancel context.CancelFunc
	allCancel context.CancelFunc
	ctx       context.Context

	report []Member
}

// NewManager builds a Manager over g with the given configuration. Every
// simulator it creates shares g's topology (the cross-simulator topology
// invariant of spec §4.5), but each gets its own pathserver.Server
// instance — the path cache is a pure function of topology, so per-worker
// caches avoid lock contention on the hot spawn path (spec §5).
func NewManager(g *graph.RuntimeGraph, cfg Config, opts ...ManagerOption) (*Manager, error) {
	if cfg.Population <= 0 {
		return nil, ErrEmptyPopulation
	}
	m := &Manager{
		g:       g,
		cfg:     cfg,
		logger:  zap.NewNop(),
		tracked: -1,
	}
	for _, opt := range opts {
		opt(m)
	}

	ctx, allCancel := context.WithCancel(context.Background())
	m.ctx = ctx
	m.allCancel = allCancel

	m.sims = make([]*simrt.Simulator, cfg.Population)
	for i := range m.sims {
		server := pathserver.New(g)
		m.sims[i] = simrt.New(g, server, simrt.WithLogger(m.logger))
	}
	return m, nil
}

// Track enables the status channel on exactly one member's simulator,
// disabling every other (spec §6 "status_channel(member_index)").
func (m *Manager) Track(memberIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if memberIndex < 0 || memberIndex >= len(m.sims) {
		return fmt.Errorf("evolve: track index %d out of range [0,%d)", memberIndex, len(m.sims))
	}
	for i, s := range m.sims {
		s.SetSnapshots(i == memberIndex)
	}
	m.tracked = memberIndex
	return nil
}

// Status returns the tracked member's snapshot channel, or nil if no
// member is currently tracked.
func (m *Manager) Status() <-chan simrt.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tracked < 0 {
		return nil
	}
	return m.sims[m.tracked].Status()
}

// CancelGeneration finishes the current tick in every worker, then lets
// selection run on whatever fitness values were recorded (spec §5
// "Cancellation").
func (m *Manager) CancelGeneration() {
	m.mu.Lock()
	cancel := m.genCancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// CancelAll terminates the current tick and the whole generation loop.
func (m *Manager) CancelAll() {
	m.allCancel()
}

// Report returns the outcome of the last completed generation, sorted by
// fitness descending (spec §4.5.3 "emit a report listing (fitness,
// member) sorted by fitness").
func (m *Manager) Report() []Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Member, len(m.report))
	copy(out, m.report)
	return out
}

// Start runs the evolutionary loop of spec §4.5 to completion (or until
// CancelAll is observed) and blocks until every worker has joined.
// Calling Start twice on the same Manager is an error.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.mu.Unlock()

	topology := neural.DefaultTopology(len(simrt.Phases))
	nCrossings := m.sims[0].CrossingCount()

	pool := make([][]*neural.Network, len(m.sims))
	seedRNG := rand.New(rand.NewSource(m.seed))
	for i := range pool {
		nets := make([]*neural.Network, nCrossings)
		for c := range nets {
			nets[c] = neural.Random(seedRNG, topology)
		}
		pool[i] = nets
	}

	for gen := 0; gen < m.cfg.Generations; gen++ {
		select {
		case <-m.ctx.Done():
			return nil
		default:
		}

		for i, s := range m.sims {
			if err := s.SetPolicies(pool[i]); err != nil {
				return fmt.Errorf("evolve: generation %d member %d: %w", gen, i, err)
			}
			s.Reset()
		}

		genCtx, genCancel := context.WithCancel(m.ctx)
		m.mu.Lock()
		m.genCancel = genCancel
		m.mu.Unlock()

		fitness, failed, err := m.runGeneration(genCtx, gen)
		genCancel()
		if err != nil {
			return err
		}

		members := make([]Member, len(m.sims))
		for i := range m.sims {
			members[i] = Member{Index: i, Fitness: fitness[i], Networks: pool[i]}
		}
		sort.Slice(members, func(a, b int) bool { return members[a].Fitness > members[b].Fitness })

		m.mu.Lock()
		m.report = members
		m.mu.Unlock()

		if gen == m.cfg.Generations-1 {
			break
		}
		pool = m.recombine(fitness, pool, gen)

		// RuntimeError is fatal for the owning simulator, not the whole
		// run (spec §7): that member already reported fitness 0 above,
		// and here its next-generation networks are replaced by a fresh
		// random reinitialization instead of a crossover child.
		for i, f := range failed {
			if !f {
				continue
			}
			rng := rand.New(rand.NewSource(m.seed + int64(gen)*1_000_003 + int64(i) + 13))
			nets := make([]*neural.Network, nCrossings)
			for c := range nets {
				nets[c] = neural.Random(rng, topology)
			}
			pool[i] = nets
			m.logger.Warn("reinitializing member after runtime error", zap.Int("member", i), zap.Int("generation", gen))
		}

		if m.ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// runGeneration ticks every simulator in parallel via an errgroup, each
// worker stopping when genCtx is cancelled (per-generation flag) or the
// manager-wide ctx is cancelled (global flag), whichever first. Neither a
// recovered panic nor a Simulator.Tick error is allowed to abort the
// generation for other members: both are caught per-worker, force that
// worker's fitness to 0, and flag it in the returned failed slice so
// Start can reinitialize its networks for the next generation (spec §7
// "RuntimeError is fatal for the owning simulator ... the member is
// replaced by a random reinitialization next generation" and "a worker
// panic must not crash the driver").
func (m *Manager) runGeneration(genCtx context.Context, gen int) ([]float64, []bool, error) {
	fitness := make([]float64, len(m.sims))
	failed := make([]bool, len(m.sims))
	grp, ctx := errgroup.WithContext(genCtx)

	for i, s := range m.sims {
		i, s := i, s
		grp.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("worker panicked", zap.Int("member", i), zap.Any("recover", r))
					fitness[i] = 0
					failed[i] = true
				}
			}()

			s.Reseed(rand.New(rand.NewSource(m.seed + int64(gen)*1_000_003 + int64(i))))

			for tick := 0; m.cfg.TicksPerGeneration <= 0 || tick < m.cfg.TicksPerGeneration; tick++ {
				select {
				case <-ctx.Done():
					fitness[i] = s.Fitness()
					return nil
				default:
				}
				if err := s.Tick(m.cfg.Dt); err != nil {
					m.logger.Error("member tick failed, reporting fitness 0 for this generation", zap.Int("member", i), zap.Error(err))
					fitness[i] = 0
					failed[i] = true
					return nil
				}
				if m.cfg.DelayMs > 0 {
					time.Sleep(time.Duration(m.cfg.DelayMs) * time.Millisecond)
				}
			}
			fitness[i] = s.Fitness()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return fitness, failed, fmt.Errorf("%w: %v", ErrJoinFailed, err)
	}
	return fitness, failed, nil
}
