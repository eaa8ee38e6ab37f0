// Package trafficevo is a traffic-flow micro-simulator whose crossings
// are driven by neural-network controllers evolved with a genetic
// algorithm.
//
// The module is organized around five tightly coupled components:
//
//	graph/      — two-phase builder→runtime graph of streets, crossings
//	              and boundary I/O nodes (component C1)
//	lane/       — per-lane car queue and the per-tick advance algorithm
//	              governing motion, queueing and overtake-free spacing
//	              (component C2)
//	pathserver/ — indexes a frozen graph and serves cached shortest
//	              paths to newly spawned cars (component C3)
//	simrt/      — the simulator: per-tick car motion, crossing admission
//	              driven by a neural.Network policy, and fitness
//	              accounting (component C4)
//	evolve/     — runs a population of simulators in parallel across
//	              generations, recombining policy networks by
//	              fitness-proportional selection, uniform crossover and
//	              Gaussian-like mutation (component C5)
//
// car/ and neural/ hold the shared Car and feed-forward-network types
// that the above components operate on.
//
// A minimal pipeline:
//
//	b, _ := graph.BuildGrid(3, 3)
//	rg, _ := b.Freeze()
//	mgr, _ := evolve.NewManager(rg, evolve.Config{
//		Population:         8,
//		Generations:        10,
//		TicksPerGeneration: 500,
//		Dt:                 1.0,
//	})
//	mgr.Start()
//	report := mgr.Report() // sorted by fitness, best first
package trafficevo
