package simrt

import "errors"

var (
	// ErrStaleReference is returned when a tick step encounters a node id
	// that no longer resolves in the frozen graph — spec §7's
	// RuntimeError "stale reference after removal". Fatal for the owning
	// simulator.
	ErrStaleReference = errors.New("simrt: stale reference into frozen graph")
	// ErrFrozenMutation is returned if a caller attempts to reconfigure a
	// Simulator's graph-shaped state (lanes, crossings) after
	// construction; only policy networks may be swapped between
	// generations.
	ErrFrozenMutation = errors.New("simrt: cannot mutate simulator topology after construction")
	// ErrWrongCrossingCount is returned by SetPolicies when the supplied
	// slice length does not match the number of crossings in the graph —
	// spec §4.5's "cross-simulator topology invariant."
	ErrWrongCrossingCount = errors.New("simrt: policy count does not match crossing count")
)
