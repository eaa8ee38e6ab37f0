package pathserver

import "errors"

var (
	// ErrNoIoNodes is returned when a graph has no IoNode to route
	// between at all.
	ErrNoIoNodes = errors.New("pathserver: graph has no IoNode")
	// ErrDestinationUnreachable is returned when no path exists from the
	// origin to any candidate destination (disconnected graph).
	ErrDestinationUnreachable = errors.New("pathserver: destination unreachable from origin")
	// ErrPathExhausted is returned when Advance is asked to route a car
	// whose path stack is already empty.
	ErrPathExhausted = errors.New("pathserver: path already exhausted")
	// ErrPathDiverged is returned when the top of a car's path stack does
	// not match any neighbor actually reachable from its current node —
	// a programmer error (a stale path against a mutated graph), never
	// an expected runtime condition once the graph is frozen.
	ErrPathDiverged = errors.New("pathserver: path diverged from graph topology")
)
