package evolve

import "errors"

var (
	// ErrWorkerPanic indicates a simulator worker recovered from a panic
	// mid-generation; its fitness for that generation is forced to 0
	// rather than propagating the panic across the errgroup barrier.
	ErrWorkerPanic = errors.New("evolve: worker recovered from panic")
	// ErrJoinFailed wraps a non-nil error returned by the errgroup
	// barrier. A worker's Tick errors (e.g. a stale graph reference) do
	// not produce it: runGeneration handles those per worker.
	ErrJoinFailed = errors.New("evolve: worker join failed")
	// ErrAlreadyStarted indicates Start was called on a Manager that is
	// already running.
	ErrAlreadyStarted = errors.New("evolve: manager already started")
	// ErrEmptyPopulation indicates NewManager was given population <= 0.
	ErrEmptyPopulation = errors.New("evolve: population must be positive")
)
