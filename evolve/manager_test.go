package evolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficevo/graph"
)

func smallGrid(t *testing.T) *graph.RuntimeGraph {
	t.Helper()
	b, _ := graph.BuildGrid(3, 3)
	rg, err := b.Freeze()
	require.NoError(t, err)
	return rg
}

func TestNewManagerRejectsEmptyPopulation(t *testing.T) {
	rg := smallGrid(t)
	_, err := NewManager(rg, Config{Population: 0, Generations: 1})
	require.ErrorIs(t, err, ErrEmptyPopulation)
}

func TestStartTwiceIsRejected(t *testing.T) {
	rg := smallGrid(t)
	m, err := NewManager(rg, Config{
		Population:         2,
		Generations:        1,
		TicksPerGeneration: 2,
		Dt:                 1.0,
	})
	require.NoError(t, err)

	require.NoError(t, m.Start())
	require.ErrorIs(t, m.Start(), ErrAlreadyStarted)
}

func TestReportIsSortedByFitnessDescending(t *testing.T) {
	rg := smallGrid(t)
	m, err := NewManager(rg, Config{
		Population:         4,
		Generations:        2,
		MutationChance:     0.1,
		MutationCoeff:      0.2,
		TicksPerGeneration: 5,
		Dt:                 1.0,
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	report := m.Report()
	require.Len(t, report, 4)
	for i := 1; i < len(report); i++ {
		require.GreaterOrEqual(t, report[i-1].Fitness, report[i].Fitness)
	}
}

func TestEvolutionMonotoneOnTrivialFitness(t *testing.T) {
	// P=4, G=3: with an empty graph every simulator's cost stays 0
	// forever (no cars ever spawn), so Fitness() is constant
	// (math.MaxFloat64) for every member every generation. Crossover
	// alone (mutation_chance=0) must still produce a valid child pool
	// of the same shape as the parent pool.
	b := graph.NewBuilder()
	rg, err := b.Freeze()
	require.NoError(t, err)

	m, err := NewManager(rg, Config{
		Population:         4,
		Generations:        3,
		MutationChance:     0,
		MutationCoeff:      0.1,
		TicksPerGeneration: 3,
		Dt:                 1.0,
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	report := m.Report()
	require.Len(t, report, 4)
	for _, mem := range report {
		require.Equal(t, 1.7976931348623157e+308, mem.Fitness)
	}
}

func TestCancellationIsClean(t *testing.T) {
	rg := smallGrid(t)
	m, err := NewManager(rg, Config{
		Population:         4,
		Generations:        1000,
		TicksPerGeneration: 0, // unbounded: runs until cancelled
		Dt:                 1.0,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- m.Start() }()

	time.Sleep(50 * time.Millisecond)
	m.CancelAll()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Start did not return within 500ms of CancelAll")
	}

	report := m.Report()
	require.LessOrEqual(t, len(report), 4)
}

func TestTrackRejectsOutOfRangeIndex(t *testing.T) {
	rg := smallGrid(t)
	m, err := NewManager(rg, Config{Population: 2, Generations: 1})
	require.NoError(t, err)
	require.Error(t, m.Track(5))
}
