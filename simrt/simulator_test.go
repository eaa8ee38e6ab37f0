package simrt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficevo/graph"
	"github.com/katalvlaran/trafficevo/pathserver"
)

func TestEmptyGraphTickProducesNoErrors(t *testing.T) {
	b := graph.NewBuilder()
	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg), WithSnapshots(true))
	for i := 0; i < 10; i++ {
		require.NoError(t, sim.Tick(1.0))
	}

	snap := <-sim.Status()
	require.Empty(t, snap.Streets)
}

func TestSingleEdgePassAbsorbsACar(t *testing.T) {
	b := graph.NewBuilder()
	a := b.AddNode(graph.KindIoNode)
	z := b.AddNode(graph.KindIoNode)
	_, err := b.Connect(a, graph.North, z, graph.South, 1, graph.WithStreetLength(100))
	require.NoError(t, err)

	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg), WithRand(rand.New(rand.NewSource(1))))
	for i := 0; i < 150; i++ {
		require.NoError(t, sim.Tick(1.0))
	}

	require.Greater(t, sim.AbsorbedCount(z)+sim.AbsorbedCount(a), 0)
}

func TestGridWithNoPoliciesLeavesCarsWaitingForever(t *testing.T) {
	b, ids := graph.BuildGrid(3, 3)
	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg), WithRand(rand.New(rand.NewSource(1))))
	// No SetPolicies call: every crossing stays at its initial PhaseAllRed
	// and never admits, matching spec §8 scenario 3 ("all crossings
	// stuck in phase 0").
	for i := 0; i < 50; i++ {
		require.NoError(t, sim.Tick(1.0))
	}

	for _, row := range ids {
		for _, id := range row {
			if id == graph.NoID {
				continue // corners own no crossing
			}
			if crossing, ok := sim.crossings[id]; ok {
				require.Equal(t, PhaseAllRed, crossing.phase)
				require.Zero(t, crossing.transit.NumMovables())
			}
		}
	}
}

func TestCrossingCountMatchesGraph(t *testing.T) {
	b, _ := graph.BuildGrid(4, 4)
	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg))
	require.Equal(t, 4, sim.CrossingCount())
}

func TestSetPoliciesRejectsWrongCount(t *testing.T) {
	b, _ := graph.BuildGrid(3, 3)
	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg))
	err = sim.SetPolicies(nil)
	require.ErrorIs(t, err, ErrWrongCrossingCount)
}

func TestResetClearsAccumulatedCost(t *testing.T) {
	b := graph.NewBuilder()
	a := b.AddNode(graph.KindIoNode)
	z := b.AddNode(graph.KindIoNode)
	_, err := b.Connect(a, graph.North, z, graph.South, 1, graph.WithStreetLength(50))
	require.NoError(t, err)
	rg, err := b.Freeze()
	require.NoError(t, err)

	sim := New(rg, pathserver.New(rg), WithRand(rand.New(rand.NewSource(1))))
	for i := 0; i < 100; i++ {
		require.NoError(t, sim.Tick(1.0))
	}
	require.Greater(t, sim.TotalCost(), 0.0)

	sim.Reset()
	require.Equal(t, 0.0, sim.TotalCost())
	require.Equal(t, 0, sim.AbsorbedCount(z))
}

func TestFitnessGuardsZeroCost(t *testing.T) {
	b := graph.NewBuilder()
	rg, err := b.Freeze()
	require.NoError(t, err)
	sim := New(rg, pathserver.New(rg))
	require.Equal(t, 1.7976931348623157e+308, sim.Fitness())
}
