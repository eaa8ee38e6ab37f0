package neural

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomIsReproducibleWithSameSeed(t *testing.T) {
	a := Random(rand.New(rand.NewSource(42)), DefaultTopology(3))
	b := Random(rand.New(rand.NewSource(42)), DefaultTopology(3))
	require.Equal(t, a.Flatten(), b.Flatten())
}

func TestFlattenLoadFromWeightsRoundTrip(t *testing.T) {
	n := Random(rand.New(rand.NewSource(7)), DefaultTopology(4))
	flat := n.Flatten()
	topo := n.Topology()

	reloaded := LoadFromWeights(topo, flat)
	require.Equal(t, flat, reloaded.Flatten())
}

func TestLoadFromWeightsPanicsOnWrongCount(t *testing.T) {
	require.Panics(t, func() {
		LoadFromWeights([]int{3, 2}, []float64{0.1, 0.2, 0.3})
	})
	require.Panics(t, func() {
		LoadFromWeights([]int{3, 2}, make([]float64, 100))
	})
}

func TestPropagateSoftMaxOutputSumsToOne(t *testing.T) {
	n := Random(rand.New(rand.NewSource(1)), DefaultTopology(3))
	out := n.Propagate([]float64{1, 0, 1, 0, 1, 0, 1, 0})
	require.Len(t, out, 3)
	sum := 0.0
	for _, v := range out {
		require.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestCrossoverChildIsElementwiseFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := Random(rng, DefaultTopology(2))
	b := Random(rng, DefaultTopology(2))

	child := a.Crossover(b, rng)
	flatA, flatB, flatC := a.Flatten(), b.Flatten(), child.Flatten()
	require.Len(t, flatC, len(flatA))
	for i := range flatC {
		require.True(t, flatC[i] == flatA[i] || flatC[i] == flatB[i])
	}
}

func TestCrossoverPanicsOnTopologyMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := Random(rng, DefaultTopology(2))
	b := Random(rng, DefaultTopology(5))
	require.Panics(t, func() { a.Crossover(b, rng) })
}

func TestMutateWithZeroCoeffIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	n := Random(rng, DefaultTopology(3))
	before := n.Flatten()
	n.Mutate(0, rng)
	require.Equal(t, before, n.Flatten())
}

func TestMutateWithNonzeroCoeffChangesEveryGene(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	n := Random(rng, DefaultTopology(3))
	before := append([]float64(nil), n.Flatten()...)
	n.Mutate(1.0, rng)
	after := n.Flatten()

	changed := 0
	for i := range before {
		if before[i] != after[i] {
			changed++
		}
	}
	require.Equal(t, len(before), changed)
}
