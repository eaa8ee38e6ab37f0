package pathserver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficevo/graph"
)

// buildLine builds IoNode --street--> Crossing --street--> IoNode, the
// smallest graph with a nontrivial path.
func buildLine(t *testing.T) *graph.RuntimeGraph {
	t.Helper()
	b := graph.NewBuilder()
	a := b.AddNode(graph.KindIoNode)
	x := b.AddNode(graph.KindCrossing)
	z := b.AddNode(graph.KindIoNode)

	_, err := b.Connect(a, graph.North, x, graph.South, 1)
	require.NoError(t, err)
	_, err = b.Connect(x, graph.North, z, graph.South, 1)
	require.NoError(t, err)

	rg, err := b.Freeze()
	require.NoError(t, err)
	return rg
}

func TestGenerateMovableProducesAPathEndingAtDestination(t *testing.T) {
	rg := buildLine(t)
	srv := New(rg)
	rng := rand.New(rand.NewSource(1))

	ioNodes := srv.ig.IoNodes()
	require.Len(t, ioNodes, 2)

	c, err := srv.GenerateMovable(ioNodes[0], rng)
	require.NoError(t, err)
	require.NotEmpty(t, c.Path)
	// The path's bottom (first element) is the final destination.
	require.Equal(t, ioNodes[1], c.Path[0])
}

func TestPathCacheIsDeterministicAcrossCalls(t *testing.T) {
	rg := buildLine(t)
	srv := New(rg)
	ioNodes := srv.ig.IoNodes()

	c1, err := srv.GenerateMovable(ioNodes[0], rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	c2, err := srv.GenerateMovable(ioNodes[0], rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	// Same origin (only one other IoNode to pick) -> same cached path.
	require.Equal(t, c1.Path, c2.Path)
}

func TestAdvancePopsMatchingNeighbor(t *testing.T) {
	rg := buildLine(t)
	srv := New(rg)
	ioNodes := srv.ig.IoNodes()
	c, err := srv.GenerateMovable(ioNodes[0], rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	top, _ := c.Peek()
	next, err := Advance(c, []int{top})
	require.NoError(t, err)
	require.Equal(t, top, next)
}

func TestAdvanceReportsDivergedPath(t *testing.T) {
	rg := buildLine(t)
	srv := New(rg)
	ioNodes := srv.ig.IoNodes()
	c, err := srv.GenerateMovable(ioNodes[0], rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = Advance(c, []int{-999})
	require.ErrorIs(t, err, ErrPathDiverged)
}

func TestCanEnterCrossingRespectsAdmissibility(t *testing.T) {
	rg := buildLine(t)
	srv := New(rg)
	ioNodes := srv.ig.IoNodes()
	c, err := srv.GenerateMovable(ioNodes[0], rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	crossingID, _ := c.Peek()

	_, advanced, err := CanEnterCrossing(c, []int{crossingID}, func(int) bool { return false })
	require.NoError(t, err)
	require.False(t, advanced)
	top, _ := c.Peek()
	require.Equal(t, crossingID, top, "path must be unchanged when not admissible")

	got, advanced, err := CanEnterCrossing(c, []int{crossingID}, func(int) bool { return true })
	require.NoError(t, err)
	require.True(t, advanced)
	require.Equal(t, crossingID, got)
}

func TestUnreachableDestinationIsReported(t *testing.T) {
	b := graph.NewBuilder()
	a := b.AddNode(graph.KindIoNode)
	isolated := b.AddNode(graph.KindIoNode)
	_ = a
	_ = isolated
	rg, err := b.Freeze()
	require.NoError(t, err)

	ig := Index(rg)
	_, reachable := ig.shortestPath(a, isolated)
	require.False(t, reachable)
}
