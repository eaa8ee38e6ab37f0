package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNodeIdsAreDenseAndMonotonic(t *testing.T) {
	b := NewBuilder()
	ids := make([]int, 5)
	for i := range ids {
		ids[i] = b.AddNode(KindCrossing)
	}
	for i, id := range ids {
		require.Equal(t, i, id)
	}
	require.Equal(t, 5, b.NextID())
}

func TestConnectRejectsStreetToStreet(t *testing.T) {
	b := NewBuilder()
	io := b.AddNode(KindIoNode)
	crossing := b.AddNode(KindCrossing)
	streetID, err := b.Connect(io, North, crossing, North, 1)
	require.NoError(t, err)

	_, err = b.Connect(streetID, North, crossing, East, 1)
	require.ErrorIs(t, err, ErrStreetToStreet)
}

func TestConnectRejectsInvalidEndpoint(t *testing.T) {
	b := NewBuilder()
	crossing := b.AddNode(KindCrossing)
	_, err := b.Connect(crossing, North, 999, South, 1)
	require.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestConnectRejectsSlotOccupied(t *testing.T) {
	b := NewBuilder()
	a := b.AddNode(KindCrossing)
	ioA := b.AddNode(KindIoNode)
	ioB := b.AddNode(KindIoNode)
	_, err := b.Connect(a, North, ioA, North, 1)
	require.NoError(t, err)
	_, err = b.Connect(a, North, ioB, North, 1)
	require.ErrorIs(t, err, ErrSlotOccupied)
}

func TestRemoveNodeCascadeScrubsBackReferences(t *testing.T) {
	b := NewBuilder()
	a := b.AddNode(KindCrossing)
	io := b.AddNode(KindIoNode)
	streetID, err := b.Connect(a, North, io, North, 1)
	require.NoError(t, err)

	removed, err := b.RemoveNode(io, true)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{streetID, io}, removed)

	rg, err := b.Freeze()
	require.NoError(t, err)
	node, ok := rg.Node(a)
	require.True(t, ok)
	require.Equal(t, noID, node.Out[North])
}

func TestRemoveNodeWithoutCascadeLeavesDanglingStreet(t *testing.T) {
	b := NewBuilder()
	a := b.AddNode(KindCrossing)
	io := b.AddNode(KindIoNode)
	_, err := b.Connect(a, North, io, North, 1)
	require.NoError(t, err)

	_, err = b.RemoveNode(io, false)
	require.NoError(t, err)

	_, err = b.Freeze()
	require.True(t, errors.Is(err, ErrDanglingStreet))
}

func TestRemoveNonexistentNode(t *testing.T) {
	b := NewBuilder()
	_, err := b.RemoveNode(42, true)
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestFreezeIsCachedUntilMutation(t *testing.T) {
	b := NewBuilder()
	b.AddNode(KindIoNode)
	g1, err := b.Freeze()
	require.NoError(t, err)
	g2, err := b.Freeze()
	require.NoError(t, err)
	require.Same(t, g1, g2)

	b.AddNode(KindIoNode)
	g3, err := b.Freeze()
	require.NoError(t, err)
	require.NotSame(t, g1, g3)
}

func TestFreezeEmptyGraph(t *testing.T) {
	b := NewBuilder()
	rg, err := b.Freeze()
	require.NoError(t, err)
	require.Equal(t, 0, rg.Len())
	require.Empty(t, rg.All())
}

func TestIoNodeUnboundedEdges(t *testing.T) {
	b := NewBuilder()
	io := b.AddNode(KindIoNode)
	var crossings []int
	for i := 0; i < 6; i++ {
		crossings = append(crossings, b.AddNode(KindCrossing))
	}
	for _, c := range crossings {
		_, err := b.Connect(io, North, c, North, 1)
		require.NoError(t, err)
	}
	rg, err := b.Freeze()
	require.NoError(t, err)
	ioNode, ok := rg.Node(io)
	require.True(t, ok)
	require.Len(t, ioNode.Outs, len(crossings))
}
