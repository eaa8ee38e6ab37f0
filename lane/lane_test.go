package lane

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/trafficevo/car"
)

func TestZeroLengthLaneIsImmediatelyWaiting(t *testing.T) {
	tv := New(0)
	c := car.New([]int{1})
	tv.Add(c)

	tv.Advance(1.0)
	require.Equal(t, 1, tv.WaitingCount())

	exit, ok := tv.PeekExit()
	require.True(t, ok)
	require.Equal(t, c.ID, exit.ID)
}

func TestSpacingHeadCarStaysAheadOfRearCar(t *testing.T) {
	tv := New(50)
	a := car.New([]int{1})
	b := car.New([]int{1})
	tv.Add(a)
	tv.Add(b)

	for i := 0; i < 200; i++ {
		tv.Advance(0.5)
	}

	require.GreaterOrEqual(t, len(tv.entries), 1)
	if len(tv.entries) == 2 {
		gap := tv.entries[0].position - tv.entries[1].position
		require.True(t, gap >= 0, "head must stay ahead of the car behind it")
	}
}

func TestNonOvertakingOrderIsPreserved(t *testing.T) {
	tv := New(200)
	first := car.New([]int{1})
	tv.Add(first)
	for i := 0; i < 5; i++ {
		tv.Advance(1.0)
	}
	second := car.New([]int{1})
	tv.Add(second)

	for i := 0; i < 50; i++ {
		tv.Advance(1.0)
	}

	// first entered earlier and must never fall behind second.
	require.Equal(t, first.ID, tv.entries[0].car.ID)
	require.Equal(t, second.ID, tv.entries[1].car.ID)
}

func TestAdvanceIsDeterministic(t *testing.T) {
	build := func() *Traversible {
		tv := New(30)
		tv.Add(car.New([]int{1}))
		tv.Add(car.New([]int{1}))
		return tv
	}
	a := build()
	b := build()

	for i := 0; i < 20; i++ {
		arrivedA := a.Advance(0.25)
		arrivedB := b.Advance(0.25)
		require.Equal(t, len(arrivedA), len(arrivedB))
	}
	require.Equal(t, a.WaitingCount(), b.WaitingCount())
}

func TestAddToLeastLoadedPicksLowestIndexOnTie(t *testing.T) {
	lanes := []*Traversible{New(10), New(10), New(10)}
	idx := AddToLeastLoaded(lanes, car.New([]int{1}))
	require.Equal(t, 0, idx)

	lanes[0].Add(car.New([]int{1}))
	idx = AddToLeastLoaded(lanes, car.New([]int{1}))
	require.Equal(t, 1, idx)
}

func TestPopExitOnlyReturnsWaitingCars(t *testing.T) {
	tv := New(100)
	c := car.New([]int{1})
	tv.Add(c)

	_, ok := tv.PopExit()
	require.False(t, ok, "a freshly added car on a long lane is not yet waiting")

	tv.Advance(1000)
	got, ok := tv.PopExit()
	require.True(t, ok)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, 0, tv.NumMovables())
}
