package car

import "github.com/google/uuid"

// DefaultTargetSpeed is the cruising speed (m/s) a freshly spawned car
// aims for, reused from original_source/simulator/src/movable.rs's
// RandCar::new default of 2.0.
const DefaultTargetSpeed = 2.0

// Car is the Movable entity of spec §3: a unique id, current speed, a
// bounded LIFO path of node ids, and kinematic bookkeeping used by the
// cost function. The path's top (last slice element) is always the next
// node id the car intends to enter (invariant 5).
type Car struct {
	ID           string
	Path         []int
	CurrentSpeed float64
	TargetSpeed  float64

	// Bookkeeping for the pure cost function (§4.4 "Fitness").
	DistanceTravelled float64
	TimeWaiting       float64
	TimeTravelled     float64
}

// New returns a freshly spawned car with the given path (already reversed
// so its last element is the first hop), a new unique id, and the
// default target speed.
func New(path []int) *Car {
	return &Car{
		ID:          uuid.NewString(),
		Path:        append([]int(nil), path...),
		TargetSpeed: DefaultTargetSpeed,
	}
}

// Clone returns a new Car with a fresh id but the same remaining path and
// target speed as c. The path server does not call it: it builds each
// spawned car from its cached path with New.
func (c *Car) Clone() *Car {
	return &Car{
		ID:          uuid.NewString(),
		Path:        append([]int(nil), c.Path...),
		TargetSpeed: c.TargetSpeed,
	}
}

// Peek returns the top of the path stack (the next node to enter) without
// popping it.
func (c *Car) Peek() (int, bool) {
	if len(c.Path) == 0 {
		return 0, false
	}
	return c.Path[len(c.Path)-1], true
}

// PeekSecond returns the node just beneath the top — the "overnext" node
// a crossing must check admissibility against (spec §4.3).
func (c *Car) PeekSecond() (int, bool) {
	if len(c.Path) < 2 {
		return 0, false
	}
	return c.Path[len(c.Path)-2], true
}

// Pop removes and returns the top of the path stack.
func (c *Car) Pop() (int, bool) {
	n, ok := c.Peek()
	if !ok {
		return 0, false
	}
	c.Path = c.Path[:len(c.Path)-1]
	return n, true
}

// Empty reports whether the path stack has been fully consumed.
func (c *Car) Empty() bool { return len(c.Path) == 0 }

// Report is the final kinematic snapshot handed to Cost when a car is
// absorbed at an IoNode.
type Report struct {
	DistanceTravelled float64
	TimeWaiting       float64
	TimeTravelled     float64
}

// Report snapshots the car's current kinematic bookkeeping.
func (c *Car) Report() Report {
	return Report{
		DistanceTravelled: c.DistanceTravelled,
		TimeWaiting:       c.TimeWaiting,
		TimeTravelled:     c.TimeTravelled,
	}
}
