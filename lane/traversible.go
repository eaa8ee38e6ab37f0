package lane

import (
	"github.com/katalvlaran/trafficevo/car"
)

// CarSpacing is the minimum bumper-to-bumper gap (meters) a car must keep
// from the waiting car ahead of it before it, too, is considered waiting.
// Reproduced exactly from spec §6 / original_source's CAR_SPACING.
const CarSpacing = 3.0

// SpeedDamping is the fixed coefficient applied to the gap between a
// car's target and current speed when computing its per-tick position
// delta (spec §4.2, original_source's "*0.3" factor).
const SpeedDamping = 0.3

// entry pairs a car with its fractional position along the lane (0 at
// entry, Length at the lane's far end). entries[0] is the most-advanced
// car (closest to the exit, "head of queue" per spec §4.2); the last
// entry is the most recently added ("tail of queue").
type entry struct {
	car      *car.Car
	position float64
	waiting  bool
}

// Traversible is one lane of a Street, or a Crossing's internal transit
// lane (spec §4.2).
type Traversible struct {
	entries []entry
	length  float64
	waiting int
}

// New returns an empty Traversible of the given length. A zero-length
// Traversible is a valid pass-through: every car on it is immediately
// waiting (spec §4.2 edge case).
func New(length float64) *Traversible {
	return &Traversible{length: length}
}

// Length returns the lane's length in meters.
func (t *Traversible) Length() float64 { return t.length }

// NumMovables returns the number of cars currently on the lane.
func (t *Traversible) NumMovables() int { return len(t.entries) }

// WaitingCount returns the length of the tail-contiguous run of waiting
// cars computed by the most recent Advance.
func (t *Traversible) WaitingCount() int { return t.waiting }

// Add places a car at the rear of the lane (position 0), mirroring
// original_source/simulator/src/traversible.rs's push_front-at-position-0
// semantics for freshly entering cars.
func (t *Traversible) Add(c *car.Car) {
	t.entries = append(t.entries, entry{car: c, position: 0})
}

// Advance updates every car's position by one tick of duration dt,
// iterating from the most-advanced car (closest to the exit) back toward
// the most recently entered one — mirroring original_source's
// VecDeque::iter_mut().rev() traversal, which is the algorithm spec §4.2
// describes as "tail-to-head."
//
// A car counts as waiting if its candidate position p' = p + Δp already
// reaches the lane end (p' >= Length), or if it is within CarSpacing of
// the car ahead of it in this same waiting run; a waiting car's position
// is not advanced this tick. Advance returns the ids of every car whose
// candidate position reached the lane end this tick — cars are not removed here;
// removal is the orchestrating node's responsibility (spec §4.2.4).
func (t *Traversible) Advance(dt float64) []string {
	var arrived []string
	partOfWaiting := false
	distLast := 0.0
	waitingCount := 0

	for i := range t.entries {
		e := &t.entries[i]

		speed := SpeedDamping * (e.car.TargetSpeed - e.car.CurrentSpeed)
		e.car.CurrentSpeed += speed
		posDelta := dt * speed
		e.car.TimeTravelled += dt

		isAtEnd := e.position+posDelta >= t.length
		if isAtEnd {
			arrived = append(arrived, e.car.ID)
		}

		if isAtEnd || (partOfWaiting && (distLast-(e.position+posDelta)) <= CarSpacing) {
			partOfWaiting = true
			waitingCount++
			e.waiting = true
			e.car.TimeWaiting += dt
		} else {
			e.position += posDelta
			e.car.DistanceTravelled += posDelta
			partOfWaiting = false
			e.waiting = false
		}
		distLast = e.position
	}

	t.waiting = waitingCount
	return arrived
}

// PeekExit returns the car at the head of the lane (closest to the exit)
// if it is currently part of the waiting run, without removing it.
func (t *Traversible) PeekExit() (*car.Car, bool) {
	if len(t.entries) == 0 || t.waiting == 0 {
		return nil, false
	}
	return t.entries[0].car, true
}

// PopExit removes and returns the head car if it is waiting, for the
// orchestrating node to hand off to the next node in the tick.
func (t *Traversible) PopExit() (*car.Car, bool) {
	c, ok := t.PeekExit()
	if !ok {
		return nil, false
	}
	t.entries = t.entries[1:]
	t.waiting--
	return c, true
}

// OvernextCounts aggregates, among the tail-contiguous waiting run, how
// many cars intend to continue onto each overnext node id — the feature
// a crossing's policy observation is built from (spec §4.4.a).
func (t *Traversible) OvernextCounts() map[int]int {
	counts := make(map[int]int)
	for i := 0; i < t.waiting && i < len(t.entries); i++ {
		if id, ok := t.entries[i].car.PeekSecond(); ok {
			counts[id]++
		} else if id, ok := t.entries[i].car.Peek(); ok {
			counts[id]++
		}
	}
	return counts
}

// MovableStatus is the wire-neutral per-car snapshot payload of spec §6.
type MovableStatus struct {
	CarID    string
	Position float32 // fractional position in [0,1]
	Delete   bool
}

// Snapshot returns the current (id, fractional position) of every car on
// the lane, for the simulator's optional status channel.
func (t *Traversible) Snapshot() []MovableStatus {
	out := make([]MovableStatus, 0, len(t.entries))
	for _, e := range t.entries {
		pos := e.position
		if t.length > 0 {
			pos = pos / t.length
			if pos > 1 {
				pos = 1
			}
		} else {
			pos = 1
		}
		out = append(out, MovableStatus{CarID: e.car.ID, Position: float32(pos)})
	}
	return out
}

// AddToLeastLoaded places c on whichever of lanes has the fewest cars,
// ties broken by the lowest lane index (spec §9 Open Question 3,
// grounded on original_source/simulator/src/node.rs's Street::add_movable).
// It panics if lanes is empty, mirroring a street with zero lanes being a
// builder-time invariant violation rather than a runtime condition.
func AddToLeastLoaded(lanes []*Traversible, c *car.Car) int {
	best := 0
	for i := 1; i < len(lanes); i++ {
		if lanes[i].NumMovables() < lanes[best].NumMovables() {
			best = i
		}
	}
	lanes[best].Add(c)
	return best
}

// Reset drops every car from the lane (used when a simulator is
// reinitialized between generations) and returns a delete snapshot for
// any observer still displaying the old state.
func (t *Traversible) Reset() []MovableStatus {
	out := make([]MovableStatus, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, MovableStatus{CarID: e.car.ID, Position: 0, Delete: true})
	}
	t.entries = nil
	t.waiting = 0
	return out
}
