package simrt

import "github.com/katalvlaran/trafficevo/graph"

// Phase is one traffic-light state of a Crossing's finite state machine
// (spec §4.4.c, Open Question 1). PhaseAllRed is the only legal
// intermediate hop between PhaseNS and PhaseEW: a crossing currently
// green for north-south traffic cannot jump straight to green for
// east-west traffic in the same tick, it must clear through all-red
// first — a one-tick detour chosen so opposing streams are never both
// admissible at once, even transiently.
type Phase int

const (
	PhaseNS Phase = iota
	PhaseEW
	PhaseAllRed
)

// Phases is the closed, ordered set of legal phases — its length is K in
// the [8 -> 6 -> 4 -> K] policy topology (spec §6).
var Phases = []Phase{PhaseNS, PhaseEW, PhaseAllRed}

func (p Phase) String() string {
	switch p {
	case PhaseNS:
		return "NS"
	case PhaseEW:
		return "EW"
	case PhaseAllRed:
		return "AllRed"
	default:
		return "Unknown"
	}
}

// nextPhase resolves one tick's transition from current toward desired
// (the policy network's argmax output), enforcing the all-red detour.
func nextPhase(current, desired Phase) Phase {
	if desired == current {
		return current
	}
	if current == PhaseAllRed {
		return desired
	}
	// current is NS or EW and desired differs: always detour through
	// all-red, whether desired is the opposite green phase or all-red
	// itself.
	return PhaseAllRed
}

// admissible reports whether a car waiting on incoming compass side in,
// bound for outgoing side out, may enter the crossing while it is in
// phase p. Each green phase admits straight-through traffic on its axis
// only: PhaseNS admits N-in->S-out and S-in->N-out, PhaseEW admits
// E-in->W-out and W-in->E-out (spec §4.4.c, DESIGN.md's FSM). Every other
// (in,out) pair — including any turn — is inadmissible in every phase;
// this spec carries no turn lane.
func admissible(p Phase, in, out graph.Direction) bool {
	switch p {
	case PhaseNS:
		return (in == graph.North && out == graph.South) || (in == graph.South && out == graph.North)
	case PhaseEW:
		return (in == graph.East && out == graph.West) || (in == graph.West && out == graph.East)
	default: // PhaseAllRed
		return false
	}
}

// opposite returns the compass side directly across the junction from d,
// used to locate the "straight across" outgoing street for the
// observation vector (spec §9 Open Question 2).
func opposite(d graph.Direction) graph.Direction {
	switch d {
	case graph.North:
		return graph.South
	case graph.South:
		return graph.North
	case graph.East:
		return graph.West
	default: // graph.West
		return graph.East
	}
}

// argmax returns the index of the largest value in scores, the first
// index on ties — used to turn the policy network's SoftMax output into
// a single desired phase.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
