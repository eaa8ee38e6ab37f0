package simrt

import (
	"github.com/katalvlaran/trafficevo/graph"
	"github.com/katalvlaran/trafficevo/lane"
	"github.com/katalvlaran/trafficevo/neural"
)

// crossingState is the mutable, per-simulator half of a Crossing: its
// current phase, its evolvable policy network, and the internal
// Traversible cars occupy while transiting the junction.
type crossingState struct {
	id      int
	phase   Phase
	policy  *neural.Network
	transit *lane.Traversible
}

// dirs is the fixed N,E,S,W iteration order spec §4.4's "Ordering &
// tie-breaks" section requires for crossing admission.
var dirs = [4]graph.Direction{graph.North, graph.East, graph.South, graph.West}

// outgoingDirection reports which compass side of n the street streetID
// exits on, used to turn a car's overnext street id into the Direction
// admissible needs.
func outgoingDirection(n graph.RuntimeNode, streetID int) (graph.Direction, bool) {
	for _, d := range dirs {
		if n.Out[d] == streetID {
			return d, true
		}
	}
	return 0, false
}

// observation builds the 8-wide input vector of spec §9 Open Question 2:
// for each incoming compass side, (waiting count, count of those waiting
// cars whose overnext target is the straight-across outgoing street).
func (s *Simulator) observation(n graph.RuntimeNode) []float64 {
	obs := make([]float64, 8)
	for i, d := range dirs {
		streetID := n.In[d]
		if streetID == graph.NoID {
			continue
		}
		outStreetID := n.Out[opposite(d)]

		waiting, straight := 0, 0
		for _, ln := range s.streetLanes[streetID] {
			waiting += ln.WaitingCount()
			straight += ln.OvernextCounts()[outStreetID]
		}
		obs[2*i] = float64(waiting)
		obs[2*i+1] = float64(straight)
	}
	return obs
}
