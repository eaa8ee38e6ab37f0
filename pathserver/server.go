package pathserver

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/katalvlaran/trafficevo/car"
	"github.com/katalvlaran/trafficevo/graph"
)

// Server serves pre-computed paths to newly spawned cars, caching one
// path per (origin, destination) IoNode pair so repeated spawns at a
// given IoNode never re-run Dijkstra, mirroring
// original_source/simulator/src/pathfinding.rs's MovableServer.
//
// Server is safe for concurrent use: the graph it indexes is immutable,
// and the cache is guarded by a mutex, so simulators sharing one Server
// never race. evolve.Manager nevertheless gives each simulator its own
// Server.
type Server struct {
	g  *graph.RuntimeGraph
	ig *IndexedGraph

	mu    sync.Mutex
	cache map[[2]int][]int // (origin, dest) -> path without origin, reversed (first hop last)
}

// New builds a Server by indexing g once.
func New(g *graph.RuntimeGraph) *Server {
	return &Server{g: g, ig: Index(g), cache: make(map[[2]int][]int)}
}

// GenerateMovable spawns a car at the IoNode identified by originID,
// picking a destination IoNode at random (weighted by each candidate's
// SpawnRate, excluding originID itself) and serving a cached path when
// available. The returned car's Path is ready for Peek/Pop (LIFO, top =
// first hop away from originID).
func (s *Server) GenerateMovable(originID int, rng *rand.Rand) (*car.Car, error) {
	if len(s.ig.ioNodes) < 2 {
		return nil, ErrNoIoNodes
	}

	destID := s.pickDestination(originID, rng)

	key := [2]int{originID, destID}
	s.mu.Lock()
	path, ok := s.cache[key]
	s.mu.Unlock()

	if !ok {
		found, reachable := s.ig.shortestPath(originID, destID)
		if !reachable {
			return nil, fmt.Errorf("pathserver: %d -> %d: %w", originID, destID, ErrDestinationUnreachable)
		}
		// Drop the origin IoNode itself; a car's path only names the
		// nodes still ahead of it.
		path = reversed(found[1:])
		s.mu.Lock()
		s.cache[key] = path
		s.mu.Unlock()
	}

	return car.New(path), nil
}

// pickDestination samples an IoNode other than originID, weighted by
// SpawnRate. If the candidates' total weight is not positive it returns
// the first IoNode other than originID (originID itself if there is none);
// it never resamples.
func (s *Server) pickDestination(originID int, rng *rand.Rand) int {
	total := 0.0
	for i, id := range s.ig.ioNodes {
		if id == originID {
			continue
		}
		total += s.ig.ioWeights[i]
	}
	if total <= 0 {
		for _, id := range s.ig.ioNodes {
			if id != originID {
				return id
			}
		}
		return originID
	}

	r := rng.Float64() * total
	for i, id := range s.ig.ioNodes {
		if id == originID {
			continue
		}
		r -= s.ig.ioWeights[i]
		if r <= 0 {
			return id
		}
	}
	return s.ig.ioNodes[len(s.ig.ioNodes)-1]
}

func reversed(path []int) []int {
	out := make([]int, len(path))
	for i, v := range path {
		out[len(path)-1-i] = v
	}
	return out
}

// Advance is the routing decision of spec §4.3 for the trivial case: c
// sits at the exit of a node whose only legal next hop is a Street or an
// IoNode (no admission gate applies). It pops and returns the top of c's
// path, verifying it is among neighborIDs.
func Advance(c *car.Car, neighborIDs []int) (int, error) {
	next, ok := c.Peek()
	if !ok {
		return 0, ErrPathExhausted
	}
	if !contains(neighborIDs, next) {
		return 0, ErrPathDiverged
	}
	c.Pop()
	return next, nil
}

// CanEnterCrossing is the routing decision of spec §4.3 for a car
// waiting at a Street's exit whose successor is a Crossing. It peeks
// (without popping) the crossing id and the overnext street beyond it,
// and asks admissible whether the crossing's current phase lets the car
// continue onto that overnext street. If admissible, the crossing id is
// popped from c's path and CanEnterCrossing returns (crossingID, true,
// nil) — the caller is responsible for physically moving c onto the
// crossing's internal Traversible. If not admissible, the car simply
// does not advance this tick: CanEnterCrossing returns (0, false, nil),
// not an error.
func CanEnterCrossing(c *car.Car, crossingNeighborIDs []int, admissible func(overnextStreetID int) bool) (int, bool, error) {
	crossingID, ok := c.Peek()
	if !ok {
		return 0, false, ErrPathExhausted
	}
	if !contains(crossingNeighborIDs, crossingID) {
		return 0, false, ErrPathDiverged
	}
	overnext, ok := c.PeekSecond()
	if !ok {
		// A crossing is never the final node of a path (every path ends
		// at an IoNode), so a missing overnext means a diverged path.
		return 0, false, ErrPathDiverged
	}
	if !admissible(overnext) {
		return 0, false, nil
	}
	c.Pop()
	return crossingID, true, nil
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
