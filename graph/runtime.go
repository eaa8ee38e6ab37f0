package graph

import (
	"fmt"

	"go.uber.org/zap"
)

// RuntimeNode is the frozen, id-indexed topology of one node. It holds no
// mutable simulation state (no cars, no traffic-light phase, no spawn
// accumulator) — those live on the per-simulator state owned by package
// simrt, because spec §5 requires the frozen graph to be "shared
// read-only across workers" while lane queues and crossing phases are
// strictly per-simulator.
type RuntimeNode struct {
	ID      int
	Kind    NodeKind
	Removed bool // tombstoned by RemoveNode without renumbering (invariant 4)

	// Street fields.
	Lanes       int
	Length      float64
	Predecessor int // noID only if Removed
	Successor   int // noID only if Removed

	// Crossing fields: In[d]/Out[d] hold the incident street id on
	// compass side d, or noID if that side has no connection.
	In            [4]int
	Out           [4]int
	TransitLength float64

	// IoNode fields.
	SpawnRate float64
	Ins       []int
	Outs      []int
}

// Neighbors returns the ids of nodes directly reachable by leaving this
// node (used by the path server to build its IndexedGraph).
func (n RuntimeNode) Neighbors() []int {
	switch n.Kind {
	case KindStreet:
		if n.Successor == noID {
			return nil
		}
		return []int{n.Successor}
	case KindCrossing:
		var out []int
		for _, sid := range n.Out {
			if sid != noID {
				out = append(out, sid)
			}
		}
		return out
	case KindIoNode:
		return append([]int(nil), n.Outs...)
	default:
		return nil
	}
}

// RuntimeGraph is the immutable, dense topology produced by Freeze.
// Once built it never changes for the lifetime of the simulator that
// owns it (spec §4.1 "after freeze, graph topology is immutable").
type RuntimeGraph struct {
	nodes []RuntimeNode
}

// Len returns the number of id slots (including tombstoned ones).
func (g *RuntimeGraph) Len() int { return len(g.nodes) }

// Node returns the RuntimeNode for id. The second return is false if id
// is out of range or was removed before Freeze.
func (g *RuntimeGraph) Node(id int) (RuntimeNode, bool) {
	if id < 0 || id >= len(g.nodes) {
		return RuntimeNode{}, false
	}
	n := g.nodes[id]
	if n.Removed {
		return RuntimeNode{}, false
	}
	return n, true
}

// All returns every live node in ascending id order, the deterministic
// iteration order required by spec §4.4 and §5.
func (g *RuntimeGraph) All() []RuntimeNode {
	out := make([]RuntimeNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		if !n.Removed {
			out = append(out, n)
		}
	}
	return out
}

// Freeze lowers the Builder's mutable graph into an immutable
// RuntimeGraph. Repeated calls with no intervening mutation return the
// cached result (spec §4.1 "freeze cache is invalidated on any
// mutation").
func (b *Builder) Freeze() (*RuntimeGraph, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen != nil {
		return b.frozen, nil
	}

	nodes := make([]RuntimeNode, b.nextID)
	for id := 0; id < b.nextID; id++ {
		n, ok := b.nodes[id]
		if !ok {
			nodes[id] = RuntimeNode{ID: id, Removed: true, Predecessor: noID, Successor: noID}
			continue
		}
		rn := RuntimeNode{
			ID:            n.id,
			Kind:          n.kind,
			Lanes:         n.lanes,
			Length:        n.length,
			Predecessor:   n.predecessor,
			Successor:     n.successor,
			In:            n.in,
			Out:           n.out,
			TransitLength: n.transitLength,
			SpawnRate:     n.spawnRate,
			Ins:           append([]int(nil), n.ins...),
			Outs:          append([]int(nil), n.outs...),
		}
		if rn.Kind == KindStreet {
			_, hasPred := b.nodes[rn.Predecessor]
			_, hasSucc := b.nodes[rn.Successor]
			if !hasPred || !hasSucc {
				return nil, fmt.Errorf("graph: Freeze street %d: %w", id, ErrDanglingStreet)
			}
		}
		nodes[id] = rn
	}

	rg := &RuntimeGraph{nodes: nodes}
	b.frozen = rg
	b.logger.Debug("freeze", zap.Int("nodes", len(nodes)))
	return rg, nil
}
