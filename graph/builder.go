package graph

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultLaneLength is the reference street length in meters, reused
// verbatim from the reference topology (spec §6 tuning constants).
const DefaultLaneLength = 100.0

// DefaultCrossingTransitLength is the default length of a crossing's
// internal transit lane (spec §6 tuning constants).
const DefaultCrossingTransitLength = 10.0

// buildNode is the Builder's mutable representation of a node. Neighbors
// are referenced by id rather than by pointer: a removed id simply
// disappears from Builder.nodes, which gives weak-back-reference
// semantics (a dangling id resolves to "not found") without reference
// counting or cycles, per design note §9 "arena storage plus integer ids."
type buildNode struct {
	id   int
	kind NodeKind

	// Street fields.
	lanes       int
	length      float64
	predecessor int // node id upstream of this street, noID if unset
	successor   int // node id downstream of this street, noID if unset

	// Crossing fields: in[d]/out[d] hold the street id connected on
	// compass side d, or noID if that slot is free.
	in            [4]int
	out           [4]int
	transitLength float64

	// IoNode fields.
	spawnRate float64
	ins       []int // incoming street ids, unbounded
	outs      []int // outgoing street ids, unbounded
}

func newBuildNode(id int, kind NodeKind) *buildNode {
	n := &buildNode{id: id, kind: kind, predecessor: noID, successor: noID}
	n.in = [4]int{noID, noID, noID, noID}
	n.out = [4]int{noID, noID, noID, noID}
	n.length = DefaultLaneLength
	n.transitLength = DefaultCrossingTransitLength
	n.lanes = 1
	n.spawnRate = 1.0
	return n
}

// Builder is the mutable, two-phase graph editor of spec §4.1. All
// mutations are protected by a mutex so a Builder can be shared across
// goroutines during interactive editing (mirrors core/types.go's
// RWMutex-guarded Graph, generalized from string vertex ids to the
// dense int ids this spec's invariant 4 requires).
type Builder struct {
	mu     sync.Mutex
	nodes  map[int]*buildNode
	nextID int
	logger *zap.Logger

	// frozen caches the last Freeze result; invalidated by any mutation.
	frozen *RuntimeGraph
}

// BuilderOption configures a Builder at construction time, following the
// teacher's functional-option convention (builder/config.go).
type BuilderOption func(*Builder)

// WithLogger attaches a logger used for build-time diagnostics. A nil
// logger (the default) disables logging, matching design note §9 "the
// core takes an opaque logger handle or none."
func WithLogger(logger *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		nodes:  make(map[int]*buildNode),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// invalidate drops the freeze cache; called by every mutating method.
func (b *Builder) invalidate() {
	b.frozen = nil
}

// AddNode inserts a new node of the given kind and returns its id.
// Ids are dense and monotonically increasing; removal never renumbers
// or reuses an id (invariant 4).
func (b *Builder) AddNode(kind NodeKind) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.nodes[id] = newBuildNode(id, kind)
	b.invalidate()

	b.logger.Debug("add_node", zap.Int("id", id), zap.Stringer("kind", kind))
	return id
}

// ConnectOption customizes a single Connect call.
type ConnectOption func(*buildNode)

// WithStreetLength overrides DefaultLaneLength for this street.
func WithStreetLength(meters float64) ConnectOption {
	return func(n *buildNode) { n.length = meters }
}

// Connect creates a Street between two (IoNode|Crossing) endpoints,
// inserting it into each endpoint's direction slot (spec §4.1).
//
// originDir/destDir select the Crossing slot used at each end; they are
// ignored for IoNode endpoints, whose edge lists are unbounded.
func (b *Builder) Connect(originID int, originDir Direction, destID int, destDir Direction, lanes int, opts ...ConnectOption) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	origin, ok := b.nodes[originID]
	if !ok {
		return noID, fmt.Errorf("graph: Connect origin %d: %w", originID, ErrInvalidEndpoint)
	}
	dest, ok := b.nodes[destID]
	if !ok {
		return noID, fmt.Errorf("graph: Connect dest %d: %w", destID, ErrInvalidEndpoint)
	}
	if origin.kind == KindStreet || dest.kind == KindStreet {
		return noID, fmt.Errorf("graph: Connect %d->%d: %w", originID, destID, ErrStreetToStreet)
	}
	if origin.kind == KindCrossing && origin.out[originDir] != noID {
		return noID, fmt.Errorf("graph: Connect origin %d side %s: %w", originID, originDir, ErrSlotOccupied)
	}
	if dest.kind == KindCrossing && dest.in[destDir] != noID {
		return noID, fmt.Errorf("graph: Connect dest %d side %s: %w", destID, destDir, ErrSlotOccupied)
	}
	if lanes < 1 {
		lanes = 1
	}

	streetID := b.nextID
	b.nextID++
	street := newBuildNode(streetID, KindStreet)
	street.predecessor = originID
	street.successor = destID
	street.lanes = lanes
	for _, opt := range opts {
		opt(street)
	}
	b.nodes[streetID] = street

	switch origin.kind {
	case KindCrossing:
		origin.out[originDir] = streetID
	case KindIoNode:
		origin.outs = append(origin.outs, streetID)
	}
	switch dest.kind {
	case KindCrossing:
		dest.in[destDir] = streetID
	case KindIoNode:
		dest.ins = append(dest.ins, streetID)
	}

	b.invalidate()
	b.logger.Debug("connect",
		zap.Int("origin", originID), zap.Stringer("origin_dir", originDir),
		zap.Int("dest", destID), zap.Stringer("dest_dir", destDir),
		zap.Int("street", streetID), zap.Int("lanes", lanes))
	return streetID, nil
}

// RemoveNode deletes id. With cascade, all streets incident to id are
// also removed and the opposite endpoint's slot/list is scrubbed so no
// dangling reference remains — "this back-edge cleanup is essential:
// without it, downstream iteration over an endpoint's neighbors would
// observe a vacant slot and fail" (spec §4.1). Without cascade, incident
// streets are left pointing at the now-missing id; Freeze reports this
// as ErrDanglingStreet, matching the RuntimeError "stale reference after
// removal" case in spec §7. Ids are never reused (invariant 4).
func (b *Builder) RemoveNode(id int, cascade bool) ([]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.nodes[id]
	if !ok {
		return nil, fmt.Errorf("graph: RemoveNode %d: %w", id, ErrNodeNotFound)
	}

	var removed []int
	switch n.kind {
	case KindStreet:
		// Streets remove without cascade: drop the single edge and scrub
		// the slot/list that referenced it on both endpoints, if present.
		b.scrubStreetRef(n.predecessor, id, false)
		b.scrubStreetRef(n.successor, id, true)
		delete(b.nodes, id)
		removed = []int{id}

	case KindCrossing, KindIoNode:
		if cascade {
			incident := b.incidentStreets(n)
			for _, sid := range incident {
				s := b.nodes[sid]
				if s == nil {
					continue
				}
				other := s.predecessor
				if other == id {
					other = s.successor
				}
				b.scrubStreetRef(other, sid, other == s.successor)
				delete(b.nodes, sid)
				removed = append(removed, sid)
			}
		}
		delete(b.nodes, id)
		removed = append(removed, id)
	}

	b.invalidate()
	b.logger.Debug("remove_node", zap.Int("id", id), zap.Bool("cascade", cascade), zap.Int("removed", len(removed)))
	return removed, nil
}

// incidentStreets lists every street id touching a Crossing or IoNode.
func (b *Builder) incidentStreets(n *buildNode) []int {
	var ids []int
	switch n.kind {
	case KindCrossing:
		for _, sid := range n.in {
			if sid != noID {
				ids = append(ids, sid)
			}
		}
		for _, sid := range n.out {
			if sid != noID {
				ids = append(ids, sid)
			}
		}
	case KindIoNode:
		ids = append(ids, n.ins...)
		ids = append(ids, n.outs...)
	}
	return ids
}

// scrubStreetRef removes the reference to street id sid from node
// endpointID's slot or list. isIncoming selects whether sid was the
// node's inbound (true) or outbound (false) street.
func (b *Builder) scrubStreetRef(endpointID, sid int, isIncoming bool) {
	ep, ok := b.nodes[endpointID]
	if !ok {
		return
	}
	switch ep.kind {
	case KindCrossing:
		slots := &ep.out
		if isIncoming {
			slots = &ep.in
		}
		for d := range slots {
			if slots[d] == sid {
				slots[d] = noID
			}
		}
	case KindIoNode:
		list := &ep.outs
		if isIncoming {
			list = &ep.ins
		}
		*list = removeValue(*list, sid)
	}
}

func removeValue(xs []int, v int) []int {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// Len reports the number of live nodes. Removed ids are not counted;
// NextID gives the size of the id range including those gaps.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.nodes)
}

// NextID previews the id AddNode would assign next.
func (b *Builder) NextID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextID
}
