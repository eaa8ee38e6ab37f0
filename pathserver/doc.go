// Package pathserver implements component C3 of spec §4.3: a shared,
// read-only index over a frozen graph.RuntimeGraph that answers "what is
// the cheapest path from this IoNode to some destination IoNode" without
// re-running Dijkstra for every spawned car, and decides — each tick —
// whether a car waiting at a node's exit may advance onto the next node.
//
// Grounded on original_source/simulator/src/pathfinding.rs's
// IndexedNodeNetwork + MovableServer (index-once, cache-by-(origin,
// destination) pair, weighted-random destination sampling) and on the
// teacher's graph/algorithms/dijkstra.go runner-struct style
// (container/heap-backed priority queue, integer edge costs).
package pathserver
