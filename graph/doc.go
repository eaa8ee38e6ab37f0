// Package graph implements the two-phase graph model of the traffic
// micro-simulator: a mutable Builder for constructing the street/crossing/
// I/O topology, and an immutable RuntimeGraph produced by Freeze for the
// simulator's hot tick loop.
//
// What:
//
//   - Builder: AddNode/Connect/RemoveNode mutate a graph of handles with
//     weak back-references; Freeze lowers it into a dense, id-indexed
//     RuntimeGraph.
//   - NodeKind: Street, Crossing, IoNode — the three node variants, kept
//     as a tagged union for cache locality and exhaustive dispatch.
//
// Why:
//
//   - Editing is pointer-rich and cyclic (a street references both of its
//     endpoints); simulation is hot-path and index-addressed. Separating
//     the two phases keeps each one's code simple.
//
// Complexity:
//
//   - AddNode/Connect/RemoveNode: O(1) amortized.
//   - Freeze: O(V+E), cached until the next mutation.
//
// Errors:
//
//   - ErrSlotOccupied, ErrInvalidEndpoint, ErrStreetToStreet, ErrNodeNotFound.
package graph
