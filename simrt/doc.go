// Package simrt implements component C4 of spec §4.4: the per-tick
// traffic-advance algorithm. A Simulator owns one frozen graph.RuntimeGraph
// plus all of the mutable state that graph intentionally excludes — lane
// Traversibles, per-crossing traffic-light phase and neural.Network
// policy, and per-IoNode spawn accumulators and absorbed-car counters.
//
// Tick(dt) runs the pass in ascending node-id order: I/O sources, lane
// advance, crossing admission, crossing exit. I/O sinks are handled
// within lane advance: cars at the end of a street that leads into an
// IoNode are absorbed right after that street advances.
// Spec §5 requires this to stay strictly single-threaded and
// bit-reproducible from the same seed, graph, and policies — a Simulator
// never spawns goroutines of its own.
//
// Grounded on original_source/simulator/src/{node,sim_manager}.rs for the
// Street/Crossing/IoNode update shape (update_movables/add_movable
// dispatch), generalized with the NN-driven phase admission and 8-wide
// observation vector this spec's evolutionary layer requires.
package simrt
