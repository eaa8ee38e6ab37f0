// Package neural implements the feed-forward policy network each
// Crossing uses to decide its traffic-light phase (spec §4.1, §7). A
// Network is an ordered stack of Layers; Layer 0 consumes the 8-wide
// observation vector and the final layer emits K phase scores.
//
// The architecture and the genetic operators (uniform crossover,
// Gaussian-like mutation) are ported from
// original_source/art-int/src/{layer,neuron,lib,genetics}.rs — a small,
// dependency-free neural network crate written for exactly this kind of
// evolvable per-agent policy.
package neural
