// Package evolve implements the evolutionary driver of spec §4.5 and §5,
// component C5: it runs a population of independent simrt.Simulator
// instances in parallel for a fixed number of generations, collects
// fitness, and recombines each crossing's policy network between
// generations via fitness-proportional selection, uniform crossover, and
// Gaussian-like mutation.
//
// Grounded on original_source/simulator/src/sim_manager.rs: that file's
// rayon into_par_iter fan-out over SimData per generation, its
// terminate/terminate_generation flags, and its choose_weighted parent
// selection map directly onto Manager's errgroup.Group fan-out and two
// context.Context layers (global, generation-scoped).
package evolve
