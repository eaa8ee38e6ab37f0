// Package car defines the Movable (Car) entity shared by the lane, path
// server and simulator tick packages, plus the pure cost/CO2 function used
// for evolutionary fitness.
//
// What:
//
//   - Car: unique id, current speed, a LIFO path stack, and kinematic
//     bookkeeping (distance travelled, time spent waiting).
//   - CostParams / Cost: a pure function turning one car's final
//     kinematic report into a (cost, co2) pair.
//
// Why:
//
//   - Every component downstream of the path server (lane, simrt, evolve)
//     needs the same car representation; factoring it out avoids an
//     import cycle between lane and pathserver.
package car
