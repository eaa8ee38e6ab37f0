// Package lane implements Traversible, the ordered per-lane car queue
// driven once per tick (spec §4.2, component C2). One Traversible models
// one street lane or one crossing's internal transit lane.
//
// What:
//
//   - Traversible.Advance(dt): updates every car's position rear-to-front,
//     detects the tail-contiguous run of "waiting" cars (either at the
//     end of the lane or bunched within CarSpacing of the car ahead), and
//     reports which cars arrived at the end this tick.
//   - AddToLeastLoaded: places a car on whichever of several lanes has
//     the fewest cars, ties broken by lowest lane index (spec §9 OQ3).
//
// Why:
//
//   - Spacing and waiting-run detection must happen in a single
//     rear-to-front pass so a car's decision to wait can depend on the
//     already-updated position of the car ahead of it, exactly mirroring
//     original_source/simulator/src/traversible.rs.
//
// Complexity:
//
//   - Advance: O(n) in the number of cars on the lane.
package lane
