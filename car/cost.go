package car

// CostParams tunes the pure per-car cost function. Spec §4.4 leaves the
// exact formula to the implementer ("a single pure function ... that an
// implementation is free to choose but must apply uniformly across the
// population"); DefaultCostParams is the value used across a population
// unless a caller overrides it.
type CostParams struct {
	// WaitPenalty weighs seconds spent waiting (stopped at a spacing or
	// a red phase) against total cost.
	WaitPenalty float64
	// TravelPenalty weighs total seconds spent moving or waiting.
	TravelPenalty float64
	// Co2PerMeter is the emission rate while moving.
	Co2PerMeter float64
	// Co2PerIdleSecond is the emission rate while idling (engine running,
	// not moving) — non-zero because idling cars still burn fuel.
	Co2PerIdleSecond float64
}

// DefaultCostParams mirrors a car that is "expensive" to leave waiting
// (congestion is the thing the evolutionary driver should learn to
// reduce) while travel time and distance contribute more mildly.
var DefaultCostParams = CostParams{
	WaitPenalty:      2.0,
	TravelPenalty:    1.0,
	Co2PerMeter:      0.12,
	Co2PerIdleSecond: 0.02,
}

// Cost turns one car's final kinematic report into a (cost, co2) pair.
// It is a pure function of report and params: calling it twice with the
// same arguments always yields the same result, which is what lets
// fitness be computed identically for every population member (spec
// §4.4, §8 Determinism).
func Cost(report Report, params CostParams) (cost float64, co2 float64) {
	cost = params.WaitPenalty*report.TimeWaiting + params.TravelPenalty*report.TimeTravelled
	co2 = params.Co2PerMeter*report.DistanceTravelled + params.Co2PerIdleSecond*report.TimeWaiting
	return cost, co2
}
