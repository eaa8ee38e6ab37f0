package evolve

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/trafficevo/neural"
)

// recombine produces the next generation's policy pool from fitness and
// the current pool, following spec §4.5.2.c: for each child, select two
// parents by fitness-proportional sampling with replacement, cross their
// per-crossing networks uniformly, then apply Gaussian-like mutation.
// Each member's per-worker RNG is reseeded deterministically from gen and
// member index, matching the Tick-time reseeding in runGeneration.
func (m *Manager) recombine(fitness []float64, pool [][]*neural.Network, gen int) [][]*neural.Network {
	next := make([][]*neural.Network, len(pool))
	for i := range next {
		rng := rand.New(rand.NewSource(m.seed + int64(gen)*1_000_003 + int64(i) + 7))

		a := selectParent(fitness, rng)
		b := selectParent(fitness, rng)

		child := make([]*neural.Network, len(pool[a]))
		for c := range child {
			net := pool[a][c].Crossover(pool[b][c], rng)
			if rng.Float64() < m.cfg.MutationChance {
				net.Mutate(m.cfg.MutationCoeff, rng)
			}
			child[c] = net
		}
		next[i] = child
	}
	return next
}

// selectParent runs fitness-proportional sampling with replacement
// (original_source/simulator/src/sim_manager.rs's
// `choose_weighted(&mut rng, |(cost, _)| 1.0/cost)`). A pool with total
// fitness <= 0 (should not arise, since Simulator.Fitness guards
// divide-by-zero) falls back to a uniform pick.
func selectParent(fitness []float64, rng *rand.Rand) int {
	total := 0.0
	for _, f := range fitness {
		total += f
	}
	if total <= 0 || math.IsInf(total, 0) {
		return rng.Intn(len(fitness))
	}

	r := rng.Float64() * total
	for i, f := range fitness {
		r -= f
		if r <= 0 {
			return i
		}
	}
	return len(fitness) - 1
}
