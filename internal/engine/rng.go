package engine

import "math/rand"

// newRNG returns a PRNG seeded from seed. The engine owns one instance
// per Engine (spec.md §9: "seeded pseudo-random generator owned by the
// engine, not the process"), so tests can fix the seed and get
// byte-identical scoring reports and chosen moves (spec.md §8,
// "Determinism modulo RNG").
func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// pickUniform returns a uniformly random element of pts using rng. Panics
// if pts is empty; callers only invoke this once they know candidates
// exist (spec.md §4.4: ties among best first-level moves must be broken
// by uniform random choice).
func pickUniform(rng *rand.Rand, pts []Point) Point {
	return pts[rng.Intn(len(pts))]
}
