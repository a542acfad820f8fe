package battle

import "math/rand/v2"

// RandomSource yields draws uniformly distributed in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a seeded PCG source, or an unseeded one when seed is 0.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
