package domain

import (
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// RunRandom is the run-scoped source of randomness. Every signature draws from
// its own generator derived from the run seed and a stable key, so the order in
// which workers finish cannot change the output.
type RunRandom struct {
	seed uint64
}

// NewRunRandom returns a RunRandom for seed.
func NewRunRandom(seed uint64) RunRandom {
	return RunRandom{seed: seed}
}

// Seed returns the run seed.
func (r RunRandom) Seed() uint64 {
	return r.seed
}

// For returns a fresh generator for key.
func (r RunRandom) For(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))

	return rand.New(rand.NewPCG(r.seed, h.Sum64())) //nolint:gosec // reproducibility, not secrecy
}

// ResolveSeed returns seed, or a clock-derived seed when seed is zero.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}

	clock := uint64(time.Now().UnixNano()) //nolint:gosec // sign bit is irrelevant here
	if clock == 0 {
		return 1
	}

	return clock
}
