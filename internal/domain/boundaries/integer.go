package boundaries

import (
	"math"
	"math/big"
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// IntegerGenerator covers INTEGER parameters. Edge values are computed with
// big.Int so min-1 and max+1 never overflow.
type IntegerGenerator struct{}

// Category returns model.CategoryInteger.
func (IntegerGenerator) Category() m.TypeCategory {
	return m.CategoryInteger
}

// Boundary returns min-1, min, 0, max and max+1.
func (IntegerGenerator) Boundary(p m.Parameter, cfg m.GenerationConfig) []m.Value {
	bounds := cfg.IntBoundsFor(p)

	lo := big.NewInt(bounds.Min)
	hi := big.NewInt(bounds.Max)
	one := big.NewInt(1)

	return []m.Value{
		m.BigInt(new(big.Int).Sub(lo, one)),
		m.BigInt(lo),
		m.Int(0),
		m.BigInt(hi),
		m.BigInt(new(big.Int).Add(hi, one)),
	}
}

// Sample draws uniformly from [min, max].
func (IntegerGenerator) Sample(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.Value, bool) {
	bounds := cfg.IntBoundsFor(p)

	return m.Int(uniformInt64(rng, bounds.Min, bounds.Max)), true
}

func uniformInt64(rng *rand.Rand, lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo) //nolint:gosec // two's complement distance

	var offset uint64
	if span == math.MaxUint64 {
		offset = rng.Uint64()
	} else {
		offset = rng.Uint64N(span + 1)
	}

	return int64(uint64(lo) + offset) //nolint:gosec // wraps back into [lo, hi]
}
