package boundaries

import (
	"math"
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Epsilon is the float64 machine epsilon.
const Epsilon = 2.220446049250313e-16

// FloatGenerator covers FLOAT parameters.
type FloatGenerator struct{}

// Category returns model.CategoryFloat.
func (FloatGenerator) Category() m.TypeCategory {
	return m.CategoryFloat
}

// Boundary returns zero, both epsilons, the largest finite value, NaN and +Inf.
func (FloatGenerator) Boundary(m.Parameter, m.GenerationConfig) []m.Value {
	return []m.Value{
		m.Float(0),
		m.Float(-Epsilon),
		m.Float(Epsilon),
		m.Float(math.MaxFloat64),
		m.Float(math.NaN()),
		m.Float(math.Inf(1)),
	}
}

// Sample draws uniformly from the configured integer range.
func (FloatGenerator) Sample(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.Value, bool) {
	bounds := cfg.IntBoundsFor(p)

	lo := float64(bounds.Min)
	hi := float64(bounds.Max)

	return m.Float(lo + rng.Float64()*(hi-lo)), true
}
