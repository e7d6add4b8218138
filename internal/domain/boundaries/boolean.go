package boundaries

import (
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// BooleanGenerator covers BOOLEAN parameters. Both values are boundaries, so
// there is nothing left to sample.
type BooleanGenerator struct{}

// Category returns model.CategoryBoolean.
func (BooleanGenerator) Category() m.TypeCategory {
	return m.CategoryBoolean
}

// Boundary returns true and false.
func (BooleanGenerator) Boundary(m.Parameter, m.GenerationConfig) []m.Value {
	return []m.Value{m.Bool(true), m.Bool(false)}
}

// Sample never produces a value.
func (BooleanGenerator) Sample(m.Parameter, m.GenerationConfig, *rand.Rand) (m.Value, bool) {
	return m.Value{}, false
}
