package boundaries

import (
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// UnknownGenerator covers parameters nothing is known about.
type UnknownGenerator struct{}

// Category returns model.CategoryUnknown.
func (UnknownGenerator) Category() m.TypeCategory {
	return m.CategoryUnknown
}

// Boundary returns the placeholder sentinel.
func (UnknownGenerator) Boundary(m.Parameter, m.GenerationConfig) []m.Value {
	return []m.Value{m.Placeholder()}
}

// Sample never produces a value.
func (UnknownGenerator) Sample(m.Parameter, m.GenerationConfig, *rand.Rand) (m.Value, bool) {
	return m.Value{}, false
}
