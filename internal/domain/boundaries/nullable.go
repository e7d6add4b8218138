package boundaries

import (
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// NullableGenerator covers optional values, pointers and interfaces.
type NullableGenerator struct{}

// Category returns model.CategoryNullable.
func (NullableGenerator) Category() m.TypeCategory {
	return m.CategoryNullable
}

// Boundary returns null and one non-null representative of the inner type.
func (NullableGenerator) Boundary(p m.Parameter, _ m.GenerationConfig) []m.Value {
	inner := m.Object()

	switch {
	case p.Elem.IsScalar():
		inner = representative(p.Elem)
	case p.Elem == m.CategoryCollection:
		inner = m.Sequence()
	}

	return []m.Value{m.Null(), inner}
}

// Sample never produces a value.
func (NullableGenerator) Sample(m.Parameter, m.GenerationConfig, *rand.Rand) (m.Value, bool) {
	return m.Value{}, false
}
