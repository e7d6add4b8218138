// Package boundaries provides the per-category boundary value generators.
package boundaries

import (
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Generator produces the candidate values for one TypeCategory.
type Generator interface {
	Category() m.TypeCategory

	// Boundary returns the deterministic edge values for p.
	Boundary(p m.Parameter, cfg m.GenerationConfig) []m.Value

	// Sample draws one random value for p. ok is false for categories that
	// are fully covered by their boundary values.
	Sample(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (v m.Value, ok bool)
}

var registry = map[m.TypeCategory]Generator{
	m.CategoryInteger:    IntegerGenerator{},
	m.CategoryFloat:      FloatGenerator{},
	m.CategoryString:     StringGenerator{},
	m.CategoryBoolean:    BooleanGenerator{},
	m.CategoryCollection: CollectionGenerator{},
	m.CategoryNullable:   NullableGenerator{},
	m.CategoryUnknown:    UnknownGenerator{},
}

// For returns the generator for category. Unrecognized categories fall back
// to the UNKNOWN generator.
func For(category m.TypeCategory) Generator {
	if g, ok := registry[category]; ok {
		return g
	}

	return UnknownGenerator{}
}

// Build assembles the ValueSet for p: boundary values first, then as many
// samples as the per-function test count leaves room for.
func Build(g Generator, p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) m.ValueSet {
	boundary := Dedupe(g.Boundary(p, cfg))

	n := max(0, cfg.TestsPerFunction-len(boundary))

	var sampled []m.Value

	for range n {
		v, ok := g.Sample(p, cfg, rng)
		if !ok {
			break
		}

		sampled = append(sampled, v)
	}

	return m.ValueSet{Boundary: boundary, Sampled: sampled}
}

// Dedupe drops repeated values, keeping the first occurrence.
func Dedupe(values []m.Value) []m.Value {
	seen := make(map[string]struct{}, len(values))
	out := make([]m.Value, 0, len(values))

	for _, v := range values {
		key := v.Key()
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, v)
	}

	return out
}

// representative is the single deterministic non-edge value of a category.
func representative(category m.TypeCategory) m.Value {
	switch category {
	case m.CategoryInteger:
		return m.Int(0)
	case m.CategoryFloat:
		return m.Float(0)
	case m.CategoryString:
		return m.String("a")
	case m.CategoryBoolean:
		return m.Bool(true)
	case m.CategoryCollection:
		return m.Sequence()
	case m.CategoryNullable:
		return m.Null()
	case m.CategoryUnknown:
		return m.Placeholder()
	}

	return m.Placeholder()
}

// scalarParam builds a parameter view for element and key generation.
func scalarParam(category m.TypeCategory, annotation string) m.Parameter {
	return m.Parameter{Category: category, Annotation: annotation}
}
