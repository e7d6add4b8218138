package boundaries

import (
	"fmt"
	"math/rand/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// CollectionGenerator covers sequences, arrays and mappings. Items come from
// the element category; an undeclared element type is treated as INTEGER and
// an undeclared mapping key as STRING.
type CollectionGenerator struct{}

// Category returns model.CategoryCollection.
func (CollectionGenerator) Category() m.TypeCategory {
	return m.CategoryCollection
}

// Boundary returns the empty, singleton and full-size collections.
func (CollectionGenerator) Boundary(p m.Parameter, cfg m.GenerationConfig) []m.Value {
	elem := elemCategory(p)
	size := max(0, cfg.CollectionSize)

	if p.Shape == m.ShapeMapping {
		keys := mappingKeys(p, size)
		single := mappingKeys(p, 1)

		return []m.Value{
			m.Mapping(nil, nil),
			m.Mapping(single, []m.Value{representative(elem)}[:len(single)]),
			m.Mapping(keys, cycle(elemBoundary(p, elem, cfg), len(keys))),
		}
	}

	return []m.Value{
		shaped(p.Shape, nil),
		shaped(p.Shape, []m.Value{representative(elem)}),
		shaped(p.Shape, cycle(elemBoundary(p, elem, cfg), size)),
	}
}

// Sample returns a collection of random size in [0, collection_size].
func (CollectionGenerator) Sample(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.Value, bool) {
	elem := elemCategory(p)
	size := rng.IntN(max(0, cfg.CollectionSize) + 1)

	if p.Shape == m.ShapeMapping {
		keys := mappingKeys(p, size)

		items := make([]m.Value, len(keys))
		for i := range items {
			items[i] = elemSample(p, elem, cfg, rng)
		}

		return m.Mapping(keys, items), true
	}

	items := make([]m.Value, size)
	for i := range items {
		items[i] = elemSample(p, elem, cfg, rng)
	}

	return shaped(p.Shape, items), true
}

func shaped(shape m.CollectionShape, items []m.Value) m.Value {
	v := m.Sequence(items...)
	v.Shape = shape

	return v
}

func elemCategory(p m.Parameter) m.TypeCategory {
	if p.Elem == m.CategoryUnknown && p.ElemAnnotation == "" {
		return m.CategoryInteger
	}

	return p.Elem
}

func elemBoundary(p m.Parameter, elem m.TypeCategory, cfg m.GenerationConfig) []m.Value {
	if !elem.IsScalar() {
		return []m.Value{representative(elem)}
	}

	return For(elem).Boundary(scalarParam(elem, p.ElemAnnotation), cfg)
}

func elemSample(p m.Parameter, elem m.TypeCategory, cfg m.GenerationConfig, rng *rand.Rand) m.Value {
	if elem == m.CategoryBoolean {
		return m.Bool(rng.IntN(2) == 0)
	}

	if !elem.IsScalar() {
		return representative(elem)
	}

	v, ok := For(elem).Sample(scalarParam(elem, p.ElemAnnotation), cfg, rng)
	if !ok {
		return representative(elem)
	}

	return v
}

// cycle repeats values until n items are produced.
func cycle(values []m.Value, n int) []m.Value {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	out := make([]m.Value, n)
	for i := range out {
		out[i] = values[i%len(values)]
	}

	return out
}

// mappingKeys returns up to n distinct keys for a mapping parameter.
func mappingKeys(p m.Parameter, n int) []m.Value {
	key := p.Key
	if key == m.CategoryUnknown && p.KeyAnnotation == "" {
		key = m.CategoryString
	}

	var keys []m.Value

	switch key {
	case m.CategoryString:
		for i := range n {
			keys = append(keys, m.String(fmt.Sprintf("k%d", i)))
		}
	case m.CategoryInteger:
		for i := range n {
			keys = append(keys, m.Int(int64(i)))
		}
	case m.CategoryFloat:
		for i := range n {
			keys = append(keys, m.Float(float64(i)))
		}
	case m.CategoryBoolean:
		keys = []m.Value{m.Bool(false), m.Bool(true)}[:min(n, 2)]
	case m.CategoryUnknown, m.CategoryCollection, m.CategoryNullable:
		if n > 0 {
			keys = []m.Value{m.Placeholder()}
		}
	}

	return keys
}
