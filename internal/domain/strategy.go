package domain

import (
	"math/rand/v2"

	"gooze.dev/pkg/fuzzgen/internal/domain/boundaries"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Strategy turns a classified parameter into its candidate values.
type Strategy interface {
	ValueSet(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.ValueSet, error)
	ValueSets(sig m.FunctionSignature, cfg m.GenerationConfig, rng *rand.Rand) ([]m.ValueSet, error)
}

type strategy struct{}

// NewStrategy creates the boundary value Strategy.
func NewStrategy() Strategy {
	return &strategy{}
}

// ValueSet fails with *model.ConfigError on an invalid configuration and
// otherwise never fails.
func (s *strategy) ValueSet(p m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.ValueSet, error) {
	if err := cfg.Validate(); err != nil {
		return m.ValueSet{}, err
	}

	return boundaries.Build(boundaries.For(p.Category), p, cfg, rng), nil
}

// ValueSets returns one ValueSet per parameter, in parameter order.
func (s *strategy) ValueSets(sig m.FunctionSignature, cfg m.GenerationConfig, rng *rand.Rand) ([]m.ValueSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sets := make([]m.ValueSet, len(sig.Params))

	for i, p := range sig.Params {
		set, err := s.ValueSet(p, cfg, rng)
		if err != nil {
			return nil, err
		}

		sets[i] = set
	}

	return sets, nil
}
