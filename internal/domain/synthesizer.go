package domain

import (
	"fmt"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// Synthesizer combines per-parameter value sets into test cases.
type Synthesizer interface {
	Synthesize(sig m.FunctionSignature, sets []m.ValueSet, cfg m.GenerationConfig) ([]m.TestCase, error)
}

type synthesizer struct{}

// NewSynthesizer creates the parallel-pairing Synthesizer.
func NewSynthesizer() Synthesizer {
	return &synthesizer{}
}

// Synthesize pairs the value sets in parallel with wraparound: case i takes
// sets[p].At(i mod len(sets[p])) for every parameter p. It yields exactly
// cfg.CaseCount(sig) cases, the count the listing reports.
func (s *synthesizer) Synthesize(sig m.FunctionSignature, sets []m.ValueSet, cfg m.GenerationConfig) ([]m.TestCase, error) {
	if len(sets) != len(sig.Params) {
		return nil, fmt.Errorf("%s: %d value sets for %d parameters", sig.Name, len(sets), len(sig.Params))
	}

	n := cfg.CaseCount(sig)
	if n == 0 {
		return nil, nil
	}

	for i, set := range sets {
		if set.Len() == 0 {
			return nil, fmt.Errorf("%s: empty value set for parameter %s", sig.Name, sig.Params[i].Name)
		}
	}

	cases := make([]m.TestCase, n)

	for i := range cases {
		args := make([]m.Value, len(sets))
		for p, set := range sets {
			args[p] = set.At(i % set.Len())
		}

		cases[i] = m.TestCase{Function: sig.Name, Index: i + 1, Args: args}
	}

	return cases, nil
}
