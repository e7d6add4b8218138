package model

// Defaults mirror the CLI defaults.
const (
	DefaultTestsPerFunction = 10
	DefaultStringLength     = 10
	DefaultIntMin           = -100
	DefaultIntMax           = 100
	DefaultCollectionSize   = 5
)

// GenerationConfig is the read-only configuration threaded through the
// strategy and the synthesizer.
type GenerationConfig struct {
	TestsPerFunction int
	StringLength     int
	IntMin           int64
	IntMax           int64
	CollectionSize   int
	Seed             uint64
}

// DefaultGenerationConfig returns the stock configuration.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		TestsPerFunction: DefaultTestsPerFunction,
		StringLength:     DefaultStringLength,
		IntMin:           DefaultIntMin,
		IntMax:           DefaultIntMax,
		CollectionSize:   DefaultCollectionSize,
	}
}

// Validate rejects configurations that would affect every function uniformly.
// Inverted integer bounds are reported, never swapped.
func (c GenerationConfig) Validate() error {
	if c.TestsPerFunction <= 0 {
		return &ConfigError{Field: "num_tests", Reason: "must be greater than zero"}
	}

	if c.StringLength <= 0 {
		return &ConfigError{Field: "string_length", Reason: "must be greater than zero"}
	}

	if c.CollectionSize < 0 {
		return &ConfigError{Field: "collection_size", Reason: "must not be negative"}
	}

	if c.IntMin > c.IntMax {
		return &ConfigError{Field: "int_min", Reason: "must be less than or equal to int_max"}
	}

	return nil
}

// IntBoundsFor returns the integer range to use for p.
func (c GenerationConfig) IntBoundsFor(p Parameter) IntBounds {
	if p.Bounds != nil {
		return *p.Bounds
	}

	return IntBounds{Min: c.IntMin, Max: c.IntMax}
}

// CaseCount is the number of cases synthesized for sig: tests-per-function
// when it takes parameters, none otherwise.
func (c GenerationConfig) CaseCount(sig FunctionSignature) int {
	if len(sig.Params) == 0 || c.TestsPerFunction <= 0 {
		return 0
	}

	return c.TestsPerFunction
}
