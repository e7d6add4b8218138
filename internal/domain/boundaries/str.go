package boundaries

import (
	"math/rand/v2"
	"strings"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const (
	letters    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	whitespace = " \t\n\r"
	// unusual mixes a NUL, accented and CJK letters, an emoji and DEL.
	unusual = "\x00é中😀\x7f"
)

// StringGenerator covers STRING parameters.
type StringGenerator struct{}

// Category returns model.CategoryString.
func (StringGenerator) Category() m.TypeCategory {
	return m.CategoryString
}

// Boundary returns empty, single character, exact length, length+1,
// whitespace-only and non-ASCII strings.
func (StringGenerator) Boundary(_ m.Parameter, cfg m.GenerationConfig) []m.Value {
	return []m.Value{
		m.String(""),
		m.String("a"),
		m.String(strings.Repeat("a", cfg.StringLength)),
		m.String(strings.Repeat("a", cfg.StringLength+1)),
		m.String(whitespace),
		m.String(unusual),
	}
}

// Sample returns a random ASCII letter string of the configured length.
func (StringGenerator) Sample(_ m.Parameter, cfg m.GenerationConfig, rng *rand.Rand) (m.Value, bool) {
	return m.String(randomLetters(rng, cfg.StringLength)), true
}

func randomLetters(rng *rand.Rand, n int) string {
	var b strings.Builder

	b.Grow(n)

	for range n {
		b.WriteByte(letters[rng.IntN(len(letters))])
	}

	return b.String()
}
