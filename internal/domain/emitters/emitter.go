// Package emitters renders synthesized test cases into test source text.
package emitters

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// generatedHeader marks every artifact as machine-written.
const generatedHeader = "Code generated by fuzzgen. DO NOT EDIT."

var (
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrLanguageMismatch is returned when a suite's language cannot be
	// rendered in the emitter's format.
	ErrLanguageMismatch = errors.New("source language does not match output format")
)

// Emitter renders suites into a single artifact. Rendering is pure: the same
// suites always produce byte-identical output.
type Emitter interface {
	Format() m.Format
	// Accepts reports whether suites of lang can be rendered.
	Accepts(lang m.Language) bool
	Render(suites []m.Suite) (string, error)
}

var registry = map[m.Format]Emitter{
	m.FormatPython: PythonEmitter{},
	m.FormatGo:     GoEmitter{},
	m.FormatYAML:   YAMLEmitter{},
}

// New returns the emitter for format.
func New(format m.Format) (Emitter, error) {
	if e, ok := registry[format]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Formats lists the supported formats.
func Formats() []m.Format {
	return []m.Format{m.FormatPython, m.FormatGo, m.FormatYAML}
}

// DefaultFormat is the native test format of lang.
func DefaultFormat(lang m.Language) m.Format {
	if lang == m.LanguageGo {
		return m.FormatGo
	}

	return m.FormatPython
}

// checkLanguages rejects the first suite e cannot render.
func checkLanguages(e Emitter, suites []m.Suite) error {
	for _, suite := range suites {
		if !e.Accepts(suite.Source.Language) {
			return fmt.Errorf("%w: %s is %s, format is %s",
				ErrLanguageMismatch, sourcePath(suite.Source), suite.Source.Language, e.Format())
		}
	}

	return nil
}

// nameSet hands out unique identifiers.
type nameSet map[string]int

func (s nameSet) unique(name string) string {
	s[name]++
	if s[name] == 1 {
		return name
	}

	candidate := fmt.Sprintf("%s_x%d", name, s[name])
	for s[candidate] > 0 {
		s[name]++
		candidate = fmt.Sprintf("%s_x%d", name, s[name])
	}

	s[candidate]++

	return candidate
}

// identifier replaces every character that cannot appear in an identifier.
func identifier(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, name)
}
