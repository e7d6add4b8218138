package emitters

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// PythonEmitter renders a pytest module with one test function per case.
type PythonEmitter struct{}

// Format returns model.FormatPython.
func (PythonEmitter) Format() m.Format {
	return m.FormatPython
}

// Accepts reports whether lang is Python.
func (PythonEmitter) Accepts(lang m.Language) bool {
	return lang == m.LanguagePython
}

// Render implements Emitter.
func (e PythonEmitter) Render(suites []m.Suite) (string, error) {
	if err := checkLanguages(e, suites); err != nil {
		return "", err
	}

	var (
		modules = map[string]struct{}{}
		async   bool
	)

	for _, suite := range suites {
		if suite.Source.Package == "" {
			return "", fmt.Errorf("python module name missing for %s", sourcePath(suite.Source))
		}

		modules[suite.Source.Package] = struct{}{}

		for _, fc := range suite.Functions {
			async = async || (fc.Signature.Async && len(fc.Cases) > 0)
		}
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", generatedHeader)

	if async {
		b.WriteString("import asyncio\n\n")
	}

	b.WriteString("import pytest\n")

	if len(modules) > 0 {
		b.WriteString("\n")

		for _, module := range sortedKeys(modules) {
			fmt.Fprintf(&b, "import %s\n", module)
		}
	}

	names := nameSet{}

	for _, suite := range suites {
		module := suite.Source.Package
		needsArgs := constructorsWithArgs(suite)

		for _, fc := range suite.Functions {
			sig := fc.Signature

			if len(fc.Cases) == 0 {
				fmt.Fprintf(&b, "\n\n# %s.%s takes no parameters; no cases generated.\n", module, sig.Name)
				continue
			}

			skip := pythonSkipReason(sig, needsArgs)

			for _, tc := range fc.Cases {
				name := names.unique(fmt.Sprintf("test_%s_%s_%d", identifier(module), identifier(sig.Name), tc.Index))
				writePythonTest(&b, module, sig, tc, name, skip)
			}
		}
	}

	return b.String(), nil
}

// constructorsWithArgs returns the classes of suite whose __init__ has a
// parameter without a default.
func constructorsWithArgs(suite m.Suite) map[string]bool {
	owners := map[string]bool{}

	for _, fc := range suite.Functions {
		sig := fc.Signature
		if sig.Kind != m.FuncMethod || sig.SimpleName() != "__init__" {
			continue
		}

		for _, p := range sig.Params {
			if !p.Kind.IsVariadic() && p.Default == nil {
				owners[owner(sig)] = true
				break
			}
		}
	}

	return owners
}

// pythonSkipReason is non-empty for cases that cannot be called from a test.
func pythonSkipReason(sig m.FunctionSignature, needsArgs map[string]bool) string {
	switch {
	case sig.Kind == m.FuncNested:
		return "nested function " + sig.Name + " is not reachable from module scope"
	case sig.Kind == m.FuncMethod && sig.SimpleName() != "__init__" && needsArgs[owner(sig)]:
		return owner(sig) + "() requires constructor arguments"
	}

	return ""
}

func writePythonTest(b *strings.Builder, module string, sig m.FunctionSignature, tc m.TestCase, name, skip string) {
	call := pythonCall(module, sig, tc)

	b.WriteString("\n\n")

	if skip != "" {
		fmt.Fprintf(b, "@pytest.mark.skip(reason=%s)\n", pythonString(skip))
		fmt.Fprintf(b, "def %s():\n", name)
		fmt.Fprintf(b, "    # %s\n", call)
		b.WriteString("    pass\n")

		return
	}

	if sig.Async {
		call = "asyncio.run(" + call + ")"
	}

	fmt.Fprintf(b, "def %s():\n", name)
	b.WriteString("    try:\n")
	fmt.Fprintf(b, "        %s\n", call)
	b.WriteString("    except Exception as exc:\n")
	fmt.Fprintf(b, "        pytest.fail(f%s)\n", pythonString(module+"."+sig.Name+" raised {exc!r}"))
}

func pythonCall(module string, sig m.FunctionSignature, tc m.TestCase) string {
	var target string

	switch sig.Kind {
	case m.FuncMethod:
		if sig.SimpleName() == "__init__" {
			target = module + "." + owner(sig)
			break
		}

		target = fmt.Sprintf("%s.%s().%s", module, owner(sig), sig.SimpleName())
	case m.FuncStaticMethod, m.FuncPlain:
		target = module + "." + sig.Name
	case m.FuncNested:
		target = sig.SimpleName()
	}

	var positional, keyword []string

	for i, p := range sig.Params {
		if i >= len(tc.Args) {
			break
		}

		v := tc.Args[i]

		switch p.Kind {
		case m.ParamVariadic:
			for _, item := range v.Items {
				positional = append(positional, pythonLiteral(item))
			}
		case m.ParamVariadicKeyword:
			keyword = append(keyword, pythonKeywords(v)...)
		case m.ParamKeyword:
			keyword = append(keyword, p.Name+"="+pythonLiteral(v))
		case m.ParamPositional:
			positional = append(positional, pythonLiteral(v))
		}
	}

	return target + "(" + strings.Join(append(positional, keyword...), ", ") + ")"
}

// pythonKeywords spreads a **kwargs mapping into name=value arguments. Keys
// that are not identifiers are passed through a ** dict instead.
func pythonKeywords(v m.Value) []string {
	var (
		out  []string
		rest []string
	)

	for i, item := range v.Items {
		if i >= len(v.Keys) {
			break
		}

		key := v.Keys[i]
		if key.Kind == m.KindString && pythonIdentifier(key.Str) {
			out = append(out, key.Str+"="+pythonLiteral(item))
			continue
		}

		rest = append(rest, pythonLiteral(key)+": "+pythonLiteral(item))
	}

	if len(rest) > 0 {
		out = append(out, "**{"+strings.Join(rest, ", ")+"}")
	}

	return out
}

func pythonIdentifier(s string) bool {
	if s == "" || has(pythonKeywordSet, s) {
		return false
	}

	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}

var pythonKeywordSet = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// owner is the class part of a qualified method name.
func owner(sig m.FunctionSignature) string {
	return strings.TrimSuffix(sig.Name, "."+sig.SimpleName())
}

func pythonLiteral(v m.Value) string {
	switch v.Kind {
	case m.KindPlaceholder, m.KindNull:
		return "None"
	case m.KindObject:
		return "object()"
	case m.KindInt:
		return v.Int.String()
	case m.KindFloat:
		return pythonFloat(v.Float)
	case m.KindString:
		return pythonString(v.Str)
	case m.KindBool:
		if v.Bool {
			return "True"
		}

		return "False"
	case m.KindCollection:
		items := make([]string, len(v.Items))

		if v.Shape == m.ShapeMapping {
			for i, item := range v.Items {
				items[i] = pythonLiteral(v.Keys[i]) + ": " + pythonLiteral(item)
			}

			return "{" + strings.Join(items, ", ") + "}"
		}

		for i, item := range v.Items {
			items[i] = pythonLiteral(item)
		}

		return "[" + strings.Join(items, ", ") + "]"
	}

	return "None"
}

func pythonFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "float('nan')"
	case math.IsInf(f, 1):
		return "float('inf')"
	case math.IsInf(f, -1):
		return "float('-inf')"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// pythonString quotes s as a double-quoted Python literal.
func pythonString(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}

			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func sourcePath(source m.Source) string {
	if source.Origin == nil {
		return "<unknown>"
	}

	return string(source.Origin.ShortPath)
}
