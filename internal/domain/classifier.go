package domain

import (
	"go/ast"
	"go/parser"
	"go/types"
	"log/slog"
	"math/big"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const classifierCacheSize = 1024

// Classifier maps parameter type information onto a TypeCategory. It is total:
// every hint yields a category, UNKNOWN when nothing better is known.
type Classifier interface {
	Classify(hint m.TypeHint) m.Classification
	ClassifySignature(lang m.Language, sig m.FunctionSignature) m.FunctionSignature
}

type classifier struct {
	cache *lru.Cache[m.TypeHint, m.Classification]
}

// NewClassifier creates a Classifier memoizing results per hint.
func NewClassifier() Classifier {
	cache, err := lru.New[m.TypeHint, m.Classification](classifierCacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}

	return &classifier{cache: cache}
}

// Classify resolves the annotation first, then the default literal.
func (c *classifier) Classify(hint m.TypeHint) m.Classification {
	if cached, ok := c.cache.Get(hint); ok {
		return cached
	}

	result := classifyHint(hint)
	c.cache.Add(hint, result)

	return result
}

// ClassifySignature returns sig with every parameter categorized. A variadic
// parameter is a COLLECTION of its declared element type. Fallbacks are
// logged as warnings.
func (c *classifier) ClassifySignature(lang m.Language, sig m.FunctionSignature) m.FunctionSignature {
	params := make([]m.Parameter, len(sig.Params))

	for i, p := range sig.Params {
		if p.Kind.IsVariadic() {
			params[i] = p.WithClassification(classifyVariadic(lang, p))
			continue
		}

		params[i] = p.WithClassification(c.Classify(p.Hint(lang)))

		if params[i].Category == m.CategoryUnknown {
			slog.Warn("parameter type fell back to unknown",
				"function", sig.Name,
				"parameter", p.Name,
				"annotation", p.Annotation)
		}
	}

	sig.Params = params

	return sig
}

// classifyVariadic treats *args and ...T as a sequence of the annotated
// element type and **kwargs as a mapping from keyword names to it.
func classifyVariadic(lang m.Language, p m.Parameter) m.Classification {
	if lang == m.LanguageGo {
		return classifyGoAnnotation("[]" + strings.TrimPrefix(p.Annotation, "..."))
	}

	c := m.Classification{Category: m.CategoryCollection, Shape: m.ShapeSequence}
	if p.Annotation != "" {
		c.Elem = classifyPythonAnnotation(p.Annotation).Category
		c.ElemAnnotation = p.Annotation
	}

	if p.Kind == m.ParamVariadicKeyword {
		c.Shape = m.ShapeMapping
		c.Key = m.CategoryString
		c.KeyAnnotation = "str"
	}

	return c
}

func classifyHint(hint m.TypeHint) m.Classification {
	var fromAnnotation m.Classification

	switch hint.Language {
	case m.LanguageGo:
		fromAnnotation = classifyGoAnnotation(hint.Annotation)
	case m.LanguagePython:
		fromAnnotation = classifyPythonAnnotation(hint.Annotation)
	}

	if fromAnnotation.Category != m.CategoryUnknown || !hint.HasDefault {
		return fromAnnotation
	}

	if hint.Language == m.LanguagePython {
		return classifyPythonLiteral(hint.Default)
	}

	return m.Classification{}
}

// Python

var (
	pythonIntegers = names("int", "SupportsInt", "SupportsIndex")
	pythonFloats   = names("float", "Decimal", "SupportsFloat")
	pythonStrings  = names("str", "LiteralString", "AnyStr")
	pythonBooleans = names("bool")
	pythonNones    = names("None", "NoneType")
	pythonWrappers = names("Annotated", "Final", "ClassVar", "Required", "NotRequired", "ReadOnly")
	pythonSeqs     = names(
		"list", "List", "tuple", "Tuple", "set", "Set", "frozenset", "FrozenSet",
		"Sequence", "MutableSequence", "Iterable", "Collection", "AbstractSet",
		"MutableSet", "deque", "Deque",
	)
	pythonMaps = names(
		"dict", "Dict", "Mapping", "MutableMapping", "OrderedDict",
		"DefaultDict", "defaultdict", "Counter",
	)
)

func names(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}

func has(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

func classifyPythonAnnotation(annotation string) m.Classification {
	a := unquote(strings.TrimSpace(annotation))
	if a == "" {
		return m.Classification{}
	}

	if parts := splitTopLevel(a, '|'); len(parts) > 1 {
		return classifyPythonUnion(parts)
	}

	name, args := splitGeneric(a)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	switch {
	case has(pythonIntegers, name):
		return m.Classification{Category: m.CategoryInteger}
	case has(pythonFloats, name):
		return m.Classification{Category: m.CategoryFloat}
	case has(pythonStrings, name):
		return m.Classification{Category: m.CategoryString}
	case has(pythonBooleans, name):
		return m.Classification{Category: m.CategoryBoolean}
	case has(pythonNones, name):
		return m.Classification{Category: m.CategoryNullable}
	case name == "Optional" && len(args) > 0:
		return nullableOf(args[0], classifyPythonAnnotation(args[0]))
	case name == "Union":
		return classifyPythonUnion(args)
	case name == "Literal" && len(args) > 0:
		return classifyPythonLiteral(args[0])
	case has(pythonWrappers, name) && len(args) > 0:
		return classifyPythonAnnotation(args[0])
	case has(pythonSeqs, name):
		c := m.Classification{Category: m.CategoryCollection, Shape: m.ShapeSequence}
		if len(args) > 0 && args[0] != "..." {
			c.Elem = classifyPythonAnnotation(args[0]).Category
			c.ElemAnnotation = args[0]
		}

		return c
	case has(pythonMaps, name):
		c := m.Classification{Category: m.CategoryCollection, Shape: m.ShapeMapping}
		if len(args) > 0 {
			c.Key = classifyPythonAnnotation(args[0]).Category
			c.KeyAnnotation = args[0]
		}

		if len(args) > 1 {
			c.Elem = classifyPythonAnnotation(args[1]).Category
			c.ElemAnnotation = args[1]
		}

		return c
	}

	return m.Classification{}
}

// classifyPythonUnion handles both Union[...] and the X | Y spelling.
func classifyPythonUnion(parts []string) m.Classification {
	var rest []string

	nullable := false

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if has(pythonNones, part) {
			nullable = true
			continue
		}

		rest = append(rest, part)
	}

	var inner m.Classification
	if len(rest) == 1 {
		inner = classifyPythonAnnotation(rest[0])
	}

	if !nullable {
		return inner
	}

	if len(rest) == 1 {
		return nullableOf(rest[0], inner)
	}

	return m.Classification{Category: m.CategoryNullable}
}

func nullableOf(annotation string, inner m.Classification) m.Classification {
	return m.Classification{
		Category:       m.CategoryNullable,
		Elem:           inner.Category,
		ElemAnnotation: strings.TrimSpace(annotation),
	}
}

func classifyPythonLiteral(literal string) m.Classification {
	lit := strings.TrimSpace(literal)

	switch {
	case lit == "":
		return m.Classification{}
	case lit == "None":
		return m.Classification{Category: m.CategoryNullable}
	case lit == "True" || lit == "False":
		return m.Classification{Category: m.CategoryBoolean}
	case isPythonString(lit):
		return m.Classification{Category: m.CategoryString}
	case strings.HasPrefix(lit, "["), strings.HasPrefix(lit, "("), lit == "list()", lit == "tuple()", lit == "set()":
		return m.Classification{Category: m.CategoryCollection, Shape: m.ShapeSequence}
	case lit == "dict()" || (strings.HasPrefix(lit, "{") && (lit == "{}" || strings.Contains(lit, ":"))):
		return m.Classification{Category: m.CategoryCollection, Shape: m.ShapeMapping}
	case strings.HasPrefix(lit, "{"):
		return m.Classification{Category: m.CategoryCollection, Shape: m.ShapeSequence}
	}

	if _, ok := pythonIntLiteral(lit); ok {
		return m.Classification{Category: m.CategoryInteger}
	}

	if _, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64); err == nil {
		return m.Classification{Category: m.CategoryFloat}
	}

	return m.Classification{}
}

// pythonIntLiteral parses decimal, hex, octal and binary literals with
// optional sign and underscores.
func pythonIntLiteral(lit string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(lit), 0)
	return v, ok
}

func isPythonString(lit string) bool {
	i := 0
	for i < len(lit) && strings.ContainsRune("rRuUfF", rune(lit[i])) {
		i++
	}

	if i > 2 || i >= len(lit) {
		return false
	}

	return lit[i] == '"' || lit[i] == '\''
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return strings.TrimSpace(s[1 : len(s)-1])
	}

	return s
}

// splitGeneric splits "Dict[str, int]" into "Dict" and ["str", "int"].
func splitGeneric(s string) (string, []string) {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return s, nil
	}

	name := strings.TrimSpace(s[:open])

	var args []string
	for _, arg := range splitTopLevel(s[open+1:len(s)-1], ',') {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}

	return name, args
}

// splitTopLevel splits s on sep outside of brackets and quotes.
func splitTopLevel(s string, sep byte) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)

	for i := 0; i < len(s); i++ {
		ch := s[i]

		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[' || ch == '(' || ch == '{':
			depth++
		case ch == ']' || ch == ')' || ch == '}':
			depth--
		case ch == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}

	return append(parts, strings.TrimSpace(s[start:]))
}

// Go

var (
	goIntegers = names(
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune",
	)
	goFloats = names("float32", "float64")
)

func classifyGoAnnotation(annotation string) m.Classification {
	if strings.TrimSpace(annotation) == "" {
		return m.Classification{}
	}

	expr, err := parser.ParseExpr(annotation)
	if err != nil {
		return m.Classification{}
	}

	return classifyGoExpr(expr)
}

func classifyGoExpr(expr ast.Expr) m.Classification {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return classifyGoExpr(t.X)
	case *ast.Ident:
		switch {
		case has(goIntegers, t.Name):
			return m.Classification{Category: m.CategoryInteger}
		case has(goFloats, t.Name):
			return m.Classification{Category: m.CategoryFloat}
		case t.Name == "string":
			return m.Classification{Category: m.CategoryString}
		case t.Name == "bool":
			return m.Classification{Category: m.CategoryBoolean}
		case t.Name == "any" || t.Name == "error":
			return m.Classification{Category: m.CategoryNullable}
		}
	case *ast.InterfaceType:
		return m.Classification{Category: m.CategoryNullable}
	case *ast.StarExpr:
		inner := classifyGoExpr(t.X)

		return m.Classification{
			Category:       m.CategoryNullable,
			Elem:           inner.Category,
			ElemAnnotation: types.ExprString(t.X),
		}
	case *ast.ArrayType:
		shape := m.ShapeSequence
		if t.Len != nil {
			shape = m.ShapeArray
		}

		return m.Classification{
			Category:       m.CategoryCollection,
			Shape:          shape,
			Elem:           classifyGoExpr(t.Elt).Category,
			ElemAnnotation: types.ExprString(t.Elt),
		}
	case *ast.MapType:
		return m.Classification{
			Category:       m.CategoryCollection,
			Shape:          m.ShapeMapping,
			Key:            classifyGoExpr(t.Key).Category,
			KeyAnnotation:  types.ExprString(t.Key),
			Elem:           classifyGoExpr(t.Value).Category,
			ElemAnnotation: types.ExprString(t.Value),
		}
	}

	return m.Classification{}
}

// DefaultBounds widens the configured integer range of a Python parameter so
// that its integer default lies inside it. Explicit overrides win.
func DefaultBounds(p m.Parameter, cfg m.GenerationConfig) m.Parameter {
	if p.Bounds != nil || p.Default == nil || p.Category != m.CategoryInteger {
		return p
	}

	v, ok := pythonIntLiteral(*p.Default)
	if !ok || !v.IsInt64() {
		return p
	}

	def := v.Int64()
	if def >= cfg.IntMin && def <= cfg.IntMax {
		return p
	}

	bounds := m.IntBounds{Min: min(cfg.IntMin, def), Max: max(cfg.IntMax, def)}
	p.Bounds = &bounds

	return p
}
