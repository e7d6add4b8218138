package emitters

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"math"
	"math/big"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// ErrMixedPackages is returned when Go suites from different packages or
// directories would land in one test file.
var ErrMixedPackages = errors.New("go sources span more than one package")

// GoEmitter renders a _test.go file with one test function per case. Every
// test recovers from panics and fails instead of crashing the test binary.
type GoEmitter struct{}

// Format returns model.FormatGo.
func (GoEmitter) Format() m.Format {
	return m.FormatGo
}

// Accepts reports whether lang is Go.
func (GoEmitter) Accepts(lang m.Language) bool {
	return lang == m.LanguageGo
}

// Render implements Emitter.
func (e GoEmitter) Render(suites []m.Suite) (string, error) {
	if err := checkLanguages(e, suites); err != nil {
		return "", err
	}

	pkg, dir := "", ""

	for _, suite := range suites {
		suiteDir := sourceDir(suite.Source)

		switch {
		case suite.Source.Package == "":
			return "", fmt.Errorf("go package name missing for %s", sourcePath(suite.Source))
		case pkg == "":
			pkg, dir = suite.Source.Package, suiteDir
		case pkg != suite.Source.Package:
			return "", fmt.Errorf("%w: %s and %s", ErrMixedPackages, pkg, suite.Source.Package)
		case dir != suiteDir:
			return "", fmt.Errorf("%w: %s in %s and %s", ErrMixedPackages, pkg, dir, suiteDir)
		}
	}

	if pkg == "" {
		return "", errors.New("no go sources to render")
	}

	r := &goRenderer{imports: map[string]string{"testing": ""}}
	names := nameSet{}

	var body strings.Builder

	for _, suite := range suites {
		r.sourceImports = suite.Source.Imports

		for _, fc := range suite.Functions {
			if len(fc.Cases) == 0 {
				fmt.Fprintf(&body, "\n// %s takes no parameters; no cases generated.\n", fc.Signature.Name)
				continue
			}

			for _, tc := range fc.Cases {
				name := names.unique(fmt.Sprintf("TestFuzz%s_%d", exported(identifier(fc.Signature.Name)), tc.Index))
				r.writeTest(&body, fc.Signature, tc, name)
			}
		}
	}

	r.writeHelpers(&body)

	var b strings.Builder

	fmt.Fprintf(&b, "// %s\n\npackage %s\n", generatedHeader, pkg)
	r.writeImports(&b)
	b.WriteString(body.String())

	return b.String(), nil
}

type goRenderer struct {
	// imports maps import paths to an explicit name, empty for the default.
	imports       map[string]string
	sourceImports map[string]string

	intHelper     bool
	float32Helper bool
}

func (r *goRenderer) writeTest(b *strings.Builder, sig m.FunctionSignature, tc m.TestCase, name string) {
	target := sig.Name
	if sig.Kind == m.FuncMethod {
		target = "new(" + sig.Receiver + ")." + sig.SimpleName()
	}

	var args []string

	for i, p := range sig.Params {
		if i >= len(tc.Args) {
			break
		}

		if p.Kind == m.ParamVariadic {
			if arg, ok := r.variadic(tc.Args[i], p.Annotation); ok {
				args = append(args, arg)
			}

			continue
		}

		args = append(args, r.argument(tc.Args[i], p.Annotation))
	}

	call := target + "(" + strings.Join(args, ", ") + ")"
	if n := len(sig.Returns); n > 0 {
		call = strings.Repeat("_, ", n-1) + "_ = " + call
	}

	fmt.Fprintf(b, "\nfunc %s(t *testing.T) {\n", name)
	b.WriteString("\tdefer fuzzgenNoPanic(t)\n\n")
	fmt.Fprintf(b, "\t%s\n", call)
	b.WriteString("}\n")
}

func (r *goRenderer) argument(v m.Value, annotation string) string {
	typ, err := parser.ParseExpr(annotation)
	if err != nil {
		return "*new(" + annotation + ")"
	}

	return r.value(v, typ)
}

// variadic spreads a collection into a ...T parameter as []T{...}...; a
// value of any other kind passes no variadic arguments.
func (r *goRenderer) variadic(v m.Value, annotation string) (string, bool) {
	if v.Kind != m.KindCollection {
		return "", false
	}

	typ, err := parser.ParseExpr("[]" + strings.TrimPrefix(annotation, "..."))
	if err != nil {
		return "", false
	}

	return r.value(v, typ) + "...", true
}

// value renders v as an expression of type typ, falling back to the zero
// value of typ when v has no literal form there.
func (r *goRenderer) value(v m.Value, typ ast.Expr) string {
	if lit, ok := r.literal(v, typ); ok {
		return lit
	}

	return "*new(" + r.typeString(typ) + ")"
}

func (r *goRenderer) literal(v m.Value, typ ast.Expr) (string, bool) {
	switch t := typ.(type) {
	case *ast.ParenExpr:
		return r.literal(v, t.X)
	case *ast.Ident:
		return r.identLiteral(v, t.Name)
	case *ast.InterfaceType:
		if v.Kind == m.KindNull || t.Methods == nil || len(t.Methods.List) > 0 {
			return "nil", true
		}

		return "struct{}{}", true
	case *ast.StarExpr:
		if v.Kind == m.KindNull {
			return "nil", true
		}

		return "new(" + r.typeString(t.X) + ")", true
	case *ast.ArrayType:
		if v.Kind == m.KindNull && t.Len == nil {
			return "nil", true
		}

		if v.Kind != m.KindCollection {
			return "", false
		}

		items := v.Items
		if t.Len != nil {
			items = items[:min(len(items), arrayLen(t.Len))]
		}

		elems := make([]string, len(items))
		for i, item := range items {
			elems[i] = r.value(item, t.Elt)
		}

		return r.typeString(t) + "{" + strings.Join(elems, ", ") + "}", true
	case *ast.MapType:
		if v.Kind == m.KindNull {
			return "nil", true
		}

		if v.Kind != m.KindCollection {
			return "", false
		}

		entries := make([]string, 0, len(v.Items))
		for i, item := range v.Items {
			if i >= len(v.Keys) {
				break
			}

			entries = append(entries, r.value(v.Keys[i], t.Key)+": "+r.value(item, t.Value))
		}

		return r.typeString(t) + "{" + strings.Join(entries, ", ") + "}", true
	}

	return "", false
}

func (r *goRenderer) identLiteral(v m.Value, name string) (string, bool) {
	if bounds, ok := goIntRanges[name]; ok {
		if v.Kind != m.KindInt {
			return "", false
		}

		if v.Int.Cmp(bounds[0]) >= 0 && v.Int.Cmp(bounds[1]) <= 0 {
			return v.Int.String(), true
		}

		r.intHelper = true

		return fmt.Sprintf("fuzzgenInt[%s](%q)", name, v.Int.String()), true
	}

	switch name {
	case "float64", "float32":
		if v.Kind != m.KindFloat {
			return "", false
		}

		lit := r.float(v.Float)
		if name == "float32" && (math.IsNaN(v.Float) || math.Abs(v.Float) > math.MaxFloat32) {
			r.float32Helper = true
			return "fuzzgenFloat32(" + lit + ")", true
		}

		return lit, true
	case "string":
		if v.Kind != m.KindString {
			return "", false
		}

		return strconv.Quote(v.Str), true
	case "bool":
		if v.Kind != m.KindBool {
			return "", false
		}

		return strconv.FormatBool(v.Bool), true
	case "any":
		if v.Kind == m.KindNull {
			return "nil", true
		}

		return "struct{}{}", true
	case "error":
		if v.Kind == m.KindNull {
			return "nil", true
		}

		r.imports["errors"] = ""

		return `errors.New("fuzzgen")`, true
	}

	return "", false
}

func (r *goRenderer) float(f float64) string {
	switch {
	case math.IsNaN(f):
		r.imports["math"] = ""
		return "math.NaN()"
	case math.IsInf(f, 1):
		r.imports["math"] = ""
		return "math.Inf(1)"
	case math.IsInf(f, -1):
		r.imports["math"] = ""
		return "math.Inf(-1)"
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// typeString prints typ and records the imports it references.
func (r *goRenderer) typeString(typ ast.Expr) string {
	ast.Inspect(typ, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		if pkg, ok := sel.X.(*ast.Ident); ok {
			if importPath, found := r.sourceImports[pkg.Name]; found {
				alias := ""
				if path.Base(importPath) != pkg.Name {
					alias = pkg.Name
				}

				r.imports[importPath] = alias
			}
		}

		return false
	})

	return types.ExprString(typ)
}

func (r *goRenderer) writeImports(b *strings.Builder) {
	if r.intHelper {
		r.imports["math/big"] = ""
	}

	paths := make([]string, 0, len(r.imports))
	for p := range r.imports {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	b.WriteString("\nimport (\n")

	for _, p := range paths {
		if alias := r.imports[p]; alias != "" {
			fmt.Fprintf(b, "\t%s %q\n", alias, p)
			continue
		}

		fmt.Fprintf(b, "\t%q\n", p)
	}

	b.WriteString(")\n")
}

func (r *goRenderer) writeHelpers(b *strings.Builder) {
	b.WriteString(`
func fuzzgenNoPanic(t *testing.T) {
	t.Helper()

	if r := recover(); r != nil {
		t.Fatalf("panic: %v", r)
	}
}
`)

	if r.intHelper {
		b.WriteString(`
type fuzzgenInteger interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// fuzzgenInt converts a decimal literal to T, wrapping like a Go conversion.
func fuzzgenInt[T fuzzgenInteger](literal string) T {
	v, ok := new(big.Int).SetString(literal, 10)
	if !ok {
		panic("fuzzgen: invalid integer " + literal)
	}

	v.Mod(v, new(big.Int).Lsh(big.NewInt(1), 64))

	return T(v.Uint64())
}
`)
	}

	if r.float32Helper {
		b.WriteString(`
func fuzzgenFloat32(v float64) float32 {
	return float32(v)
}
`)
	}
}

// goIntRanges are the portable literal ranges of the integer types. int,
// uint and uintptr use their 32-bit ranges so the output compiles everywhere.
var goIntRanges = map[string][2]*big.Int{
	"int":     intRange(math.MinInt32, math.MaxInt32),
	"int8":    intRange(math.MinInt8, math.MaxInt8),
	"int16":   intRange(math.MinInt16, math.MaxInt16),
	"int32":   intRange(math.MinInt32, math.MaxInt32),
	"rune":    intRange(math.MinInt32, math.MaxInt32),
	"int64":   intRange(math.MinInt64, math.MaxInt64),
	"uint":    intRange(0, math.MaxUint32),
	"uint8":   intRange(0, math.MaxUint8),
	"byte":    intRange(0, math.MaxUint8),
	"uint16":  intRange(0, math.MaxUint16),
	"uint32":  intRange(0, math.MaxUint32),
	"uintptr": intRange(0, math.MaxUint32),
	"uint64":  {big.NewInt(0), new(big.Int).SetUint64(math.MaxUint64)},
}

func intRange(lo, hi int64) [2]*big.Int {
	return [2]*big.Int{big.NewInt(lo), big.NewInt(hi)}
}

// arrayLen returns the declared length of an array type, or zero when it is
// not an integer literal.
func arrayLen(expr ast.Expr) int {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0
	}

	n, err := strconv.ParseInt(lit.Value, 0, 32)
	if err != nil {
		return 0
	}

	return int(n)
}

// sourceDir is the directory holding source, which fixes its Go package.
func sourceDir(source m.Source) string {
	if source.Origin == nil {
		return ""
	}

	return filepath.Dir(string(source.Origin.FullPath))
}

func exported(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
