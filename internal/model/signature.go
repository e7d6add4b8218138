package model

import "strings"

// ParamKind describes how an argument is passed.
type ParamKind int

const (
	// ParamPositional is a plain positional parameter.
	ParamPositional ParamKind = iota
	// ParamKeyword is a Python keyword-only parameter.
	ParamKeyword
	// ParamVariadic is *args in Python or ...T in Go.
	ParamVariadic
	// ParamVariadicKeyword is **kwargs in Python.
	ParamVariadicKeyword
)

// IsVariadic reports whether the parameter collects a variable number of arguments.
func (k ParamKind) IsVariadic() bool {
	return k == ParamVariadic || k == ParamVariadicKeyword
}

// IntBounds is an inclusive integer range.
type IntBounds struct {
	Min int64
	Max int64
}

// Parameter is one formal parameter of a FunctionSignature.
type Parameter struct {
	Name string
	Kind ParamKind
	// Annotation is the raw declared type, empty when absent.
	Annotation string
	// Default is the literal default value as written in source.
	Default *string

	Category       TypeCategory
	Elem           TypeCategory
	ElemAnnotation string
	Key            TypeCategory
	KeyAnnotation  string
	Shape          CollectionShape

	// Bounds overrides the configured integer range for this parameter.
	Bounds *IntBounds
}

// Hint returns the classifier input for the parameter.
func (p Parameter) Hint(lang Language) TypeHint {
	hint := TypeHint{Language: lang, Annotation: p.Annotation}
	if p.Default != nil {
		hint.Default = *p.Default
		hint.HasDefault = true
	}

	return hint
}

// WithClassification returns a copy of p carrying the classifier result.
func (p Parameter) WithClassification(c Classification) Parameter {
	p.Category = c.Category
	p.Elem = c.Elem
	p.ElemAnnotation = c.ElemAnnotation
	p.Key = c.Key
	p.KeyAnnotation = c.KeyAnnotation
	p.Shape = c.Shape

	return p
}

// FunctionKind tells the emitter how to reach a callable.
type FunctionKind int

const (
	// FuncPlain is a top-level function.
	FuncPlain FunctionKind = iota
	// FuncMethod is an instance method.
	FuncMethod
	// FuncStaticMethod is a method callable on the class itself.
	FuncStaticMethod
	// FuncNested is a function defined inside another function.
	FuncNested
)

// FunctionSignature is an extracted callable.
type FunctionSignature struct {
	// Name is qualified with its enclosing scopes, e.g. "Calculator.add".
	Name            string
	Kind            FunctionKind
	Receiver        string
	PointerReceiver bool
	Async           bool
	Params          []Parameter
	// Returns holds declared result types; informational only.
	Returns []string
	Line    int
}

// SimpleName returns the unqualified function name.
func (s FunctionSignature) SimpleName() string {
	if i := strings.LastIndex(s.Name, "."); i >= 0 {
		return s.Name[i+1:]
	}

	return s.Name
}

// Arity is the number of declared parameters.
func (s FunctionSignature) Arity() int {
	return len(s.Params)
}

// Fallbacks returns the non-variadic parameters that ended up UNKNOWN.
func (s FunctionSignature) Fallbacks() []Parameter {
	var out []Parameter

	for _, p := range s.Params {
		if p.Category == CategoryUnknown && !p.Kind.IsVariadic() {
			out = append(out, p)
		}
	}

	return out
}
