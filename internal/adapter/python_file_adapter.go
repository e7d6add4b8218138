package adapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

var errPythonSyntax = errors.New("invalid python syntax")

// PythonFileAdapter extracts signatures from Python source with tree-sitter.
type PythonFileAdapter struct{}

// NewPythonFileAdapter constructs a PythonFileAdapter.
func NewPythonFileAdapter() *PythonFileAdapter {
	return &PythonFileAdapter{}
}

// Language returns model.LanguagePython.
func (a *PythonFileAdapter) Language() m.Language {
	return m.LanguagePython
}

// Extensions returns [".py", ".pyw"].
func (a *PythonFileAdapter) Extensions() []string {
	return []string{".py", ".pyw"}
}

// Extract parses content and collects module functions, class methods and
// nested functions. Parsers are not safe for concurrent use, so each call
// builds its own.
func (a *PythonFileAdapter) Extract(ctx context.Context, path m.Path, content []byte) (m.Extraction, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return m.Extraction{}, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := &m.ParseError{Path: path, Err: errPythonSyntax}
		if bad := firstErrorNode(root); bad != nil {
			perr.Line = pointLine(bad.StartPoint())
			perr.Column = pointColumn(bad.StartPoint())
		}

		return m.Extraction{}, perr
	}

	w := &pythonWalker{
		content: content,
		lines:   strings.Split(string(content), "\n"),
	}
	w.walk(root, pythonScope{})

	return m.Extraction{Signatures: w.signatures, Skipped: w.skipped}, nil
}

// pythonScope tracks where a definition sits.
type pythonScope struct {
	names      []string
	inClass    bool
	inFunction bool
}

func (s pythonScope) qualify(name string) string {
	return strings.Join(append(append([]string{}, s.names...), name), ".")
}

func (s pythonScope) enter(name string, class bool) pythonScope {
	return pythonScope{
		names:      append(append([]string{}, s.names...), name),
		inClass:    class,
		inFunction: s.inFunction || !class,
	}
}

type pythonWalker struct {
	content    []byte
	lines      []string
	signatures []m.FunctionSignature
	skipped    []m.SkippedFunction
}

func (w *pythonWalker) text(n *sitter.Node) string {
	return n.Content(w.content)
}

func (w *pythonWalker) walk(node *sitter.Node, scope pythonScope) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "function_definition":
			w.function(child, child, nil, scope)
		case "class_definition":
			w.class(child, scope)
		case "decorated_definition":
			def := child.ChildByFieldName("definition")
			if def == nil {
				continue
			}

			switch def.Type() {
			case "function_definition":
				w.function(def, child, w.decorators(child), scope)
			case "class_definition":
				w.class(def, scope)
			}
		default:
			w.walk(child, scope)
		}
	}
}

func (w *pythonWalker) class(node *sitter.Node, scope pythonScope) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")

	if nameNode == nil || body == nil {
		return
	}

	w.walk(body, scope.enter(w.text(nameNode), true))
}

// function records one definition. outer is the decorated_definition when
// present so directive comments are looked up above the decorators.
func (w *pythonWalker) function(node, outer *sitter.Node, decorators []string, scope pythonScope) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	name := w.text(nameNode)
	qualified := scope.qualify(name)
	line := pointLine(outer.StartPoint())

	dirs := parseDirectives(w.commentsAbove(line))
	if dirs.ignore {
		w.skipped = append(w.skipped, m.SkippedFunction{Name: qualified, Reason: skipReasonIgnored, Line: line})
	} else {
		w.signatures = append(w.signatures, w.signature(node, decorators, scope, qualified, line, dirs))
	}

	if body := node.ChildByFieldName("body"); body != nil {
		w.walk(body, scope.enter(name, false))
	}
}

func (w *pythonWalker) signature(node *sitter.Node, decorators []string, scope pythonScope, qualified string, line int, dirs directives) m.FunctionSignature {
	sig := m.FunctionSignature{
		Name:  qualified,
		Kind:  m.FuncPlain,
		Async: node.ChildCount() > 0 && node.Child(0).Type() == "async",
		Line:  line,
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		sig.Returns = []string{w.text(ret)}
	}

	dropFirst := false

	switch {
	case scope.inFunction:
		sig.Kind = m.FuncNested
	case scope.inClass:
		sig.Receiver = scope.names[len(scope.names)-1]
		sig.Kind = m.FuncMethod
		dropFirst = true

		if hasDecorator(decorators, "staticmethod") {
			sig.Kind = m.FuncStaticMethod
			dropFirst = false
		} else if hasDecorator(decorators, "classmethod") {
			sig.Kind = m.FuncStaticMethod
		}
	}

	params := w.parameters(node.ChildByFieldName("parameters"))
	if dropFirst && len(params) > 0 && params[0].Kind == m.ParamPositional {
		params = params[1:]
	}

	sig.Params = dirs.apply(params)

	return sig
}

func (w *pythonWalker) parameters(node *sitter.Node) []m.Parameter {
	if node == nil {
		return nil
	}

	var params []m.Parameter

	keywordOnly := false

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		kind := m.ParamPositional
		if keywordOnly {
			kind = m.ParamKeyword
		}

		switch child.Type() {
		case "identifier":
			params = append(params, m.Parameter{Name: w.text(child), Kind: kind})
		case "typed_parameter":
			p := w.typedParameter(child, kind)
			if p.Kind == m.ParamVariadic {
				keywordOnly = true
			}

			params = append(params, p)
		case "default_parameter", "typed_default_parameter":
			p := m.Parameter{Kind: kind}
			if n := child.ChildByFieldName("name"); n != nil {
				p.Name = w.text(n)
			}

			if t := child.ChildByFieldName("type"); t != nil {
				p.Annotation = w.text(t)
			}

			if v := child.ChildByFieldName("value"); v != nil {
				literal := w.text(v)
				p.Default = &literal
			}

			params = append(params, p)
		case "list_splat_pattern":
			keywordOnly = true

			params = append(params, m.Parameter{Name: splatName(w.text(child)), Kind: m.ParamVariadic})
		case "dictionary_splat_pattern":
			params = append(params, m.Parameter{Name: splatName(w.text(child)), Kind: m.ParamVariadicKeyword})
		case "keyword_separator":
			keywordOnly = true
		case "positional_separator":
		default:
			slog.Debug("unhandled python parameter node", "type", child.Type())
		}
	}

	return params
}

func (w *pythonWalker) typedParameter(node *sitter.Node, kind m.ParamKind) m.Parameter {
	p := m.Parameter{Kind: kind}

	if t := node.ChildByFieldName("type"); t != nil {
		p.Annotation = w.text(t)
	}

	if node.NamedChildCount() == 0 {
		return p
	}

	first := node.NamedChild(0)
	p.Name = splatName(w.text(first))

	switch first.Type() {
	case "list_splat_pattern":
		p.Kind = m.ParamVariadic
	case "dictionary_splat_pattern":
		p.Kind = m.ParamVariadicKeyword
	}

	return p
}

func (w *pythonWalker) decorators(decorated *sitter.Node) []string {
	var names []string

	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() != "decorator" {
			continue
		}

		name := strings.TrimSpace(strings.TrimPrefix(w.text(child), "@"))
		if idx := strings.Index(name, "("); idx >= 0 {
			name = name[:idx]
		}

		names = append(names, name)
	}

	return names
}

// commentsAbove returns the contiguous comment block ending right above line.
func (w *pythonWalker) commentsAbove(line int) []string {
	var block []string

	for i := line - 2; i >= 0 && i < len(w.lines); i-- {
		trimmed := strings.TrimSpace(w.lines[i])
		if !strings.HasPrefix(trimmed, "#") {
			break
		}

		block = append([]string{trimmed}, block...)
	}

	return block
}

func hasDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name || strings.HasSuffix(d, "."+name) {
			return true
		}
	}

	return false
}

func splatName(text string) string {
	return strings.TrimLeft(text, "*")
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}

		if bad := firstErrorNode(child); bad != nil {
			return bad
		}
	}

	return nil
}

// pointLine converts a zero-based tree-sitter row to a one-based line.
func pointLine(p sitter.Point) int {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return 0
	}

	return row + 1
}

func pointColumn(p sitter.Point) int {
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		return 0
	}

	return col + 1
}
