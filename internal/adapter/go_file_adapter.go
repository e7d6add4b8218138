package adapter

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// SignatureExtractor encapsulates language-specific parsing so the domain
// layer can focus on classification and generation.
type SignatureExtractor interface {
	// Language is the source language handled by the extractor.
	Language() m.Language

	// Extensions lists the file extensions the extractor accepts.
	Extensions() []string

	// Extract parses content and returns the raw, unclassified signatures.
	// A structurally malformed unit yields a *model.ParseError.
	Extract(ctx context.Context, path m.Path, content []byte) (m.Extraction, error)
}

const (
	skipReasonIgnored = "fuzzgen:ignore directive"
	skipReasonInit    = "init functions cannot be called"
	skipReasonGeneric = "generic functions need type arguments"
)

// GoFileAdapter extracts signatures from Go source with go/parser.
type GoFileAdapter struct{}

// NewGoFileAdapter constructs a GoFileAdapter.
func NewGoFileAdapter() *GoFileAdapter {
	return &GoFileAdapter{}
}

// Language returns model.LanguageGo.
func (a *GoFileAdapter) Language() m.Language {
	return m.LanguageGo
}

// Extensions returns [".go"].
func (a *GoFileAdapter) Extensions() []string {
	return []string{".go"}
}

// Parse builds an AST for the provided filename/source pair.
func (a *GoFileAdapter) Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// Extract walks top-level function declarations.
func (a *GoFileAdapter) Extract(ctx context.Context, path m.Path, content []byte) (m.Extraction, error) {
	fset := token.NewFileSet()

	file, err := a.Parse(ctx, fset, string(path), content)
	if err != nil {
		if ctx.Err() != nil {
			return m.Extraction{}, err
		}

		return m.Extraction{}, goParseError(path, err)
	}

	out := m.Extraction{Package: file.Name.Name, Imports: goImports(file)}

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		line := fset.Position(fd.Pos()).Line
		name := qualifiedGoName(fd)

		if skip := goSkipReason(fd); skip != "" {
			out.Skipped = append(out.Skipped, m.SkippedFunction{Name: name, Reason: skip, Line: line})
			continue
		}

		dirs := parseDirectives(commentLines(fd.Doc))
		if dirs.ignore {
			out.Skipped = append(out.Skipped, m.SkippedFunction{Name: name, Reason: skipReasonIgnored, Line: line})
			continue
		}

		sig := m.FunctionSignature{
			Name:    name,
			Kind:    m.FuncPlain,
			Params:  dirs.apply(goParams(fd.Type.Params)),
			Returns: goResults(fd.Type.Results),
			Line:    line,
		}

		if fd.Recv != nil && len(fd.Recv.List) > 0 {
			recv, pointer := receiverType(fd.Recv.List[0].Type)
			sig.Kind = m.FuncMethod
			sig.Receiver = recv
			sig.PointerReceiver = pointer
		}

		out.Signatures = append(out.Signatures, sig)
	}

	return out, nil
}

// goImports maps the name each import is referenced by to its path. Blank
// and dot imports are left out.
func goImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))

	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := path.Base(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		imports[name] = importPath
	}

	return imports
}

func goParseError(path m.Path, err error) error {
	perr := &m.ParseError{Path: path, Err: err}

	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		perr.Line = list[0].Pos.Line
		perr.Column = list[0].Pos.Column
		perr.Err = errors.New(list[0].Msg)
	}

	return perr
}

func goSkipReason(fd *ast.FuncDecl) string {
	if fd.Recv == nil && fd.Name.Name == "init" {
		return skipReasonInit
	}

	if fd.Type.TypeParams != nil && len(fd.Type.TypeParams.List) > 0 {
		return skipReasonGeneric
	}

	if fd.Recv != nil && len(fd.Recv.List) > 0 {
		expr := fd.Recv.List[0].Type
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}

		switch expr.(type) {
		case *ast.IndexExpr, *ast.IndexListExpr:
			return skipReasonGeneric
		}
	}

	return ""
}

func qualifiedGoName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}

	recv, _ := receiverType(fd.Recv.List[0].Type)

	return recv + "." + fd.Name.Name
}

func receiverType(expr ast.Expr) (string, bool) {
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}

	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}

	return types.ExprString(expr), pointer
}

func goParams(fields *ast.FieldList) []m.Parameter {
	if fields == nil {
		return nil
	}

	var params []m.Parameter

	for _, field := range fields.List {
		kind := m.ParamPositional
		annotation := types.ExprString(field.Type)

		if _, ok := field.Type.(*ast.Ellipsis); ok {
			kind = m.ParamVariadic
		}

		if len(field.Names) == 0 {
			params = append(params, m.Parameter{
				Name:       fmt.Sprintf("arg%d", len(params)),
				Kind:       kind,
				Annotation: annotation,
			})

			continue
		}

		for _, name := range field.Names {
			paramName := name.Name
			if paramName == "_" {
				paramName = fmt.Sprintf("arg%d", len(params))
			}

			params = append(params, m.Parameter{
				Name:       paramName,
				Kind:       kind,
				Annotation: annotation,
			})
		}
	}

	return params
}

func goResults(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}

	var results []string

	for _, field := range fields.List {
		typ := types.ExprString(field.Type)

		count := len(field.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			results = append(results, typ)
		}
	}

	return results
}

func commentLines(group *ast.CommentGroup) []string {
	if group == nil {
		return nil
	}

	lines := make([]string, 0, len(group.List))
	for _, c := range group.List {
		lines = append(lines, strings.Split(c.Text, "\n")...)
	}

	return lines
}
