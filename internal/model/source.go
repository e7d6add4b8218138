// Package model defines the data structures for boundary test generation.
package model

// Path represents a file system path.
type Path string

// Language identifies the source language of a unit.
type Language string

const (
	// LanguageGo marks Go source files.
	LanguageGo Language = "go"
	// LanguagePython marks Python source files.
	LanguagePython Language = "python"
)

// File represents a source code file.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
}

// Source is one unit handed to the extractor.
type Source struct {
	Origin   *File
	Language Language
	// Package is the Go package name or the dotted Python module path.
	Package string
	// Imports maps Go import names to import paths.
	Imports map[string]string
}

// Unit is the extraction result for a single source.
type Unit struct {
	Source     Source
	Signatures []FunctionSignature
	Skipped    []SkippedFunction
}

// SkippedFunction records a callable the extractor saw but did not keep.
type SkippedFunction struct {
	Name   string
	Reason string
	Line   int
}

// Extraction is the language adapter output, before classification.
type Extraction struct {
	Package    string
	Imports    map[string]string
	Signatures []FunctionSignature
	Skipped    []SkippedFunction
}
