package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const recursiveSuffix = "/..."

// SourceLocator expands path patterns into the source units to extract.
type SourceLocator interface {
	Locate(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error)
}

type sourceLocator struct {
	adapter.SourceFSAdapter
	languages map[string]m.Language
}

// NewSourceLocator creates a SourceLocator accepting the extensions of the
// given extractors.
func NewSourceLocator(fsAdapter adapter.SourceFSAdapter, extractors ...adapter.SignatureExtractor) SourceLocator {
	languages := make(map[string]m.Language)

	for _, extractor := range extractors {
		for _, ext := range extractor.Extensions() {
			languages[ext] = extractor.Language()
		}
	}

	return &sourceLocator{SourceFSAdapter: fsAdapter, languages: languages}
}

// Locate supports Go-style patterns: "./..." scans recursively, a directory
// scans only its own files and a file is taken as is. Test files are skipped
// while walking. The result is sorted by path and free of duplicates.
func (l *sourceLocator) Locate(ctx context.Context, paths []m.Path, exclude []string) ([]m.Source, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []m.Path{"." + recursiveSuffix}
	}

	found := make(map[string]m.Language)

	for _, pattern := range paths {
		if err := l.collect(ctx, pattern, found); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(found))

	for name := range found {
		if excluded(name, excludes) {
			slog.Debug("source excluded", "path", name)
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	sources := make([]m.Source, 0, len(names))

	for _, name := range names {
		source, err := l.source(ctx, name, found[name])
		if err != nil {
			return nil, err
		}

		sources = append(sources, source)
	}

	slog.Debug("located sources", "patterns", len(paths), "count", len(sources))

	return sources, nil
}

func (l *sourceLocator) collect(ctx context.Context, pattern m.Path, found map[string]m.Language) error {
	root, recursive := splitPattern(string(pattern))

	info, err := l.FileInfo(ctx, m.Path(root))
	if err != nil {
		return fmt.Errorf("path %s: %w", pattern, err)
	}

	if !info.IsDir() {
		lang, ok := l.languages[filepath.Ext(root)]
		if !ok {
			return fmt.Errorf("path %s: unsupported source file", pattern)
		}

		found[filepath.Clean(root)] = lang

		return nil
	}

	return l.Walk(ctx, m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || isTestFile(path) {
			return nil
		}

		if lang, ok := l.languages[filepath.Ext(path)]; ok {
			found[filepath.Clean(path)] = lang
		}

		return nil
	})
}

func (l *sourceLocator) source(ctx context.Context, path string, lang m.Language) (m.Source, error) {
	hash, err := l.HashFile(ctx, m.Path(path))
	if err != nil {
		return m.Source{}, fmt.Errorf("hash %s: %w", path, err)
	}

	short := m.Path(path)
	if !filepath.IsAbs(path) {
		if rel, err := l.RelPath(ctx, ".", m.Path(path)); err == nil {
			short = m.Path(filepath.ToSlash(string(rel)))
		}
	}

	source := m.Source{
		Origin:   &m.File{FullPath: m.Path(path), ShortPath: short, Hash: hash},
		Language: lang,
	}

	if lang == m.LanguagePython {
		module, err := l.PythonModule(ctx, m.Path(path))
		if err != nil {
			slog.Warn("falling back to file name as module", "path", path, "error", err)
			module = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		source.Package = module
	}

	return source, nil
}

func splitPattern(pattern string) (string, bool) {
	switch {
	case pattern == "...":
		return ".", true
	case strings.HasSuffix(pattern, recursiveSuffix):
		root := strings.TrimSuffix(pattern, recursiveSuffix)
		if root == "" {
			root = "/"
		}

		return root, true
	}

	return pattern, false
}

func isTestFile(path string) bool {
	base := filepath.Base(path)

	switch filepath.Ext(base) {
	case ".go":
		return strings.HasSuffix(base, "_test.go")
	case ".py":
		return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") || base == "conftest.py"
	}

	return false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &m.ConfigError{Field: "exclude", Reason: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func excluded(path string, excludes []*regexp.Regexp) bool {
	slashed := filepath.ToSlash(path)

	for _, re := range excludes {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}
