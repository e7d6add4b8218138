package domain

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// countingExtractor records how often the parser actually runs.
type countingExtractor struct {
	adapter.SignatureExtractor
	calls atomic.Int32
}

func (c *countingExtractor) Extract(ctx context.Context, path m.Path, content []byte) (m.Extraction, error) {
	c.calls.Add(1)
	return c.SignatureExtractor.Extract(ctx, path, content)
}

func tempCache(t *testing.T) adapter.SignatureCache {
	t.Helper()

	return adapter.NewDiskSignatureCache(m.Path(t.TempDir()))
}

func categories(params []m.Parameter) []m.TypeCategory {
	out := make([]m.TypeCategory, 0, len(params))
	for _, p := range params {
		out = append(out, p.Category)
	}

	return out
}

func locateOne(t *testing.T, path string) m.Source {
	t.Helper()

	sources, err := newTestLocator().Locate(context.Background(), []m.Path{m.Path(path)}, nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	return sources[0]
}

func TestExtractor_Extract(t *testing.T) {
	t.Run("python signatures are classified", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clamp.py")
		writeFile(t, path, clampSource)

		fsAdapter := adapter.NewLocalSourceFSAdapter()
		e := NewExtractor(fsAdapter, tempCache(t), NewClassifier(), adapter.NewPythonFileAdapter())

		unit, err := e.Extract(context.Background(), locateOne(t, path), false)
		require.NoError(t, err)
		require.Len(t, unit.Signatures, 2)

		clamp := unit.Signatures[0]
		assert.Equal(t, "clamp", clamp.Name)
		assert.Equal(t, m.CategoryInteger, clamp.Params[0].Category)
		assert.Equal(t, m.CategoryString, clamp.Params[1].Category)
		assert.Equal(t, "clamp", unit.Source.Package)
	})

	t.Run("go package and imports come from the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "upper.go")
		writeFile(t, path, "package text\n\nimport \"strings\"\n\nfunc Up(s string) string { return strings.ToUpper(s) }\n")

		fsAdapter := adapter.NewLocalSourceFSAdapter()
		e := NewExtractor(fsAdapter, tempCache(t), NewClassifier(), adapter.NewGoFileAdapter())

		unit, err := e.Extract(context.Background(), locateOne(t, path), false)
		require.NoError(t, err)

		assert.Equal(t, "text", unit.Source.Package)
		assert.Equal(t, map[string]string{"strings": "strings"}, unit.Source.Imports)
		require.Len(t, unit.Signatures, 1)
		assert.Equal(t, m.CategoryString, unit.Signatures[0].Params[0].Category)
	})

	t.Run("cache hit skips parsing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clamp.py")
		writeFile(t, path, clampSource)

		parser := &countingExtractor{SignatureExtractor: adapter.NewPythonFileAdapter()}
		cache := adapter.NewDiskSignatureCache(m.Path(t.TempDir()))
		e := NewExtractor(adapter.NewLocalSourceFSAdapter(), cache, NewClassifier(), parser)

		source := locateOne(t, path)

		first, err := e.Extract(context.Background(), source, true)
		require.NoError(t, err)

		second, err := e.Extract(context.Background(), source, true)
		require.NoError(t, err)

		assert.Equal(t, int32(1), parser.calls.Load())
		require.Len(t, second.Signatures, len(first.Signatures))

		for i, sig := range second.Signatures {
			assert.Equal(t, first.Signatures[i].Name, sig.Name)
			assert.Equal(t, first.Signatures[i].Line, sig.Line)
			assert.Equal(t, categories(first.Signatures[i].Params), categories(sig.Params))
		}
	})

	t.Run("cache is bypassed when disabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clamp.py")
		writeFile(t, path, clampSource)

		parser := &countingExtractor{SignatureExtractor: adapter.NewPythonFileAdapter()}
		e := NewExtractor(adapter.NewLocalSourceFSAdapter(), tempCache(t), NewClassifier(), parser)

		source := locateOne(t, path)

		for range 2 {
			_, err := e.Extract(context.Background(), source, false)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(2), parser.calls.Load())
	})

	t.Run("parse errors are returned as is", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.py")
		writeFile(t, path, "def broken(:\n    pass\n")

		e := NewExtractor(adapter.NewLocalSourceFSAdapter(), tempCache(t), NewClassifier(), adapter.NewPythonFileAdapter())

		_, err := e.Extract(context.Background(), locateOne(t, path), false)

		var perr *m.ParseError
		require.ErrorAs(t, err, &perr)
	})

	t.Run("unknown language", func(t *testing.T) {
		e := NewExtractor(adapter.NewLocalSourceFSAdapter(), tempCache(t), NewClassifier())

		_, err := e.Extract(context.Background(), m.Source{Origin: &m.File{FullPath: "x.go"}, Language: m.LanguageGo}, false)
		require.Error(t, err)
	})

	t.Run("missing origin", func(t *testing.T) {
		e := NewExtractor(adapter.NewLocalSourceFSAdapter(), tempCache(t), NewClassifier())

		_, err := e.Extract(context.Background(), m.Source{}, false)
		require.Error(t, err)
	})
}
