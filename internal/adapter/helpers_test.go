package adapter

import (
	"os"
	"path/filepath"
	"testing"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

func examplePath(t *testing.T, elem ...string) string {
	t.Helper()

	return filepath.Join(append([]string{"..", "..", "examples"}, elem...)...)
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}

	return content
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o750); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}

func signatureByName(t *testing.T, sigs []m.FunctionSignature, name string) m.FunctionSignature {
	t.Helper()

	for _, sig := range sigs {
		if sig.Name == name {
			return sig
		}
	}

	t.Fatalf("signature %q not found", name)

	return m.FunctionSignature{}
}

func signatureNames(sigs []m.FunctionSignature) []string {
	names := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		names = append(names, sig.Name)
	}

	return names
}

func skippedNames(skipped []m.SkippedFunction) []string {
	names := make([]string, 0, len(skipped))
	for _, s := range skipped {
		names = append(names, s.Name)
	}

	return names
}
