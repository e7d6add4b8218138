package domain

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/fuzzgen/internal/adapter"
	"gooze.dev/pkg/fuzzgen/internal/controller"
	m "gooze.dev/pkg/fuzzgen/internal/model"
)

const clampSource = `def clamp(x: int, label: str) -> int:
    if x < -10:
        return -10
    return x


def noop() -> None:
    pass
`

type testRig struct {
	workflow Workflow
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newTestRig(t *testing.T) testRig {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))

	fsAdapter := adapter.NewLocalSourceFSAdapter()
	goAdapter := adapter.NewGoFileAdapter()
	pyAdapter := adapter.NewPythonFileAdapter()

	wf := NewWorkflow(
		adapter.NewLocalOutputAdapter(&stdout),
		controller.NewUI(cmd, false),
		NewSourceLocator(fsAdapter, goAdapter, pyAdapter),
		NewExtractor(fsAdapter, adapter.NewDiskSignatureCache(m.Path(t.TempDir())), NewClassifier(), goAdapter, pyAdapter),
		NewStrategy(),
		NewSynthesizer(),
	)

	return testRig{workflow: wf, stdout: &stdout, stderr: &stderr}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return string(content)
}
