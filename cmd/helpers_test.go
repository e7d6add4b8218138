package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	domainmocks "gooze.dev/pkg/fuzzgen/internal/domain/mocks"
)

// useMockWorkflow swaps the shared workflow for a mock until the test ends.
func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow

	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

// quietLog keeps the rotated log file out of the package directory.
func quietLog(t *testing.T) {
	t.Helper()

	original := viper.GetString(logFilenameKey)
	viper.Set(logFilenameKey, filepath.Join(t.TempDir(), "fuzzgen.log"))

	t.Cleanup(func() { viper.Set(logFilenameKey, original) })
}

func executeRoot(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	quietLog(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return out, cmd.Execute()
}
