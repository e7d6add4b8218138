// Package controller provides output adapters for displaying fuzzgen results.
package controller

import (
	"context"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// UI defines how workflow results reach the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplaySignatures lists the discovered functions and their case counts.
	DisplaySignatures(ctx context.Context, units []m.Unit, cfg m.GenerationConfig) error
	// DisplayParseError reports a source that could not be parsed.
	DisplayParseError(ctx context.Context, err error)
	// DisplayDiff shows how the generated output differs from the file on disk.
	DisplayDiff(ctx context.Context, path m.Path, diff string) error
	// DisplaySummary prints the per-run counts.
	DisplaySummary(ctx context.Context, summary m.Summary) error
}

// NewUI picks the interactive UI on a terminal and plain text otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	fd, err := safecast.Conv[int](f.Fd())
	if err != nil {
		return false
	}

	return term.IsTerminal(fd)
}

// terminalSize returns the size of w when it is a terminal.
func terminalSize(w any) (int, int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, 0, false
	}

	fd, err := safecast.Conv[int](f.Fd())
	if err != nil {
		return 0, 0, false
	}

	width, height, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, false
	}

	return width, height, true
}
