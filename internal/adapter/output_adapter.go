package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// OutputAdapter owns the destination of the rendered artifact.
type OutputAdapter interface {
	// WriteArtifact writes content verbatim to path, truncating any existing
	// file, or to standard output when path is empty. The destination is
	// opened once, written once and released on every path.
	WriteArtifact(ctx context.Context, path m.Path, content string) error

	// ReadArtifact returns the current contents of path; a missing file reads
	// as empty.
	ReadArtifact(ctx context.Context, path m.Path) (string, error)
}

// LocalOutputAdapter writes to the filesystem or to the given stdout writer.
type LocalOutputAdapter struct {
	stdout io.Writer
}

// NewLocalOutputAdapter constructs a LocalOutputAdapter.
func NewLocalOutputAdapter(stdout io.Writer) *LocalOutputAdapter {
	return &LocalOutputAdapter{stdout: stdout}
}

// WriteArtifact implements OutputAdapter.
func (a *LocalOutputAdapter) WriteArtifact(ctx context.Context, path m.Path, content string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	if path == "" {
		_, err = io.WriteString(a.stdout, content)
		return err
	}

	// #nosec G304 - path is the user-selected output file
	f, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("open output %s: %w", path, err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("failed to close output file", "path", path, "error", closeErr)
			err = errors.Join(err, closeErr)
		}
	}()

	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	slog.Info("fuzz tests saved", "path", path, "bytes", len(content))

	return nil
}

// ReadArtifact implements OutputAdapter.
func (a *LocalOutputAdapter) ReadArtifact(ctx context.Context, path m.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", err
	}

	return string(content), nil
}
