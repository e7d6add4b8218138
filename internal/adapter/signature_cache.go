package adapter

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	m "gooze.dev/pkg/fuzzgen/internal/model"
)

// signatureCacheVersion is bumped whenever the cached layout changes.
const signatureCacheVersion = 1

// SignatureCache stores raw extraction results keyed by file content hash.
type SignatureCache interface {
	Load(ctx context.Context, hash string) (m.Extraction, bool, error)
	Store(ctx context.Context, hash string, extraction m.Extraction) error
}

type cacheEntry struct {
	Version    int
	Extraction m.Extraction
}

// DiskSignatureCache keeps msgpack-encoded extractions under a directory.
type DiskSignatureCache struct {
	dir m.Path
}

// NewDiskSignatureCache constructs a cache rooted at dir.
func NewDiskSignatureCache(dir m.Path) *DiskSignatureCache {
	return &DiskSignatureCache{dir: dir}
}

func (c *DiskSignatureCache) pathFor(hash string) string {
	prefix := hash
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	return filepath.Join(string(c.dir), prefix, hash+".msgpack")
}

// Load returns the cached extraction for hash. A missing or stale entry is a
// miss, not an error.
func (c *DiskSignatureCache) Load(ctx context.Context, hash string) (m.Extraction, bool, error) {
	if err := ctx.Err(); err != nil {
		return m.Extraction{}, false, err
	}

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Extraction{}, false, nil
		}

		return m.Extraction{}, false, err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close cache entry", "hash", hash, "error", closeErr)
		}
	}()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		slog.Warn("discarding unreadable cache entry", "hash", hash, "error", err)
		return m.Extraction{}, false, nil
	}

	if entry.Version != signatureCacheVersion {
		return m.Extraction{}, false, nil
	}

	return entry.Extraction, true, nil
}

// Store writes the extraction atomically through a temp file and rename.
func (c *DiskSignatureCache) Store(ctx context.Context, hash string, extraction m.Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := c.pathFor(hash)
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(target), "tmp-*")
	if err != nil {
		return err
	}

	tmpName := f.Name()

	defer func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove temp cache file", "path", tmpName, "error", rmErr)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(cacheEntry{Version: signatureCacheVersion, Extraction: extraction}); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, target)
}
