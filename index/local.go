package index

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStore keeps the bundle in a single file on the local filesystem.
//
// Saves write to a temp file in the same directory and rename over the
// target, so a concurrent reader sees either the previous bundle or the
// new one, never a partial write.
type LocalStore struct {
	path string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a store persisting the bundle at path.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// Path returns the filesystem location of the bundle.
func (s *LocalStore) Path() string {
	return s.path
}

// Save publishes the bundle atomically.
func (s *LocalStore) Save(_ context.Context, bundle *Bundle) error {
	dir := filepath.Dir(s.path)
	base := filepath.Base(s.path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	// Temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp bundle: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	// Match typical file permissions (best-effort).
	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := WriteBundle(buf, bundle); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	// Success: prevent deferred cleanup from removing the published file.
	tmpName = ""
	return nil
}

// Load reads and verifies the bundle file.
func (s *LocalStore) Load(_ context.Context) (*Bundle, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}
	defer f.Close()

	return ReadBundle(bufio.NewReaderSize(f, 256*1024))
}

// Exists reports whether the bundle file is present.
func (s *LocalStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
