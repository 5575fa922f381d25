// Package storage provides the local-disk blob store backing attachment
// uploads. Keys are slash-separated relative paths under a configured root
// directory.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// DiskStore stores blobs as files under a root directory.
type DiskStore struct {
	root string
}

var _ ports.BlobStore = (*DiskStore)(nil)

// NewDiskStore creates a blob store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &DiskStore{root: dir}, nil
}

// resolve maps a key to an absolute path, rejecting anything that would
// escape the root.
func (s *DiskStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Save writes content to the given key and returns the number of bytes
// written. An existing blob under the same key is overwritten.
func (s *DiskStore) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	path, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("storage: create dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("storage: create blob: %w", err)
	}

	written, err := io.Copy(f, content)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, fmt.Errorf("storage: write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("storage: close blob: %w", err)
	}
	return written, nil
}

// Open returns a reader for the blob at key. The caller must close it.
func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open blob: %w", err)
	}
	return f, nil
}

// Remove deletes the blob at key. Removing a missing blob is not an error.
func (s *DiskStore) Remove(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove blob: %w", err)
	}
	return nil
}
