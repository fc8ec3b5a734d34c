package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/five82/framecheck/internal/errors"
)

// DirStore persists metrics documents under a local directory. Used for
// local runs where no object store is reachable.
type DirStore struct {
	root string
}

// NewDirStore creates a directory-backed metrics store.
func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// Put writes the payload to root/key, creating parent directories.
func (s *DirStore) Put(_ context.Context, key string, payload []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewPersistenceError("failed to create metrics directory", err)
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return errors.NewPersistenceError("failed to write metrics file", err)
	}

	return nil
}
