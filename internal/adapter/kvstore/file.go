package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/spf13/afero"
)

const filePerm = 0o644

var _ KV = (*FileStore)(nil)

// A FileStore keeps one JSON file per key in a directory. Writes go to a
// temporary file first and are renamed into place.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates dir if needed. Use afero.NewOsFs for disk and
// afero.NewMemMapFs for a process-local store.
func NewFileStore(fsys afero.Fs, dir string) (FileStore, error) {
	const op = "NewFileStore"

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return FileStore{}, fmt.Errorf("%s: %w", op, err)
	}
	return FileStore{fs: fsys, dir: dir}, nil
}

func (s FileStore) path(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

func (s FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "FileStore.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %q: %w", op, key, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s FileStore) Set(ctx context.Context, key string, value []byte) error {
	const op = "FileStore.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	target := s.path(key)
	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, filePerm); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s FileStore) Delete(ctx context.Context, key string) error {
	const op = "FileStore.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.fs.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
