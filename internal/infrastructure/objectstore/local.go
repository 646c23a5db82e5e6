package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"backoffice/internal/domain/auth"
)

var _ auth.AvatarStore = (*LocalStore)(nil)

// LocalStore implements auth.AvatarStore on a directory served by the API
// under a public prefix.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates the store, making dir if needed.
func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: withSlash(publicPrefix)}, nil
}

// Dir returns the root directory.
func (s *LocalStore) Dir() string { return s.dir }

// Put writes body to dir/key.
func (s *LocalStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return os.Rename(f.Name(), path)
}

// Delete removes dir/key. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public address of key.
func (s *LocalStore) URL(key string) string {
	return s.prefix + strings.TrimLeft(key, "/")
}

func (s *LocalStore) path(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, rel), nil
}
