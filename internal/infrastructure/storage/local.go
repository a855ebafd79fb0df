package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("storage: invalid file name")

// LocalStore keeps files in a single directory
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("storage: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Path returns the absolute location of name inside the store
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.root, name)
}

// Exists reports whether name is a regular file in the store
func (s *LocalStore) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Create writes name through write. Data lands in a temp file that is
// renamed into place only after write returns nil, so readers never see a
// partial file.
func (s *LocalStore) Create(name string, write func(w io.Writer) error) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	dst := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-"+filepath.Base(name)+"-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return "", fmt.Errorf("storage: rename: %w", err)
	}
	return dst, nil
}

// Open opens name for reading. A missing file yields an error matching fs.ErrNotExist.
func (s *LocalStore) Open(name string) (*os.File, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return os.Open(s.Path(name))
}

// Remove deletes name. A missing file is not an error.
func (s *LocalStore) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}

// checkName rejects names that would escape the root directory
func checkName(name string) error {
	if name == "" || filepath.IsAbs(name) || strings.Contains(name, "..") || strings.ContainsRune(name, '\\') {
		return ErrInvalidName
	}
	return nil
}
