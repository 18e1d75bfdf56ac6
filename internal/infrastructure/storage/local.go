package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects below a directory served as static files
type LocalStorage struct {
	root   string
	prefix string
}

// NewLocalStorage creates a local disk storage
func NewLocalStorage(root, publicPrefix string) *LocalStorage {
	if root == "" {
		root = "uploads"
	}
	return &LocalStorage{root: root, prefix: "/" + strings.Trim(publicPrefix, "/")}
}

// Root returns the directory objects are written to
func (s *LocalStorage) Root() string { return s.root }

// Put writes the object, creating parent directories as needed
func (s *LocalStorage) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("failed to write upload file: %w", err)
	}
	return f.Close()
}

// Delete removes the object; a missing object is not an error
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// URL returns the public path of the object
func (s *LocalStorage) URL(key string) string {
	return s.prefix + "/" + strings.TrimPrefix(key, "/")
}

func (s *LocalStorage) path(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}
