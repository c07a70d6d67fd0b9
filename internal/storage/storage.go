// Package storage persists exported artifacts to a local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes artifacts and returns where they ended up.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (location string, err error)
}

// Error represents a failed store operation.
type Error struct {
	Op    string
	Key   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FileStore writes artifacts below Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Put writes data to Dir/key, creating parent directories. Keys may not escape Dir.
func (s *FileStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Op: "put", Key: key, Cause: err}
	}

	path, err := s.resolve(key)
	if err != nil {
		return "", &Error{Op: "put", Key: key, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &Error{Op: "put", Key: key, Cause: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &Error{Op: "put", Key: key, Cause: err}
	}
	return path, nil
}

func (s *FileStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(key, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key")
	}
	return filepath.Join(s.Dir, clean), nil
}
