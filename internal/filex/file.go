// Package filex holds small filesystem helpers for database files and
// on-disk key material.
package filex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyFile is returned by ReadSecretFile for zero-length files.
var ErrEmptyFile = errors.New("file is empty")

// EnsureParentDir creates the directory that will hold path (for example a
// SQLite database file) if it does not exist yet and returns it.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadSecretFile reads at most maxSize bytes from path. Files larger than
// maxSize are rejected rather than silently cut.
func ReadSecretFile(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(b)) > maxSize {
		return nil, fmt.Errorf("read %s: larger than %d bytes", path, maxSize)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("read %s: %w", path, ErrEmptyFile)
	}

	return b, nil
}

// TrimSecret strips surrounding whitespace, which editors tend to leave at
// the end of text secrets such as a pepper file.
func TrimSecret(b []byte) []byte {
	return bytes.TrimSpace(b)
}
