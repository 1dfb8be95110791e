// Package fsops performs the filesystem side of the file tools after the
// execution policy has been applied.
package fsops

import (
	"errors"
	"os"

	"github.com/petasbytes/sasa/internal/safety"
)

// ErrNotAFile is returned when a read targets a directory.
var ErrNotAFile = errors.New("path is a directory")

// ReadFile returns the contents of path as text.
func ReadFile(p safety.Policy, path string) (string, error) {
	absPath, err := p.ReadPath(path)
	if err != nil {
		return "", err // propagate ToolError unchanged
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", &os.PathError{Op: "read", Path: path, Err: ErrNotAFile}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err // standard error for I/O issues (not policy)
	}
	return string(b), nil
}

// ListDir returns the names of the direct entries of a directory, in the
// order os.ReadDir yields them. Subdirectories are not expanded.
func ListDir(p safety.Policy, path string) ([]string, error) {
	absDir, err := p.ReadPath(path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
