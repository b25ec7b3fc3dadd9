// Package safeio confines file access to a fixed project root. Every path
// is resolved symlink-free and rejected when it escapes the root, so
// callers can hand user-supplied paths (CLI flags, RPC inputs) to the
// scanner and record store without widening the reachable filesystem.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FS locks all resolution to one absolute, symlink-free root directory.
type FS struct {
	root string
}

// New binds an FS to root. The root must exist and be a directory.
func New(root string) (*FS, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string {
	if f == nil {
		return ""
	}
	return f.root
}

// Resolve maps p (relative to the root, or absolute) to an absolute
// symlink-free path, failing when the result lands outside the root.
func (f *FS) Resolve(p string) (string, error) {
	if f == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if p == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(p)
	if clean == "." {
		return f.root, nil
	}
	if !filepath.IsAbs(clean) {
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return "", errors.New("safeio: path traversal not allowed")
		}
		clean = filepath.Join(f.root, clean)
	}
	resolved, err := filepath.EvalSymlinks(clean)
	if err != nil {
		return "", err
	}
	if !underRoot(resolved, f.root) {
		return "", fmt.Errorf("safeio: %s resolves outside root %s", p, f.root)
	}
	return resolved, nil
}

// ResolveDir is Resolve restricted to directories.
func (f *FS) ResolveDir(p string) (string, error) {
	resolved, err := f.Resolve(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("safeio: %s is not a directory", p)
	}
	return resolved, nil
}

// ReadFile reads a regular file under the root.
func (f *FS) ReadFile(p string) ([]byte, error) {
	resolved, err := f.Resolve(p)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("safeio: %s is a directory", p)
	}
	return os.ReadFile(resolved)
}

func underRoot(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}
