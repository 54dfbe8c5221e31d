package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines the documents the service reads and writes to one
// directory tree.
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator for root. The directory does not have
// to exist yet; until it does, every path is accepted.
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{root: abs}, nil
}

// Directory returns the absolute configured directory.
func (v *PathValidator) Directory() string {
	return v.root
}

// ValidateInput resolves a document path, relative paths being taken from
// the configured directory, and checks that it stays inside it.
func (v *PathValidator) ValidateInput(path string) (string, error) {
	abs, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	if err := v.contain(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ValidateOutput checks a path a regenerated document will be written to.
// The file may not exist yet, but its directory must be inside the
// configured directory; the name must carry a .pdf extension.
func (v *PathValidator) ValidateOutput(path string) (string, error) {
	abs, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(filepath.Ext(abs), ".pdf") {
		return "", fmt.Errorf("output file must have a .pdf extension: %s", path)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path is a directory: %s", path)
	}
	if err := v.contain(filepath.Dir(abs)); err != nil {
		return "", err
	}
	return abs, nil
}

func (v *PathValidator) resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// contain rejects paths outside the root, following symlinks on both sides.
func (v *PathValidator) contain(path string) error {
	if _, err := os.Stat(v.root); os.IsNotExist(err) {
		return nil
	}

	realRoot := v.root
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil {
		realRoot = resolved
	}
	realPath := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		realPath = resolved
	}

	if within(path, v.root, realRoot) && within(realPath, v.root, realRoot) {
		return nil
	}
	return fmt.Errorf("path is outside configured directory: %s", path)
}

func within(path string, roots ...string) bool {
	for _, root := range roots {
		if path == root {
			return true
		}
		prefix := root
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
