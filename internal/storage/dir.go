package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrOutsideRoot = errors.New("path escapes base directory")
	ErrNoRoot      = errors.New("no base directory configured")
)

// Dir reads and writes files below a single base directory. Names are
// resolved relative to the root and may not leave it.
type Dir struct {
	root string
}

// NewDir returns a Dir rooted at root. The root must exist and be a
// directory.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, ErrNoRoot
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("base directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base directory %q: not a directory", root)
	}

	return &Dir{root: abs}, nil
}

func (d *Dir) Root() string {
	return d.root
}

// Resolve maps name onto a path below the root. It rejects names that would
// land outside it, whether through ".." segments or an absolute path.
func (d *Dir) Resolve(name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}

	full := filepath.Join(d.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(d.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, name)
	}

	return full, nil
}

// ReadFile returns the full contents of name. A missing file yields an
// error wrapping ErrNotFound.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	path, err := d.Resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}
	return data, nil
}

// WriteFile creates or truncates name and writes data to it. Parent
// directories are not created; a missing parent yields ErrNotFound.
func (d *Dir) WriteFile(name string, data []byte) error {
	path, err := d.Resolve(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return classify(path, err)
	}
	return nil
}

// PathError carries the resolved path of a failed filesystem call
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Err.Error()
}

func (e *PathError) Unwrap() []error {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return []error{e.Err, ErrNotFound}
	}
	return []error{e.Err}
}

func classify(path string, err error) error {
	return &PathError{Path: path, Err: err}
}
