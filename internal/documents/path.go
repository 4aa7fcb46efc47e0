// Package documents loads source documents from the configured directory and
// registers them with the envelope store.
package documents

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrOutsideDir      = errors.New("path is outside configured directory")
	ErrEmptyDirectory  = errors.New("configured directory cannot be empty")
	ErrNotPDF          = errors.New("file is not a PDF")
	ErrIsDirectory     = errors.New("path is a directory, not a file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidMaxBytes = errors.New("max file size must be greater than 0")
)

// PathValidator keeps document paths inside one directory
type PathValidator struct {
	dir string
}

// NewPathValidator creates a validator rooted at dir. The directory does not
// have to exist yet.
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, ErrEmptyDirectory
	}
	return &PathValidator{dir: dir}, nil
}

// Directory returns the configured directory
func (v *PathValidator) Directory() string {
	return v.dir
}

// Normalize resolves path against the configured directory and checks that
// the result stays inside it. Relative paths are taken relative to the
// directory, not the working directory.
func (v *PathValidator) Normalize(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.dir, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.Contains(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	return absPath, nil
}

// Contains reports whether path lies inside the configured directory. Both
// the path and the directory are compared before and after resolving
// symlinks, so a link pointing out of the directory is rejected.
func (v *PathValidator) Contains(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(v.dir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
		realPath = resolved
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	inside := func(p string) bool {
		return isUnder(p, cleanDir) || isUnder(p, realDir)
	}
	return inside(cleanPath) && inside(realPath), nil
}

// isUnder reports whether p equals dir or is nested below it
func isUnder(p, dir string) bool {
	if p == dir {
		return true
	}
	withSep := dir
	if !strings.HasSuffix(withSep, string(filepath.Separator)) {
		withSep += string(filepath.Separator)
	}
	return strings.HasPrefix(p, withSep)
}
