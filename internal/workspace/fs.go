package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry is a file or directory selected by the user or visited during a walk.
type Entry struct {
	// Path is the absolute, cleaned path of the entry.
	Path string

	// Name is the last path element.
	Name string

	// IsDir is true for directories.
	IsDir bool
}

// FileSystem is the set of file operations the resolver and the config
// patcher need. OSFileSystem is the production implementation; tests can
// substitute failing implementations to exercise error paths.
type FileSystem interface {
	// Stat returns the entry at path.
	Stat(path string) (Entry, error)

	// Walk visits every entry below dir (not dir itself) depth-first in
	// lexical order. Returning false from visit stops the walk early.
	Walk(dir string, visit func(Entry) bool) error

	// ReadFile returns the whole file as UTF-8 text.
	ReadFile(path string) (string, error)

	// WriteFile replaces the whole file with content.
	WriteFile(path, content string) error
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

// NewOSFileSystem returns the operating system backed FileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat resolves path to an absolute Entry.
func (OSFileSystem) Stat(path string) (Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Path: abs, Name: info.Name(), IsDir: info.IsDir()}, nil
}

// Walk uses filepath.WalkDir and maps visit's false return to fs.SkipAll.
// Unreadable subdirectories are skipped rather than aborting the walk, the
// same way an editor's file tree simply shows nothing for them.
func (OSFileSystem) Walk(dir string, visit func(Entry) bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == dir {
			return nil
		}
		if !visit(Entry{Path: path, Name: d.Name(), IsDir: d.IsDir()}) {
			return fs.SkipAll
		}
		return nil
	})
}

// ReadFile reads the whole file.
func (OSFileSystem) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes content to a temporary file in the same directory and
// renames it over path, so readers never observe a half-written config.
// The original file mode is preserved when the file already exists.
func (OSFileSystem) WriteFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists on fsys. Errors other than "not exist"
// are returned so callers can report them.
func Exists(fsys FileSystem, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RelativePath returns target relative to base using forward slashes.
// The second return value is false when target lies outside base.
// RelativePath(base, base) returns "" and true.
func RelativePath(base, target string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", true
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
