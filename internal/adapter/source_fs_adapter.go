// Package adapter contains filesystem, backend and infrastructure
// adapters for the symup CLI.
package adapter

import (
	"os"
	"path/filepath"
	"strings"

	m "github.com/symup/symup/internal/model"
)

// dependencyDirs are skipped during enumeration by convention.
var dependencyDirs = map[string]struct{}{
	".git":             {},
	"node_modules":     {},
	"vendor":           {},
	"bower_components": {},
}

// SourceFSAdapter abstracts the filesystem operations the workflows rely
// on when scanning build output. It hides direct `os` access so the
// domain logic can be tested without touching the disk.
type SourceFSAdapter interface {
	// ListFiles returns every regular file under root that matches the
	// include globs minus the exclude globs. Empty include means
	// everything. Dependency-manager directories are always skipped.
	ListFiles(root m.Path, include, exclude []string) ([]m.Path, error)

	// ListDirsBySuffix returns every directory under root whose base
	// name carries the given suffix (e.g. ".dSYM" bundles).
	ListDirsBySuffix(root m.Path, suffix string) ([]m.Path, error)

	// RemoveFilesBySuffix deletes every file under root carrying the
	// suffix and returns how many were removed.
	RemoveFilesBySuffix(root m.Path, suffix string) (int, error)

	// FileInfo returns metadata for a path so callers can check
	// existence or distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalSourceFSAdapter is the os-backed implementation of SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the workflows.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ListFiles walks root collecting regular files that pass the filters.
func (a *LocalSourceFSAdapter) ListFiles(root m.Path, include, exclude []string) ([]m.Path, error) {
	var files []m.Path

	err := a.walk(root, func(path string, info os.FileInfo) error {
		rel, err := filepath.Rel(string(root), path)
		if err != nil {
			return err
		}

		if len(include) > 0 && !matchesAny(include, rel) {
			return nil
		}

		if matchesAny(exclude, rel) {
			return nil
		}

		files = append(files, m.Path(path))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ListDirsBySuffix walks root collecting directories by base-name suffix.
// Matching directories are not descended into.
func (a *LocalSourceFSAdapter) ListDirsBySuffix(root m.Path, suffix string) ([]m.Path, error) {
	var dirs []m.Path

	err := filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if _, skip := dependencyDirs[base]; skip {
			return filepath.SkipDir
		}

		if strings.HasSuffix(base, suffix) {
			dirs = append(dirs, m.Path(path))
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return dirs, nil
}

// RemoveFilesBySuffix sweeps leftover staging files from interrupted runs.
func (a *LocalSourceFSAdapter) RemoveFilesBySuffix(root m.Path, suffix string) (int, error) {
	removed := 0

	err := a.walk(root, func(path string, _ os.FileInfo) error {
		if !strings.HasSuffix(filepath.Base(path), suffix) {
			return nil
		}

		if err := os.Remove(path); err != nil {
			return err
		}

		removed++

		return nil
	})
	if err != nil {
		return removed, err
	}

	return removed, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// walk visits every regular file under root, skipping dependency dirs.
func (a *LocalSourceFSAdapter) walk(root m.Path, fn func(path string, info os.FileInfo) error) error {
	return filepath.Walk(string(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if _, skip := dependencyDirs[filepath.Base(path)]; skip && path != string(root) {
				return filepath.SkipDir
			}

			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return fn(path, info)
	})
}

// matchesAny reports whether any glob matches the slash-normalized
// relative path or its base name.
func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)

	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, rel); err == nil && ok {
			return true
		}

		if ok, err := filepath.Match(pattern, base); err == nil && ok {
			return true
		}
	}

	return false
}
