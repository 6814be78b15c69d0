// Package fs provides file system adapters for discovering scripts and writing artifacts.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/trier/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root, skipping VCS and metadata directories,
// directories matching ignores and nested project roots.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return err
			}

			if d.IsDir() {
				if path != root && w.skipDir(path, d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if ignored(d.Name(), ignores) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) skipDir(path, name string, ignores []string) bool {
	switch name {
	case ".git", ".jj", domain.TrierDirName:
		return true
	}
	if ignored(name, ignores) {
		return true
	}
	// Scripts under a nested project belong to that project.
	return fileExists(filepath.Join(path, domain.ProjectFileName))
}

func ignored(name string, ignores []string) bool {
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
