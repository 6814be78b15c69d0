// Package manifest persists, per source file, the list of artifact paths written by its
// last successful generation run.
package manifest

import (
	"errors"
	iofs "io/fs"
	"os"
	"strings"

	"go.trai.ch/trier/internal/adapters/fs"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ManifestStore with one plain-text file next to each source file.
type Store struct {
	ext string
}

// NewStore creates a Store that names manifests <source-without-extension>.<ext>.
// An empty ext falls back to domain.DefaultManifestExtension.
func NewStore(ext string) *Store {
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = domain.DefaultManifestExtension
	}
	return &Store{ext: ext}
}

// Path returns the manifest location for sourcePath.
func (s *Store) Path(sourcePath string) string {
	return domain.ManifestPath(sourcePath, s.ext)
}

// Load returns the paths recorded for sourcePath, or an empty slice if there is no manifest.
func (s *Store) Load(sourcePath string) ([]string, error) {
	path := s.Path(sourcePath)

	//nolint:gosec // Path is derived from a discovered script path
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	lines := strings.Split(string(data), "\n")
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, nil
}

// Save atomically replaces the manifest for sourcePath with paths, in order.
func (s *Store) Save(sourcePath string, paths []string) error {
	for _, p := range paths {
		if p == "" || strings.ContainsAny(p, "\r\n") {
			return zerr.With(domain.ErrInvalidManifestPath, "path", p)
		}
	}

	path := s.Path(sourcePath)
	data := strings.Join(paths, "\n")
	if err := fs.WriteFileAtomic(path, []byte(data)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", path)
	}
	return nil
}

// Remove deletes the manifest for sourcePath. A missing manifest is not an error.
func (s *Store) Remove(sourcePath string) error {
	path := s.Path(sourcePath)
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", path)
	}
	return nil
}
