package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.OutputWriter = (*Writer)(nil)

// Writer puts artifacts on disk, skipping files whose content is already up to date.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores content at path. It reports false when the file already held the same content.
func (w *Writer) Write(path string, content []byte) (bool, error) {
	same, err := sameContent(path, content)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	if same {
		return false, nil
	}

	if err := WriteFileAtomic(path, content); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", path)
	}
	return true, nil
}

// Remove deletes the file at path. It reports false when the file did not exist.
func (w *Writer) Remove(path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrArtifactRemoveFailed.Error()), "path", path)
	}
	return true, nil
}

// sameContent compares the file at path with content by size and xxhash.
func sameContent(path string, content []byte) (bool, error) {
	f, err := os.Open(path) //nolint:gosec // Path is an artifact path resolved by the multiplexer
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, zerr.New("artifact path is not a regular file")
	}
	if info.Size() != int64(len(content)) {
		return false, nil
	}

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return false, zerr.Wrap(err, "failed to hash file content")
	}
	return hasher.Sum64() == xxhash.Sum64(content), nil
}
