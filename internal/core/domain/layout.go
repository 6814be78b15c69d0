package domain

import (
	"path/filepath"
	"strings"
)

const (
	// TrierDirName is the name of the per-project metadata directory.
	TrierDirName = ".trier"

	// ItemsFileName is the name of the project item index inside TrierDirName.
	ItemsFileName = "items.yaml"

	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "trier.yaml"

	// WorkFileName is the name of the workspace (solution) configuration file.
	WorkFileName = "trier.work.yaml"

	// DefaultSourceExtension is the host language source extension.
	DefaultSourceExtension = ".go"

	// DefaultScriptExtension is the extension of generator scripts.
	DefaultScriptExtension = ".gsx"

	// DefaultManifestExtension is the marker extension of manifest files.
	DefaultManifestExtension = "trier"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ItemsPath returns the location of the project item index for a project root.
func ItemsPath(root string) string {
	return filepath.Join(root, TrierDirName, ItemsFileName)
}

// ManifestPath returns <sourcePath-without-extension>.<ext>.
func ManifestPath(sourcePath, ext string) string {
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		ext = DefaultManifestExtension
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + "." + ext
}

// DefaultOutputPath returns the path of a script's default output stream:
// the source path with its extension replaced by the host source extension.
func DefaultOutputPath(sourcePath, sourceExtension string) string {
	ext := NormalizeExtension(sourceExtension)
	if ext == "" {
		ext = DefaultSourceExtension
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ext
}
