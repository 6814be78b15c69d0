package ports

// ManifestStore persists the ordered list of artifact paths written by the last
// successful run of a source file.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Load returns the previous manifest for sourcePath.
	// Returns an empty slice and nil if no manifest exists.
	Load(sourcePath string) ([]string, error)

	// Save atomically replaces the manifest for sourcePath.
	Save(sourcePath string, paths []string) error

	// Remove deletes the manifest for sourcePath. A missing manifest is not an error.
	Remove(sourcePath string) error

	// Path returns the manifest location for sourcePath.
	Path(sourcePath string) string
}

// ManifestStoreFactory returns the store for manifests named with extension ext.
type ManifestStoreFactory func(ext string) ManifestStore
