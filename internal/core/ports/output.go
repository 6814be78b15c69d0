package ports

// OutputWriter puts artifact content on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=output.go -destination=mocks/mock_output.go -package=mocks
type OutputWriter interface {
	// Write stores content at path, creating parent directories.
	// It reports false when the file already held identical content and was left untouched.
	Write(path string, content []byte) (bool, error)

	// Remove deletes the file at path. It reports false when there was nothing to delete.
	Remove(path string) (bool, error)
}
