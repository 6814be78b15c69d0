package ports

import "go.trai.ch/trier/internal/core/domain"

// ScriptFinder discovers the generator scripts of a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=finder.go -destination=mocks/mock_finder.go -package=mocks
type ScriptFinder interface {
	// Find returns the absolute, sorted paths of every script configured for project.
	Find(project *domain.ProjectConfig) ([]string, error)

	// IsScript reports whether path would be selected as a script of project,
	// whether or not the file exists.
	IsScript(project *domain.ProjectConfig, path string) bool
}
