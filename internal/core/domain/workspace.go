package domain

import (
	"path/filepath"
	"strings"
)

// ProjectConfig is the resolved configuration of one project.
type ProjectConfig struct {
	Name              string
	Root              string
	SourceExtension   string
	ScriptExtension   string
	ManifestExtension string
	Scripts           []string
	Jobs              int
}

// Contains reports whether path lies inside the project root.
func (p *ProjectConfig) Contains(path string) bool {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Workspace is the set of projects (the solution) visible from the working directory.
type Workspace struct {
	Root     string
	Projects []*ProjectConfig
	// Current is the project whose root contains the working directory.
	Current *ProjectConfig
}

// ProjectFor returns the innermost project containing path, or nil.
func (w *Workspace) ProjectFor(path string) *ProjectConfig {
	var best *ProjectConfig
	for _, p := range w.Projects {
		if !p.Contains(path) {
			continue
		}
		if best == nil || len(p.Root) > len(best.Root) {
			best = p
		}
	}
	return best
}
