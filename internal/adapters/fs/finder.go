package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ScriptFinder = (*Finder)(nil)

// Finder discovers the scripts of a project by walking its root.
type Finder struct {
	walker *Walker
}

// NewFinder creates a new Finder.
func NewFinder(walker *Walker) *Finder {
	return &Finder{walker: walker}
}

// Find returns the scripts of project. Without configured patterns every file carrying the
// script extension is a script; otherwise files whose root-relative path matches a doublestar
// pattern are. Two scripts that would share a manifest are rejected.
func (f *Finder) Find(project *domain.ProjectConfig) ([]string, error) {
	info, err := os.Stat(project.Root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScriptDiscoveryFailed.Error()), "root", project.Root)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrScriptDiscoveryFailed, "root", project.Root)
	}

	for _, pattern := range project.Scripts {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, zerr.With(domain.ErrScriptDiscoveryFailed, "pattern", pattern)
		}
	}

	var scripts []string
	manifests := make(map[string]string)
	for path := range f.walker.WalkFiles(project.Root, nil) {
		if !f.IsScript(project, path) {
			continue
		}
		manifest := domain.ManifestPath(path, project.ManifestExtension)
		if other, ok := manifests[manifest]; ok {
			err := zerr.With(domain.ErrManifestPathShared, "manifest", manifest)
			err = zerr.With(err, "first", other)
			return nil, zerr.With(err, "second", path)
		}
		manifests[manifest] = path
		scripts = append(scripts, path)
	}

	slices.Sort(scripts)
	return scripts, nil
}

// IsScript reports whether path is selected by the script extension or patterns of project.
// Files carrying the manifest extension never are.
func (f *Finder) IsScript(project *domain.ProjectConfig, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || ext == manifestExtension(project) {
		return false
	}

	if len(project.Scripts) == 0 {
		scriptExt := domain.NormalizeExtension(project.ScriptExtension)
		if scriptExt == "" {
			scriptExt = domain.DefaultScriptExtension
		}
		return strings.EqualFold(ext, scriptExt)
	}

	rel, err := filepath.Rel(project.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range project.Scripts {
		if ok, err := doublestar.Match(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

func manifestExtension(project *domain.ProjectConfig) string {
	ext := domain.NormalizeExtension(project.ManifestExtension)
	if ext == "" {
		ext = domain.NormalizeExtension(domain.DefaultManifestExtension)
	}
	return strings.ToLower(ext)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
