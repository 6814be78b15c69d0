// Package config provides the configuration loader for trier.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Mode represents the configuration mode of trier.
type Mode string

const (
	// ModeWorkspace indicates that trier has a workfile.
	ModeWorkspace Mode = "workspace"
	// ModeStandalone indicates that trier has only one project file.
	ModeStandalone Mode = "standalone"
)

var validProjectNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load discovers the configuration visible from cwd and returns the resulting workspace.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	cwd = filepath.Clean(cwd)
	configPath, mode, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var ws *domain.Workspace
	switch mode {
	case ModeStandalone:
		ws, err = l.loadProjectfile(configPath)
	case ModeWorkspace:
		ws, err = l.loadWorkfile(configPath)
	default:
		return nil, zerr.With(domain.ErrConfigNotFound, "mode", mode)
	}
	if err != nil {
		return nil, err
	}

	if len(ws.Projects) == 0 {
		return nil, zerr.With(domain.ErrNoProjects, "config", configPath)
	}

	ws.Current = ws.ProjectFor(cwd)
	if ws.Current == nil {
		ws.Current = ws.Projects[0]
	}
	return ws, nil
}

func (l *Loader) findConfiguration(cwd string) (string, Mode, error) {
	currentDir := cwd
	var standaloneCandidate string

	for {
		workfilePath := filepath.Join(currentDir, domain.WorkFileName)
		if _, err := os.Stat(workfilePath); err == nil {
			return workfilePath, ModeWorkspace, nil
		}

		if standaloneCandidate == "" {
			projectfilePath := filepath.Join(currentDir, domain.ProjectFileName)
			if _, err := os.Stat(projectfilePath); err == nil {
				standaloneCandidate = projectfilePath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	if standaloneCandidate != "" {
		return standaloneCandidate, ModeStandalone, nil
	}

	return "", "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadProjectfile(configPath string) (*domain.Workspace, error) {
	var projectfile Projectfile
	if err := readAndUnmarshalYAML(configPath, &projectfile); err != nil {
		return nil, err
	}

	root := resolveRoot(configPath, projectfile.Root)
	if projectfile.Project == "" {
		projectfile.Project = filepath.Base(root)
		if !validProjectNameRegex.MatchString(projectfile.Project) {
			projectfile.Project = "project"
		}
	}

	if err := validateProjectfile(&projectfile, "."); err != nil {
		return nil, err
	}

	project := buildProject(&projectfile, root)
	if err := validateExtensions(project, "."); err != nil {
		return nil, err
	}
	return &domain.Workspace{
		Root:     root,
		Projects: []*domain.ProjectConfig{project},
	}, nil
}

func (l *Loader) loadWorkfile(configPath string) (*domain.Workspace, error) {
	var workfile Workfile
	if err := readAndUnmarshalYAML(configPath, &workfile); err != nil {
		return nil, err
	}

	ws := &domain.Workspace{Root: resolveRoot(configPath, workfile.Root)}

	projectPaths, err := resolveProjectPaths(ws.Root, workfile.Projects)
	if err != nil {
		return nil, err
	}

	// Track project names to ensure uniqueness
	projectNames := make(map[string]string)
	for _, projectPath := range projectPaths {
		project, err := l.processProject(ws.Root, projectPath, projectNames)
		if err != nil {
			return nil, err
		}
		if project != nil {
			ws.Projects = append(ws.Projects, project)
		}
	}

	return ws, nil
}

func resolveProjectPaths(workspaceRoot string, patterns []string) ([]string, error) {
	projectPaths := make(map[string]struct{})

	for _, pattern := range patterns {
		absPattern := filepath.Join(workspaceRoot, pattern)

		matches, err := filepath.Glob(absPattern)
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}

		for _, match := range matches {
			projectPaths[match] = struct{}{}
		}
	}

	sortedPaths := make([]string, 0, len(projectPaths))
	for p := range projectPaths {
		sortedPaths = append(sortedPaths, p)
	}
	slices.Sort(sortedPaths)

	return sortedPaths, nil
}

func (l *Loader) processProject(
	workspaceRoot, projectPath string,
	projectNames map[string]string,
) (*domain.ProjectConfig, error) {
	relPath, _ := filepath.Rel(workspaceRoot, projectPath)

	// Glob returns files too
	info, err := os.Stat(projectPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	projectfilePath := filepath.Join(projectPath, domain.ProjectFileName)
	if _, statErr := os.Stat(projectfilePath); os.IsNotExist(statErr) {
		l.Logger.Warn(fmt.Sprintf("%s missing in project %s, skipping", domain.ProjectFileName, relPath))
		return nil, nil
	}

	var projectfile Projectfile
	if err := readAndUnmarshalYAML(projectfilePath, &projectfile); err != nil {
		return nil, zerr.With(err, "directory", relPath)
	}

	if projectfile.Project == "" {
		return nil, zerr.With(domain.ErrMissingProjectName, "directory", relPath)
	}
	if err := validateProjectfile(&projectfile, relPath); err != nil {
		return nil, err
	}

	if existingPath, exists := projectNames[projectfile.Project]; exists {
		err := zerr.With(domain.ErrDuplicateProjectName, "project_name", projectfile.Project)
		err = zerr.With(err, "first_occurrence", existingPath)
		err = zerr.With(err, "duplicate_at", relPath)
		return nil, err
	}
	projectNames[projectfile.Project] = relPath

	if projectfile.Root != "" {
		l.Logger.Warn(fmt.Sprintf("'root' defined in %s is ignored in workspace mode", relPath))
	}

	project := buildProject(&projectfile, filepath.Clean(projectPath))
	if err := validateExtensions(project, relPath); err != nil {
		return nil, err
	}
	return project, nil
}

func validateProjectfile(projectfile *Projectfile, relPath string) error {
	if !validProjectNameRegex.MatchString(projectfile.Project) {
		err := zerr.With(domain.ErrInvalidProjectName, "project_name", projectfile.Project)
		return zerr.With(err, "directory", relPath)
	}

	if projectfile.Jobs < 0 {
		err := zerr.With(domain.ErrInvalidJobCount, "jobs", projectfile.Jobs)
		return zerr.With(err, "directory", relPath)
	}

	return nil
}

// validateExtensions rejects configurations where a script, its default output and its
// manifest could share a path.
func validateExtensions(project *domain.ProjectConfig, relPath string) error {
	source := strings.ToLower(project.SourceExtension)
	script := strings.ToLower(project.ScriptExtension)
	manifest := strings.ToLower(domain.NormalizeExtension(project.ManifestExtension))
	if source != script && manifest != script && manifest != source {
		return nil
	}
	err := zerr.With(domain.ErrConflictingExtensions, "source_extension", project.SourceExtension)
	err = zerr.With(err, "script_extension", project.ScriptExtension)
	err = zerr.With(err, "manifest_extension", project.ManifestExtension)
	return zerr.With(err, "directory", relPath)
}

func buildProject(projectfile *Projectfile, root string) *domain.ProjectConfig {
	project := &domain.ProjectConfig{
		Name:              projectfile.Project,
		Root:              root,
		SourceExtension:   domain.NormalizeExtension(projectfile.SourceExtension),
		ScriptExtension:   domain.NormalizeExtension(projectfile.ScriptExtension),
		ManifestExtension: projectfile.ManifestExtension,
		Scripts:           slices.Clone(projectfile.Scripts),
		Jobs:              projectfile.Jobs,
	}

	if project.SourceExtension == "" {
		project.SourceExtension = domain.DefaultSourceExtension
	}
	if project.ScriptExtension == "" {
		project.ScriptExtension = domain.DefaultScriptExtension
	}
	if project.ManifestExtension == "" {
		project.ManifestExtension = domain.DefaultManifestExtension
	}
	if project.Jobs == 0 {
		project.Jobs = runtime.NumCPU()
	}

	return project
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}

	return nil
}
