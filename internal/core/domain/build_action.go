package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// BuildAction controls whether and how an artifact is registered as a project item.
type BuildAction string

const (
	// BuildActionGenerateOnly writes the artifact to disk but never registers it.
	BuildActionGenerateOnly BuildAction = "GenerateOnly"
	// BuildActionNone registers the artifact without any build semantics.
	BuildActionNone BuildAction = "None"
	// BuildActionCompile registers the artifact as a compiled source file.
	BuildActionCompile BuildAction = "Compile"
	// BuildActionContent registers the artifact as content copied alongside the build output.
	BuildActionContent BuildAction = "Content"
	// BuildActionEmbeddedResource registers the artifact as an embedded resource.
	BuildActionEmbeddedResource BuildAction = "EmbeddedResource"
)

// BuildActions lists every build action in declaration order.
var BuildActions = []BuildAction{
	BuildActionGenerateOnly,
	BuildActionNone,
	BuildActionCompile,
	BuildActionContent,
	BuildActionEmbeddedResource,
}

// IsValid reports whether a is one of the declared build actions.
func (a BuildAction) IsValid() bool {
	for _, known := range BuildActions {
		if a == known {
			return true
		}
	}
	return false
}

// Registers reports whether artifacts tagged with a become project items.
func (a BuildAction) Registers() bool {
	return a != BuildActionGenerateOnly
}

// String returns the canonical name of the build action.
func (a BuildAction) String() string {
	return string(a)
}

// ParseBuildAction converts a case-insensitive name to a BuildAction.
func ParseBuildAction(s string) (BuildAction, error) {
	for _, known := range BuildActions {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", zerr.With(ErrUnknownBuildAction, "build_action", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so YAML and flags accept any casing.
func (a *BuildAction) UnmarshalText(text []byte) error {
	parsed, err := ParseBuildAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a BuildAction) MarshalText() ([]byte, error) {
	return []byte(a), nil
}

// DefaultBuildAction returns the action an artifact gets when the script does not set one:
// Compile when the path has the host source extension, None otherwise.
func DefaultBuildAction(path, sourceExtension string) BuildAction {
	ext := NormalizeExtension(sourceExtension)
	if ext != "" && strings.EqualFold(filepath.Ext(path), ext) {
		return BuildActionCompile
	}
	return BuildActionNone
}

// NormalizeExtension returns ext with a single leading dot, or "" when ext is empty.
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	return "." + strings.TrimLeft(ext, ".")
}
