package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

// Sentinels are annotated with zerr.With and used as messages in zerr.Wrap, and both build a
// new *zerr.Error. errors.Is therefore only matches the sentinels joined in with errors.Join
// (ErrGenerationFailed, ErrCleanFailed); use Is to classify any other failure.
var (
	// ErrScriptDiagnostics is returned when an evaluation produced at least one diagnostic.
	ErrScriptDiagnostics = zerr.New("script reported diagnostics")

	// ErrGenerationFailed is returned when one or more generation runs did not reach the done state.
	ErrGenerationFailed = zerr.New("generation failed")

	// ErrUnknownBuildAction is returned when a build action name is not part of the enumeration.
	ErrUnknownBuildAction = zerr.New("unknown build action")

	// ErrMissingEntryPoint is returned when a script does not declare a Generate function.
	ErrMissingEntryPoint = zerr.New("script does not define func Generate()")

	// ErrInvalidEntryPoint is returned when Generate has an unsupported signature.
	ErrInvalidEntryPoint = zerr.New("Generate must have signature func() or func() error")

	// ErrInterpreterUnavailable is returned when the script interpreter cannot be prepared.
	ErrInterpreterUnavailable = zerr.New("script interpreter unavailable")

	// ErrScriptPanicked is returned when a script or the engine panics during a run.
	ErrScriptPanicked = zerr.New("panic during generation")

	// ErrOutputPathClaimed is staged when two output names resolve to the same path.
	ErrOutputPathClaimed = zerr.New("output path already claimed")

	// ErrSourceReadFailed is returned when the script source cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read script source")

	// ErrManifestReadFailed is returned when a manifest exists but cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestWriteFailed is returned when a manifest cannot be persisted.
	ErrManifestWriteFailed = zerr.New("failed to write manifest")

	// ErrInvalidManifestPath is returned when a path cannot be stored in a manifest.
	ErrInvalidManifestPath = zerr.New("path cannot be stored in a manifest")

	// ErrArtifactWriteFailed is returned when an artifact cannot be written to disk.
	ErrArtifactWriteFailed = zerr.New("failed to write artifact")

	// ErrArtifactRemoveFailed is returned when a stale artifact cannot be removed from disk.
	ErrArtifactRemoveFailed = zerr.New("failed to remove stale artifact")

	// ErrProjectItemAddFailed is returned when the project model rejects a new item.
	ErrProjectItemAddFailed = zerr.New("failed to add project item")

	// ErrProjectItemUpdateFailed is returned when the project model rejects a build action update.
	ErrProjectItemUpdateFailed = zerr.New("failed to update project item")

	// ErrProjectItemDeleteFailed is returned when the project model rejects a deletion.
	ErrProjectItemDeleteFailed = zerr.New("failed to delete project item")

	// ErrProjectItemLookupFailed is returned when the project model cannot be queried.
	ErrProjectItemLookupFailed = zerr.New("failed to look up project item")

	// ErrItemFileMissing is returned when a project item is added for a file that does not exist.
	ErrItemFileMissing = zerr.New("item file does not exist")

	// ErrItemNotFound is returned when an operation targets an item the project does not contain.
	ErrItemNotFound = zerr.New("project item not found")

	// ErrOutputPathOutsideRoot is returned when an item path is outside the project root.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside project root")

	// ErrItemsReadFailed is returned when a project item index cannot be read.
	ErrItemsReadFailed = zerr.New("failed to read project items")

	// ErrItemsWriteFailed is returned when a project item index cannot be written.
	ErrItemsWriteFailed = zerr.New("failed to write project items")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when the config file cannot be found.
	ErrConfigNotFound = zerr.New("could not find trier.yaml or trier.work.yaml")

	// ErrMissingProjectName is returned in workspace mode when a project file has no name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens and underscores")

	// ErrDuplicateProjectName is returned when multiple projects share the same name in a workspace.
	ErrDuplicateProjectName = zerr.New("duplicate project name")

	// ErrProjectNotFound is returned when a script does not belong to any configured project.
	ErrProjectNotFound = zerr.New("script is not inside any project")

	// ErrScriptDiscoveryFailed is returned when scripts cannot be enumerated.
	ErrScriptDiscoveryFailed = zerr.New("failed to discover scripts")

	// ErrNoProjects is returned when a configuration resolves to zero projects.
	ErrNoProjects = zerr.New("configuration does not contain any project")

	// ErrInvalidJobCount is returned when a project configures a negative job count.
	ErrInvalidJobCount = zerr.New("jobs must not be negative")

	// ErrOutputPathReserved is staged when a script claims its own source or manifest path.
	ErrOutputPathReserved = zerr.New("output path is reserved for the script source and its manifest")

	// ErrConflictingExtensions is returned when a project configures overlapping file extensions.
	ErrConflictingExtensions = zerr.New("source, script and manifest extensions must differ")

	// ErrManifestPathShared is returned when two scripts of a project map to the same manifest.
	ErrManifestPathShared = zerr.New("scripts share a manifest path")

	// ErrCleanFailed is returned when outputs of one or more scripts could not be cleaned.
	ErrCleanFailed = zerr.New("clean failed")
)

// Is reports whether err is sentinel, or carries a *zerr.Error built from it with
// zerr.With or zerr.Wrap(cause, sentinel.Error()).
func Is(err, sentinel error) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	var target *zerr.Error
	if !errors.As(sentinel, &target) || target.Message() == "" {
		return false
	}
	return hasMessage(err, target.Message())
}

func hasMessage(err error, message string) bool {
	for err != nil {
		if z, ok := err.(*zerr.Error); ok && z.Message() == message {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				if hasMessage(inner, message) {
					return true
				}
			}
			return false
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return false
		}
	}
	return false
}
