// Package reconciler brings disk, project model and manifest in line with one evaluation result.
package reconciler

import (
	"context"
	"fmt"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/zerr"
)

// Summary describes what one reconciliation did.
type Summary struct {
	// Written counts artifacts whose file content changed.
	Written int
	// Unchanged counts artifacts whose file already held the same content.
	Unchanged int
	// Added counts new project items.
	Added int
	// Updated counts build action changes on existing items.
	Updated int
	// Removed counts stale outputs deleted from the project or disk.
	Removed int
	// Skipped counts stale outputs left alone because another project owns them.
	Skipped int
	// State is the terminal state the attempt ended in.
	State domain.RunState
}

// Changed reports whether the reconciliation mutated the disk or the project model.
func (s Summary) Changed() bool {
	return s.Written+s.Added+s.Updated+s.Removed > 0
}

// Reconciler applies evaluation results. It keeps no state between calls, so one
// instance can serve many source files as long as each file is reconciled by one caller at a time.
type Reconciler struct {
	manifest ports.ManifestStore
	writer   ports.OutputWriter
	reporter ports.Reporter
	logger   ports.Logger
}

// New creates a new Reconciler.
func New(manifest ports.ManifestStore, writer ports.OutputWriter, reporter ports.Reporter, logger ports.Logger) *Reconciler {
	return &Reconciler{
		manifest: manifest,
		writer:   writer,
		reporter: reporter,
		logger:   logger,
	}
}

// Reconcile makes project and disk match result for the script at sourcePath.
//
// A result with diagnostics is reported and nothing else is touched. Otherwise artifacts
// are written and registered, outputs of the previous run that are gone are removed, and
// the manifest is replaced. A failure in any step stops the run with the manifest
// unchanged; the next run converges again by path lookup.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	project ports.ProjectModel,
	sourcePath string,
	result domain.EvaluationResult,
) (Summary, error) {
	run := &run{
		Reconciler: r,
		vertex:     ports.VertexFromContext(ctx),
		project:    project,
		sourcePath: sourcePath,
		summary:    Summary{State: domain.RunStateStart},
	}

	if result.Failed() {
		for _, d := range result.Diagnostics {
			r.reporter.Report(d)
		}
		run.summary.State = domain.RunStateAborted
		return run.summary, zerr.With(domain.ErrScriptDiagnostics, "source", sourcePath)
	}

	steps := []struct {
		state domain.RunState
		fn    func(domain.EvaluationResult) error
	}{
		{domain.RunStateSyncing, run.sync},
		{domain.RunStateDeleting, run.deleteStale},
		{domain.RunStateCommitting, run.commit},
	}
	for _, step := range steps {
		run.summary.State = step.state
		if err := step.fn(result); err != nil {
			run.summary.State = domain.RunStateFailed
			return run.summary, zerr.With(err, "source", sourcePath)
		}
	}

	run.summary.State = domain.RunStateDone
	return run.summary, nil
}

// run is the state of a single Reconcile call.
type run struct {
	*Reconciler
	vertex     ports.Vertex
	project    ports.ProjectModel
	sourcePath string
	summary    Summary
}

func (r *run) log(level domain.LogLevel, format string, args ...any) {
	if r.vertex != nil {
		r.vertex.Log(level, fmt.Sprintf(format, args...))
	}
}

// sync writes every artifact, then registers the ones that belong in the project.
func (r *run) sync(result domain.EvaluationResult) error {
	for _, a := range result.Artifacts {
		written, err := r.writer.Write(a.Path, a.Content)
		if err != nil {
			return err
		}
		if written {
			r.summary.Written++
			r.log(domain.LogLevelInfo, "wrote %s", a.Path)
		} else {
			r.summary.Unchanged++
		}
	}

	for _, a := range result.Artifacts {
		if !a.BuildAction.Registers() {
			continue
		}
		if err := r.register(a); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) register(a domain.Artifact) error {
	item, err := r.project.FindItem(a.Path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrProjectItemLookupFailed.Error()), "path", a.Path)
	}

	if item == nil {
		item, err = r.project.AddItemFromFile(a.Path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrProjectItemAddFailed.Error()), "path", a.Path)
		}
		r.summary.Added++
		r.log(domain.LogLevelInfo, "added %s as %s", a.Path, a.BuildAction)
	} else if item.BuildAction == a.BuildAction {
		return nil
	} else {
		r.summary.Updated++
		r.log(domain.LogLevelInfo, "changed %s from %s to %s", a.Path, item.BuildAction, a.BuildAction)
	}

	if err := r.project.SetItemBuildAction(item, a.BuildAction); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrProjectItemUpdateFailed.Error()),
			"path", a.Path), "build_action", a.BuildAction.String())
	}
	return nil
}

// deleteStale removes outputs recorded by the previous run that this run no longer produced.
func (r *run) deleteStale(result domain.EvaluationResult) error {
	previous, err := r.manifest.Load(r.sourcePath)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("ignoring unreadable manifest %s: %v", r.manifest.Path(r.sourcePath), err))
		previous = nil
	}

	current := make(map[string]struct{}, len(result.Artifacts))
	for _, a := range result.Artifacts {
		current[a.Path] = struct{}{}
	}

	for _, path := range previous {
		if _, ok := current[path]; ok {
			continue
		}
		if err := r.removeStale(path); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) removeStale(path string) error {
	item, err := r.project.FindItem(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrProjectItemLookupFailed.Error()), "path", path)
	}

	if item == nil {
		owner, err := r.project.FindItemInSolution(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrProjectItemLookupFailed.Error()), "path", path)
		}
		if owner != nil && owner.Project != r.project.Name() {
			r.summary.Skipped++
			r.logger.Warn(fmt.Sprintf("not removing %s: it belongs to project %s", path, owner.Project))
			return nil
		}
	} else {
		if err := r.project.DeleteItem(item); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrProjectItemDeleteFailed.Error()), "path", path)
		}
	}

	removed, err := r.writer.Remove(path)
	if err != nil {
		return err
	}
	if item != nil || removed {
		r.summary.Removed++
		r.log(domain.LogLevelInfo, "removed %s", path)
	}
	return nil
}

func (r *run) commit(result domain.EvaluationResult) error {
	return r.manifest.Save(r.sourcePath, result.Paths())
}
