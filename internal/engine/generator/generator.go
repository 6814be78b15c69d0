// Package generator runs one script end to end: read, evaluate, reconcile and report.
package generator

import (
	"context"
	"fmt"
	"os"

	"go.trai.ch/trier/internal/core/domain"
	"go.trai.ch/trier/internal/core/ports"
	"go.trai.ch/trier/internal/engine/evaluator"
	"go.trai.ch/trier/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// Generator drives a single project's scripts.
type Generator struct {
	evaluator  *evaluator.Evaluator
	reconciler *reconciler.Reconciler
	manifests  ports.ManifestStore
	reporter   ports.Reporter
	telemetry  ports.Telemetry
}

// New creates a Generator. manifests must be the store rec commits to. telemetry may be nil.
func New(
	ev *evaluator.Evaluator,
	rec *reconciler.Reconciler,
	manifests ports.ManifestStore,
	reporter ports.Reporter,
	telemetry ports.Telemetry,
) *Generator {
	return &Generator{
		evaluator:  ev,
		reconciler: rec,
		manifests:  manifests,
		reporter:   reporter,
		telemetry:  telemetry,
	}
}

// Generate evaluates the script at sourcePath and reconciles project with what it produced.
//
// Every failure is reported as a diagnostic before it is returned, and a panic anywhere
// below this call ends the run as aborted instead of crashing the process.
func (g *Generator) Generate(
	ctx context.Context,
	project ports.ProjectModel,
	sourcePath string,
) (summary reconciler.Summary, err error) {
	var vertex ports.Vertex
	if g.telemetry != nil {
		ctx, vertex = g.telemetry.Record(ctx, sourcePath)
	}

	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(zerr.New(fmt.Sprint(r)), domain.ErrScriptPanicked.Error()), "source", sourcePath)
			g.reporter.Report(domain.Diagnostic{Path: sourcePath, Message: err.Error()})
			summary = reconciler.Summary{State: domain.RunStateAborted}
		}
		if vertex != nil {
			if err == nil && !summary.Changed() {
				vertex.Cached()
			}
			vertex.Complete(err)
		}
	}()

	// #nosec G304 -- sourcePath comes from configured script discovery
	source, readErr := os.ReadFile(sourcePath)
	if readErr != nil {
		err = zerr.With(zerr.Wrap(readErr, domain.ErrSourceReadFailed.Error()), "source", sourcePath)
		g.reporter.Report(domain.Diagnostic{Path: sourcePath, Message: err.Error()})
		return reconciler.Summary{State: domain.RunStateAborted}, err
	}

	result := g.evaluator.Evaluate(ctx, sourcePath, string(source), project)

	summary, err = g.reconciler.Reconcile(ctx, project, sourcePath, result)
	if err != nil && summary.State == domain.RunStateFailed {
		// Diagnostics were already reported by the reconciler.
		g.reporter.Report(domain.Diagnostic{Path: sourcePath, Message: err.Error()})
	}
	return summary, err
}

// Clean removes every output the last run of sourcePath recorded, then the manifest itself.
// Outputs owned by another project are left alone, exactly as in a regular run.
func (g *Generator) Clean(
	ctx context.Context,
	project ports.ProjectModel,
	sourcePath string,
) (reconciler.Summary, error) {
	summary, err := g.reconciler.Reconcile(ctx, project, sourcePath, domain.EvaluationResult{})
	if err == nil {
		err = g.manifests.Remove(sourcePath)
	}
	if err != nil {
		g.reporter.Report(domain.Diagnostic{Path: sourcePath, Message: err.Error()})
		return summary, err
	}
	return summary, nil
}

// Factory builds a Generator per project configuration.
type Factory struct {
	interpreter ports.Interpreter
	manifests   ports.ManifestStoreFactory
	writer      ports.OutputWriter
	reporter    ports.Reporter
	logger      ports.Logger
	telemetry   ports.Telemetry
}

// NewFactory creates a Factory from the shared adapters.
func NewFactory(
	interpreter ports.Interpreter,
	manifests ports.ManifestStoreFactory,
	writer ports.OutputWriter,
	reporter ports.Reporter,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Factory {
	return &Factory{
		interpreter: interpreter,
		manifests:   manifests,
		writer:      writer,
		reporter:    reporter,
		logger:      logger,
		telemetry:   telemetry,
	}
}

// Manifests returns the manifest store used for cfg.
func (f *Factory) Manifests(cfg *domain.ProjectConfig) ports.ManifestStore {
	return f.manifests(cfg.ManifestExtension)
}

// For returns a Generator configured for cfg.
func (f *Factory) For(cfg *domain.ProjectConfig) *Generator {
	manifests := f.Manifests(cfg)
	ev := evaluator.New(f.interpreter, cfg.SourceExtension, cfg.ManifestExtension)
	rec := reconciler.New(manifests, f.writer, f.reporter, f.logger)
	return New(ev, rec, manifests, f.reporter, f.telemetry)
}
